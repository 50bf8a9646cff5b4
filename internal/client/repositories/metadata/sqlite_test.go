package metadata

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLite_SetGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("a.b.c")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("a.b.c"), v)
}

func TestSQLite_GetMissingIsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("old")))
	require.NoError(t, r.Set(ctx, "token", []byte("new")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLite_SetNilStoresEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil))
	m, err := r.List(ctx)
	require.NoError(t, err)
	_, ok := m["k"]
	assert.True(t, ok)
}

func TestSQLite_DeleteListClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": {1}, "b": {2}}, m)

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))
	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func newMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestSQLite_ErrorsAreWrapped(t *testing.T) {
	boom := errors.New("disk I/O error")
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM metadata`)).WillReturnError(boom)

		v, err := r.Get(ctx, "token")
		require.ErrorIs(t, err, boom)
		assert.Nil(t, v)
		assert.Contains(t, err.Error(), `read metadata "token"`)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO metadata`)).WillReturnError(boom)

		err := r.Set(ctx, "token", []byte("x"))
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), `write metadata "token"`)
	})

	t.Run("delete", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM metadata WHERE key = ?`)).WillReturnError(boom)

		require.ErrorIs(t, r.Delete(ctx, "token"), boom)
	})

	t.Run("clear", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM metadata`)).WillReturnError(boom)

		require.ErrorIs(t, r.Clear(ctx), boom)
	})

	t.Run("list query", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM metadata`)).WillReturnError(boom)

		_, err := r.List(ctx)
		require.ErrorIs(t, err, boom)
	})

	t.Run("list rows", func(t *testing.T) {
		r, mock := newMock(t)
		rows := sqlmock.NewRows([]string{"key", "value"}).
			AddRow("a", []byte{1}).
			RowError(0, boom)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT key, value FROM metadata`)).WillReturnRows(rows)

		_, err := r.List(ctx)
		require.ErrorIs(t, err, boom)
	})
}
