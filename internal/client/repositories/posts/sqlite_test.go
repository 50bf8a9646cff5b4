package posts

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/client/models"
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

func samplePosts() []models.Post {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.Post{
		{ID: "3", Title: "newest", Body: "c", AuthorDisplayName: "Ana", AuthorID: 1,
			CreatedAt: created.Add(2 * time.Hour), EditedAt: created.Add(3 * time.Hour)},
		{ID: "2", Title: "middle", Body: "b", AuthorDisplayName: "Bia", AuthorID: 2,
			OrganizationName: "Org", CreatedAt: created.Add(time.Hour)},
		{ID: "1", Title: "oldest", Body: "a", AuthorDisplayName: "Ana", AuthorID: 1, CreatedAt: created},
	}
}

func assertSamePosts(t *testing.T, want, got []models.Post) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "post %d: want %+v, got %+v", i, want[i], got[i])
	}
}

func TestGetAll_EmptyCache(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReplaceAll_PreservesOrderAndFields(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	want := samplePosts()

	require.NoError(t, r.ReplaceAll(ctx, want))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	assertSamePosts(t, want, got)
	assert.False(t, got[1].Edited())
}

func TestReplaceAll_DiscardsPreviousSnapshot(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.ReplaceAll(ctx, samplePosts()))
	next := samplePosts()[1:2]
	require.NoError(t, r.ReplaceAll(ctx, next))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	assertSamePosts(t, next, got)

	require.NoError(t, r.ReplaceAll(ctx, nil))
	got, err = r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplaceAll_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewSQLiteRepository(db)
	boom := errors.New("constraint failed")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM posts`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts`)).WillReturnError(boom)
	mock.ExpectRollback()

	err = r.ReplaceAll(context.Background(), samplePosts())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to insert post 3")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAll_BeginFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	boom := errors.New("database is locked")

	mock.ExpectBegin().WillReturnError(boom)

	err = NewSQLiteRepository(db).ReplaceAll(context.Background(), samplePosts())
	require.ErrorIs(t, err, boom)
}

func TestGetAll_Errors(t *testing.T) {
	boom := errors.New("io")

	t.Run("query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title`)).WillReturnError(boom)

		_, err = NewSQLiteRepository(db).GetAll(context.Background())
		require.ErrorIs(t, err, boom)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		rows := sqlmock.NewRows([]string{"id", "title", "body", "author_display_name", "author_id",
			"organization_name", "created_at", "edited_at"}).
			AddRow("1", "t", "b", "Ana", int64(1), "", "yesterday", nil)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title`)).WillReturnRows(rows)

		_, err = NewSQLiteRepository(db).GetAll(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid timestamp")
	})
}
