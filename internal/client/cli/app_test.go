package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/socialhub/internal/client/config"
	"github.com/dmitrijs2005/socialhub/internal/client/gate"
	"github.com/dmitrijs2005/socialhub/internal/client/posts"
	"github.com/dmitrijs2005/socialhub/internal/client/session"
	"github.com/dmitrijs2005/socialhub/internal/testutil"
	"github.com/dmitrijs2005/socialhub/internal/testutil/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, be *backend.Backend) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.ServerURL = be.URL
	c.RequestTimeout = 5 * time.Second
	c.DatabasePath = filepath.Join(t.TempDir(), "client.db")
	c.OnlineCheckInterval = 0
	return c
}

func newTestApp(t *testing.T, c *config.Config, input string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, "", nil)

	ctx := context.Background()
	a, err := NewApp(ctx, c, testutil.NoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })

	out := &bytes.Buffer{}
	a.out = out
	a.reader = bufio.NewReader(strings.NewReader(input))
	require.NoError(t, a.session.Restore(ctx))
	return a, out
}

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func seedUser(be *backend.Backend) backend.User {
	return be.AddUser(backend.User{Name: "Ana", Email: "ana@example.com", Password: "secret", Type: "USER"})
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	be := backend.New(t)
	c := testConfig(t, be)
	c.PostMode = "paper"

	_, err := NewApp(context.Background(), c, testutil.NoopLogger())
	assert.ErrorContains(t, err, "unknown post mode")
}

func TestApp_LoginAndLogout(t *testing.T) {
	be := backend.New(t)
	seedUser(be)
	a, out := newTestApp(t, testConfig(t, be), lines("ana@example.com", "secret"))
	ctx := context.Background()

	require.NoError(t, a.Login(ctx, nil))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, session.ViewLanding, a.View())
	assert.Contains(t, out.String(), "Welcome, Ana!")
	assert.Equal(t, "(ana@example.com )", a.getStatus())

	out.Reset()
	require.NoError(t, a.Whoami(ctx, nil))
	assert.Contains(t, out.String(), "Ana <ana@example.com>")

	require.NoError(t, a.Logout(ctx, nil))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, session.ViewLogin, a.View())

	out.Reset()
	require.NoError(t, a.Whoami(ctx, nil))
	assert.Equal(t, "anonymous\n", out.String())
}

func TestApp_LoginFailureKeepsAnonymous(t *testing.T) {
	be := backend.New(t)
	seedUser(be)
	a, _ := newTestApp(t, testConfig(t, be), lines("ana@example.com", "wrong"))

	err := a.Login(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, a.isLoggedIn())
}

func TestApp_RegisterOrganization(t *testing.T) {
	be := backend.New(t)
	a, _ := newTestApp(t, testConfig(t, be), lines(
		"Casa Azul",
		"contato@casaazul.org",
		"secret1",
		"ong",
		"12.345.678/0001-90",
		"We feed people.",
		"",
	))

	require.NoError(t, a.Register(context.Background(), nil))

	u, ok := be.User("contato@casaazul.org")
	require.True(t, ok)
	assert.Equal(t, "ONG", u.Type)
	assert.Equal(t, "12.345.678/0001-90", u.CNPJ)
	assert.Equal(t, "We feed people.", u.Description)

	id, ok := a.session.Identity()
	require.True(t, ok)
	require.NotNil(t, id.OrganizationID)
}

func TestApp_Reset(t *testing.T) {
	be := backend.New(t)
	seedUser(be)
	a, out := newTestApp(t, testConfig(t, be), lines("ana@example.com", "changed", "ana@example.com", "changed"))
	ctx := context.Background()

	require.NoError(t, a.Reset(ctx, nil))
	assert.Contains(t, out.String(), "Password updated")
	require.NoError(t, a.Login(ctx, nil))
	assert.True(t, a.isLoggedIn())
}

func TestApp_ProtectedCommandsRequireLogin(t *testing.T) {
	be := backend.New(t)
	a, out := newTestApp(t, testConfig(t, be), "")
	ctx := context.Background()

	for name, cmd := range map[string]func(context.Context, []string) error{
		"post":    a.Post,
		"edit":    a.Edit,
		"delete":  a.Delete,
		"mine":    a.Mine,
		"profile": a.Profile,
	} {
		a.view = ""
		err := cmd(ctx, []string{"1"})
		assert.ErrorIs(t, err, gate.ErrAccessDenied, name)
		assert.Equal(t, session.ViewLogin, a.View(), name)
	}
	assert.Contains(t, out.String(), "You are not logged in")
	assert.Zero(t, be.RequestCount(http.MethodPost, "/postagens"))
}

func TestApp_PostLifecycleRemote(t *testing.T) {
	be := backend.New(t)
	seedUser(be)
	be.AddPost(backend.Post{Title: "Older", Body: "first", Author: "Bruno", AuthorID: 99})

	a, out := newTestApp(t, testConfig(t, be), lines(
		"ana@example.com", "secret",
		"Hello", "line one", "line two", "", "",
		"Hello again", "",
	))
	ctx := context.Background()
	require.NoError(t, a.Login(ctx, nil))
	require.NoError(t, a.Refresh(ctx, nil))
	assert.Contains(t, out.String(), "Older by Bruno")

	out.Reset()
	require.NoError(t, a.Post(ctx, nil))
	assert.Contains(t, out.String(), "Published post")

	stored := be.Posts()
	require.Len(t, stored, 2)
	assert.Equal(t, "Hello", stored[0].Title)
	assert.Equal(t, "line one\nline two", stored[0].Body)

	list, err := a.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	id := list[0].ID

	out.Reset()
	require.NoError(t, a.Edit(ctx, []string{id}))
	assert.Contains(t, out.String(), "updated")
	assert.Equal(t, "Hello again", be.Posts()[0].Title)

	out.Reset()
	require.NoError(t, a.Show(ctx, []string{id}))
	assert.Contains(t, out.String(), "Hello again")
	assert.Contains(t, out.String(), "by Ana")

	out.Reset()
	require.NoError(t, a.Mine(ctx, nil))
	assert.Contains(t, out.String(), "Hello again")
	assert.NotContains(t, out.String(), "Older")

	require.NoError(t, a.Delete(ctx, []string{id}))
	assert.Len(t, be.Posts(), 1)
	_, ok := a.posts.FindByID(id)
	assert.False(t, ok)
}

func TestApp_EditWithoutChanges(t *testing.T) {
	be := backend.New(t)
	u := seedUser(be)
	p := be.AddPost(backend.Post{Title: "Mine", Body: "text", Author: u.Name, AuthorID: u.ID})

	a, out := newTestApp(t, testConfig(t, be), lines("ana@example.com", "secret", "", ""))
	ctx := context.Background()
	require.NoError(t, a.Login(ctx, nil))
	require.NoError(t, a.posts.Refresh(ctx))

	require.NoError(t, a.Edit(ctx, []string{backendID(p)}))
	assert.Contains(t, out.String(), "Nothing to change.")
	for _, r := range be.Requests() {
		assert.NotEqual(t, http.MethodPut, r.Method)
	}
}

func backendID(p backend.Post) string {
	return strconv.FormatInt(p.ID, 10)
}

func TestApp_ShowUnknownPost(t *testing.T) {
	be := backend.New(t)
	a, _ := newTestApp(t, testConfig(t, be), "")

	err := a.Show(context.Background(), []string{"404"})
	assert.ErrorIs(t, err, errNoPost)
}

func TestApp_RefreshOfflineServesCache(t *testing.T) {
	be := backend.New(t)
	be.AddPost(backend.Post{Title: "Cached", Body: "x", Author: "Bruno"})
	a, out := newTestApp(t, testConfig(t, be), "")
	ctx := context.Background()

	require.NoError(t, a.Refresh(ctx, nil))
	be.Close()

	out.Reset()
	require.NoError(t, a.Refresh(ctx, nil))
	assert.Contains(t, out.String(), posts.ErrOffline.Error())
	assert.Contains(t, out.String(), "Cached")
}

func TestApp_MemoryMode(t *testing.T) {
	be := backend.New(t)
	seedUser(be)
	c := testConfig(t, be)
	c.PostMode = config.PostModeMemory

	a, out := newTestApp(t, c, lines("ana@example.com", "secret", "Local", "only here", "", ""))
	ctx := context.Background()
	require.NoError(t, a.Login(ctx, nil))
	require.NoError(t, a.Post(ctx, nil))

	assert.Empty(t, be.Posts())
	out.Reset()
	require.NoError(t, a.Feed(ctx, nil))
	assert.Contains(t, out.String(), "Local by Ana")
}

func TestApp_RedisTokenStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	be := backend.New(t)
	seedUser(be)

	c := testConfig(t, be)
	c.TokenStorage = config.StorageRedis
	c.RedisURL = "redis://" + mr.Addr() + "/0"

	a, _ := newTestApp(t, c, lines("ana@example.com", "secret"))
	require.NoError(t, a.Login(context.Background(), nil))

	stored := mr.HGet("socialhub:client:metadata", session.DefaultTokenKey)
	assert.Equal(t, a.session.Token(), stored)

	again, _ := newTestApp(t, c, "")
	assert.True(t, again.isLoggedIn())
}

func TestApp_CheckOnline(t *testing.T) {
	be := backend.New(t)
	a, _ := newTestApp(t, testConfig(t, be), "")
	ctx := context.Background()

	a.checkOnline(ctx)
	assert.Equal(t, ModeOnline, a.Mode())
	assert.Equal(t, "(online)", a.getStatus())

	be.Close()
	a.checkOnline(ctx)
	assert.Equal(t, ModeOffline, a.Mode())
}

func TestApp_StartOnlineStatusWatcherStops(t *testing.T) {
	be := backend.New(t)
	a, _ := newTestApp(t, testConfig(t, be), "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestApp_RevokedTokenSendsToLogin(t *testing.T) {
	be := backend.New(t)
	seedUser(be)
	a, out := newTestApp(t, testConfig(t, be), lines("ana@example.com", "secret"))
	ctx := context.Background()
	require.NoError(t, a.Login(ctx, nil))

	be.Revoke(a.session.Token())
	out.Reset()
	err := a.Profile(ctx, nil)
	require.Error(t, err)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, session.ViewLogin, a.View())
	assert.Contains(t, out.String(), "You are not logged in")
}
