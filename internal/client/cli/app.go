package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/client/config"
	"github.com/dmitrijs2005/socialhub/internal/client/gate"
	"github.com/dmitrijs2005/socialhub/internal/client/posts"
	"github.com/dmitrijs2005/socialhub/internal/client/repositories/metadata"
	postcache "github.com/dmitrijs2005/socialhub/internal/client/repositories/posts"
	"github.com/dmitrijs2005/socialhub/internal/client/session"
	"github.com/dmitrijs2005/socialhub/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger is the reachability probe used by the status watcher.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Store
	posts   posts.Store
	gate    *gate.Gate
	api     pinger
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer

	mu   sync.Mutex
	mode Mode
	view session.View
}

// NewApp opens local storage and builds the stores described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, db)

	var storage metadata.Repository = metadata.NewSQLiteRepository(db)
	if c.TokenStorage == config.StorageRedis {
		rdb, err := metadata.NewRedisClient(ctx, c.RedisURL)
		if err != nil {
			a.closeAll()
			return nil, err
		}
		a.closers = append(a.closers, rdb)
		storage = metadata.NewRedisRepository(rdb, "")
	}

	api, err := client.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	sess := session.New(api, storage, a, log)
	api.Attach(sess)

	var store posts.Store
	switch c.PostMode {
	case config.PostModeMemory:
		store = posts.NewLocal(sess)
	default:
		store = posts.NewRemote(api, postcache.NewSQLiteRepository(db), sess, log)
	}

	a.wire(sess, store, api)
	return a, nil
}

func (a *App) wire(sess *session.Store, store posts.Store, api pinger) {
	a.session = sess
	a.posts = store
	a.api = api
	a.gate = gate.New(sess, a)
}

// Navigate implements session.Navigator.
func (a *App) Navigate(_ context.Context, v session.View) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()

	switch v {
	case session.ViewLanding:
		name := "there"
		if id, ok := a.session.Identity(); ok {
			name = id.Email
			if id.Name != "" {
				name = id.Name
			}
		}
		a.printf("Welcome, %s! Type 'feed' to see the latest posts.\n", name)
	case session.ViewLogin:
		a.printf("You are not logged in. Type 'login' or 'register' to continue.\n")
	}
}

// View returns the view the app was last sent to.
func (a *App) View() session.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.gate.CanEnter()
}

// StartOnlineStatusWatcher pings the backend every interval and updates the
// mode shown in the prompt until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(pctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// Close drops the in-memory session and releases local storage.
func (a *App) Close(ctx context.Context) {
	if a.session != nil {
		a.session.Teardown(ctx)
	}
	a.closeAll()
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
