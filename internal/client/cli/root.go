package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/client/posts"
)

func (a *App) getStatus() string {
	s := ""
	if id, ok := a.session.Identity(); ok {
		s = id.Email + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the persisted session, then serves the REPL until the user
// quits or ctx is cancelled. Local storage is released on return.
func (a *App) Run(ctx context.Context) error {
	defer a.Close(context.WithoutCancel(ctx))

	printlnFn("Welcome to SocialHub CLI (type 'help' for commands)")

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	a.checkOnline(ctx)
	if err := a.posts.Refresh(ctx); err != nil && !errors.Is(err, posts.ErrOffline) {
		a.log.Warn(ctx, "initial refresh failed", "error", err)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}
