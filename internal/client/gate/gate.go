// Package gate guards protected views behind the session state.
package gate

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/socialhub/internal/client/session"
)

// ErrAccessDenied is returned by Enter when the user is not logged in.
var ErrAccessDenied = errors.New("login required")

// Session is the part of session.Store the gate reads.
type Session interface {
	State() session.State
}

type Gate struct {
	session Session
	nav     session.Navigator
}

func New(s Session, nav session.Navigator) *Gate {
	return &Gate{session: s, nav: nav}
}

// CanEnter reports whether a protected view may be shown now. It reads the
// live session state on every call, so it is false while the session is
// still restoring and right after a logout.
func (g *Gate) CanEnter() bool {
	return g.session.State() == session.StateAuthenticated
}

// Enter runs view when CanEnter allows it. Otherwise it sends the user to
// the login view and returns ErrAccessDenied without running view.
func (g *Gate) Enter(ctx context.Context, view func() error) error {
	if !g.CanEnter() {
		if g.nav != nil {
			g.nav.Navigate(ctx, session.ViewLogin)
		}
		return ErrAccessDenied
	}
	return view()
}
