package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/client/token"
)

// State is the authentication state of a Store.
type State int

const (
	// StateRestoring is the initial state, before Restore completes.
	StateRestoring State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// View identifies a screen the front end can show.
type View string

const (
	ViewLanding View = "/"
	ViewLogin   View = "/login"
)

// Navigator moves the front end to a view. The store calls it after a
// state change has been applied and with no lock held, so implementations
// may read the store.
type Navigator interface {
	Navigate(ctx context.Context, v View)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, View) {}

// Identity is derived from the token claims. Email is the subject claim.
type Identity struct {
	Email          string
	Name           string
	UserID         int64
	OrganizationID *int64
	Role           string
}

func (id *Identity) clone() *Identity {
	if id == nil {
		return nil
	}
	c := *id
	if id.OrganizationID != nil {
		org := *id.OrganizationID
		c.OrganizationID = &org
	}
	return &c
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	State    State
	Token    string
	Identity *Identity
	Role     string
	Ready    bool
}

// identityFromToken decodes raw and derives the identity. A token that does
// not decode or carries no subject is malformed.
func identityFromToken(raw string) (*Identity, error) {
	claims, err := token.Decode(raw)
	if err != nil {
		return nil, err
	}

	sub := claims.Subject()
	if sub == "" {
		return nil, fmt.Errorf("%w: no subject claim", token.ErrMalformed)
	}

	id := &Identity{
		Email:  sub,
		Name:   claims.DisplayName(),
		UserID: claims.UserID(),
		Role:   claims.Role(),
	}
	if org, ok := claims.OrganizationID(); ok {
		id.OrganizationID = &org
	}
	return id, nil
}
