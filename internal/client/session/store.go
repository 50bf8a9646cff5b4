package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/client/models"
	"github.com/dmitrijs2005/socialhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/socialhub/internal/logging"
)

// DefaultTokenKey is the storage key of the persisted token.
const DefaultTokenKey = "token"

// ErrNotAuthenticated is returned by operations that need a logged-in user.
var ErrNotAuthenticated = errors.New("not logged in")

// msgBadToken is shown when the backend hands out a token the client cannot
// decode.
const msgBadToken = "the server returned an invalid access token"

type Option func(*Store)

// WithTokenKey stores the token under key instead of DefaultTokenKey.
func WithTokenKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.tokenKey = key
		}
	}
}

type Store struct {
	client   client.Client
	storage  metadata.Repository
	nav      Navigator
	log      logging.Logger
	tokenKey string

	restoreOnce sync.Once
	restoreErr  error
	readyCh     chan struct{}

	// commitMu orders the steps that write storage and state together, so
	// the persisted token always matches the one in memory.
	commitMu sync.Mutex

	mu       sync.RWMutex
	state    State
	token    string
	identity *Identity
	role     string
	ready    bool
}

func New(c client.Client, storage metadata.Repository, nav Navigator, log logging.Logger, opts ...Option) *Store {
	if nav == nil {
		nav = nopNavigator{}
	}
	s := &Store{
		client:   c,
		storage:  storage,
		nav:      nav,
		log:      log.With("component", "session"),
		tokenKey: DefaultTokenKey,
		readyCh:  make(chan struct{}),
		state:    StateRestoring,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads the persisted token. It runs once; later calls return the
// first result. A token that does not decode to an identity is removed from
// storage. Any failure leaves the session anonymous; the returned error is
// informational. The store is ready when Restore returns.
func (s *Store) Restore(ctx context.Context) error {
	s.restoreOnce.Do(func() {
		s.restoreErr = s.restore(ctx)
	})
	return s.restoreErr
}

func (s *Store) restore(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	defer s.markReady()

	raw, err := s.storage.Get(ctx, s.tokenKey)
	if err != nil {
		s.setAnonymous()
		s.log.Warn(ctx, "could not read persisted session", "error", err)
		return fmt.Errorf("read persisted session: %w", err)
	}
	if raw == nil {
		s.setAnonymous()
		return nil
	}

	tok := strings.TrimSpace(string(raw))
	id, err := identityFromToken(tok)
	if err != nil {
		s.setAnonymous()
		s.log.Info(ctx, "discarding unusable persisted token", "error", err)
		if derr := s.storage.Delete(ctx, s.tokenKey); derr != nil {
			s.log.Error(ctx, "could not clear persisted token", "error", derr)
			return fmt.Errorf("clear persisted session: %w", derr)
		}
		return nil
	}

	s.setAuthenticated(tok, id)
	s.log.Info(ctx, "session restored", "email", id.Email)
	return nil
}

func (s *Store) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		s.ready = true
		close(s.readyCh)
	}
}

// WaitReady blocks until Restore has completed or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login authenticates with the backend. The token is decoded before
// anything is written; on any failure the current session is left as it
// was. On success the user is sent to the landing view.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if err := requireFields(field{"email", email}, field{"password", password}); err != nil {
		return err
	}

	raw, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.log.Info(ctx, "login failed", "email", email, "error", err)
		return err
	}

	id, err := identityFromToken(raw)
	if err != nil {
		s.log.Warn(ctx, "login returned an undecodable token", "email", email, "error", err)
		return &client.Error{Kind: client.ErrUnexpected, Message: msgBadToken, Err: err}
	}

	if err := s.commitLogin(ctx, raw, id); err != nil {
		s.log.Error(ctx, "could not persist session", "email", email, "error", err)
		return err
	}

	s.log.Info(ctx, "logged in", "email", id.Email, "role", id.Role)
	s.nav.Navigate(ctx, ViewLanding)
	return nil
}

func (s *Store) commitLogin(ctx context.Context, raw string, id *Identity) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := s.storage.Set(ctx, s.tokenKey, []byte(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.setAuthenticated(raw, id)
	return nil
}

// Register validates reg locally, creates the account and logs it in.
func (s *Store) Register(ctx context.Context, reg models.Registration) error {
	reg = trimRegistration(reg)
	if err := validateRegistration(reg); err != nil {
		return err
	}

	if err := s.client.Register(ctx, reg); err != nil {
		s.log.Info(ctx, "registration failed", "email", reg.Email, "error", err)
		return err
	}
	s.log.Info(ctx, "account registered", "email", reg.Email, "type", reg.AccountType)

	return s.Login(ctx, reg.Email, reg.Password)
}

// ResetPassword sets a new password for the account with email.
func (s *Store) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	newPassword = strings.TrimSpace(newPassword)
	if err := requireFields(field{"email", email}, field{"new password", newPassword}); err != nil {
		return err
	}
	if err := s.client.ResetPassword(ctx, email, newPassword); err != nil {
		s.log.Info(ctx, "password reset failed", "email", email, "error", err)
		return err
	}
	return nil
}

// Profile fetches the identity record of the current user from the backend.
func (s *Store) Profile(ctx context.Context) (models.Profile, error) {
	if s.State() != StateAuthenticated {
		return models.Profile{}, ErrNotAuthenticated
	}
	return s.client.Me(ctx)
}

// Logout clears the session from memory and storage and sends the user to
// the login view. It always succeeds; storage failures are logged.
func (s *Store) Logout(ctx context.Context) {
	s.commitMu.Lock()
	email := s.clear(ctx)
	s.commitMu.Unlock()

	s.log.Info(ctx, "logged out", "email", email)
	s.nav.Navigate(ctx, ViewLogin)
}

// InvalidateToken is called when the backend rejects tok. The session is
// cleared only if tok is still the current token, so a late rejection of a
// replaced token does not end the newer session.
func (s *Store) InvalidateToken(ctx context.Context, tok string) {
	s.commitMu.Lock()
	if tok == "" || s.Token() != tok {
		s.commitMu.Unlock()
		return
	}
	email := s.clear(ctx)
	s.commitMu.Unlock()

	s.log.Warn(ctx, "session rejected by server", "email", email)
	s.nav.Navigate(ctx, ViewLogin)
}

// clear must be called with commitMu held.
func (s *Store) clear(ctx context.Context) (email string) {
	s.mu.Lock()
	if s.identity != nil {
		email = s.identity.Email
	}
	s.state = StateAnonymous
	s.token = ""
	s.identity = nil
	s.role = ""
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.tokenKey); err != nil {
		s.log.Error(ctx, "could not clear persisted token", "error", err)
	}
	return email
}

// Teardown drops the in-memory session when the client shuts down. The
// persisted token is kept so the next Restore resumes the session.
func (s *Store) Teardown(ctx context.Context) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticated {
		s.log.Debug(ctx, "session torn down")
	}
	s.state = StateAnonymous
	s.token = ""
	s.identity = nil
	s.role = ""
}

func (s *Store) setAuthenticated(tok string, id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.token = tok
	s.identity = id
	s.role = id.Role
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.token = ""
	s.identity = nil
	s.role = ""
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:    s.state,
		Token:    s.token,
		Identity: s.identity.clone(),
		Role:     s.role,
		Ready:    s.ready,
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns a copy of the current identity, or false when anonymous.
func (s *Store) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity.clone(), true
}

func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Author returns the attribution for a new post: the display name (falling
// back to the e-mail) and the user id of the current identity.
func (s *Store) Author() (models.Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Author{}, false
	}
	name := s.identity.Name
	if name == "" {
		name = s.identity.Email
	}
	return models.Author{DisplayName: name, ID: s.identity.UserID}, true
}
