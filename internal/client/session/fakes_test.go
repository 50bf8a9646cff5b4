package session

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu sync.Mutex

	loginFn       func(ctx context.Context, email, password string) (string, error)
	lastLoginArgs [2]string
	loginCalls    int

	registerErr   error
	lastRegister  models.Registration
	registerCalls int

	resetErr   error
	lastReset  [2]string
	resetCalls int

	profile    models.Profile
	profileErr error
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	f.lastLoginArgs = [2]string{email, password}
	f.loginCalls++
	fn := f.loginFn
	f.mu.Unlock()
	return fn(ctx, email, password)
}

func (f *fakeClient) Register(_ context.Context, reg models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRegister = reg
	f.registerCalls++
	return f.registerErr
}

func (f *fakeClient) ResetPassword(_ context.Context, email, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReset = [2]string{email, newPassword}
	f.resetCalls++
	return f.resetErr
}

func (f *fakeClient) Me(context.Context) (models.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeClient) ListPosts(context.Context) ([]models.Post, error)   { return nil, nil }
func (f *fakeClient) ListMyPosts(context.Context) ([]models.Post, error) { return nil, nil }
func (f *fakeClient) CreatePost(_ context.Context, p models.Post) (models.Post, error) {
	return p, nil
}
func (f *fakeClient) UpdatePost(_ context.Context, id string, _ models.Patch) (models.Post, error) {
	return models.Post{ID: id}, nil
}
func (f *fakeClient) DeletePost(context.Context, string) error { return nil }
func (f *fakeClient) Ping(context.Context) error               { return nil }

type fakeStorage struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	getErr error
	setErr error
	delErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{data: map[string][]byte{}}
}

func (f *fakeStorage) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeStorage) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.data, key)
	return nil
}

func (f *fakeStorage) List(context.Context) (map[string][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]byte, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStorage) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = map[string][]byte{}
	return nil
}

func (f *fakeStorage) value(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

type fakeNavigator struct {
	mu    sync.Mutex
	views []View
}

func (f *fakeNavigator) Navigate(_ context.Context, v View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, v)
}

func (f *fakeNavigator) recorded() []View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]View(nil), f.views...)
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func userToken(t *testing.T, email string) string {
	t.Helper()
	return mintToken(t, jwt.MapClaims{"sub": email, "nome": "User " + email, "id": 7, "tipo": "USER"})
}
