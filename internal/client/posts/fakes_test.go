package posts

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

type authorFunc func() (models.Author, bool)

func (f authorFunc) Author() (models.Author, bool) { return f() }

func loggedInAs(a models.Author) AuthorSource {
	return authorFunc(func() (models.Author, bool) { return a, true })
}

// fakeAPI accepts every request unless an error is set. Hooks run before
// the response is returned, to simulate other callers acting meanwhile.
type fakeAPI struct {
	mu     sync.Mutex
	nextID int

	feed    []models.Post
	mine    []models.Post
	listErr error

	createErr error
	updateErr error
	deleteErr error

	updateHook func()
	deleteHook func()

	// createReply and updateReply shape what the server echoes back.
	createReply func(sent models.Post) models.Post
	updateReply func(id string, patch models.Patch) models.Post

	created []models.Post
	updated []string
	deleted []string
}

func (f *fakeAPI) ListPosts(context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Post(nil), f.feed...), f.listErr
}

func (f *fakeAPI) ListMyPosts(context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Post(nil), f.mine...), nil
}

func (f *fakeAPI) CreatePost(_ context.Context, p models.Post) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Post{}, f.createErr
	}
	f.nextID++
	p.ID = "srv-" + strconv.Itoa(f.nextID)
	f.created = append(f.created, p)
	if f.createReply != nil {
		return f.createReply(p), nil
	}
	return p, nil
}

func (f *fakeAPI) UpdatePost(_ context.Context, id string, patch models.Patch) (models.Post, error) {
	if f.updateHook != nil {
		f.updateHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	if f.updateErr != nil {
		return models.Post{}, f.updateErr
	}
	if f.updateReply != nil {
		return f.updateReply(id, patch), nil
	}
	return models.Post{ID: id}, nil
}

func (f *fakeAPI) DeletePost(_ context.Context, id string) error {
	if f.deleteHook != nil {
		f.deleteHook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type memCache struct {
	mu     sync.Mutex
	posts  []models.Post
	setErr error
	getErr error
}

func (m *memCache) ReplaceAll(_ context.Context, p []models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.posts = append([]models.Post(nil), p...)
	return nil
}

func (m *memCache) GetAll(context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Post{}, m.posts...), m.getErr
}
