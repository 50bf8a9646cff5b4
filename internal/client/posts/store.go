package posts

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

// AuthorSource supplies the attribution copied into new posts.
// session.Store implements it.
type AuthorSource interface {
	Author() (models.Author, bool)
}

// Store is the post API the front end works against.
type Store interface {
	// List returns the current posts, newest first.
	List(ctx context.Context) ([]models.Post, error)
	// ListMine returns the posts of the current user.
	ListMine(ctx context.Context) ([]models.Post, error)
	FindByID(id string) (models.Post, bool)
	Create(ctx context.Context, d models.Draft) (models.Post, error)
	// Edit and Delete do nothing when id is unknown.
	Edit(ctx context.Context, id string, patch models.Patch) error
	Delete(ctx context.Context, id string) error
	// Refresh reloads the list from its source, if it has one.
	Refresh(ctx context.Context) error
	// Subscribe calls fn with the current list and after every change.
	// fn may itself change the store.
	Subscribe(fn func([]models.Post)) (cancel func())
}

// Local is the purely in-memory Store.
type Local struct {
	posts  *Collection
	author AuthorSource
}

// NewLocal builds a Local store. author may be nil, in which case posts are
// created without attribution.
func NewLocal(author AuthorSource, opts ...Option) *Local {
	return &Local{posts: NewCollection(opts...), author: author}
}

func (l *Local) List(context.Context) ([]models.Post, error) {
	return l.posts.List(), nil
}

func (l *Local) ListMine(context.Context) ([]models.Post, error) {
	a, ok := currentAuthor(l.author)
	if !ok {
		return nil, nil
	}
	var mine []models.Post
	for _, p := range l.posts.List() {
		if p.AuthorID == a.ID {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

func (l *Local) FindByID(id string) (models.Post, bool) {
	return l.posts.FindByID(id)
}

func (l *Local) Create(_ context.Context, d models.Draft) (models.Post, error) {
	a, _ := currentAuthor(l.author)
	return l.posts.Create(d, a), nil
}

func (l *Local) Edit(_ context.Context, id string, patch models.Patch) error {
	l.posts.Edit(id, patch)
	return nil
}

func (l *Local) Delete(_ context.Context, id string) error {
	l.posts.Delete(id)
	return nil
}

func (l *Local) Refresh(context.Context) error { return nil }

func (l *Local) Subscribe(fn func([]models.Post)) func() {
	return l.posts.Subscribe(fn)
}

func currentAuthor(src AuthorSource) (models.Author, bool) {
	if src == nil {
		return models.Author{}, false
	}
	return src.Author()
}
