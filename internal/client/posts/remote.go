package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/socialhub/internal/client/client"
	"github.com/dmitrijs2005/socialhub/internal/client/models"
	postcache "github.com/dmitrijs2005/socialhub/internal/client/repositories/posts"
	"github.com/dmitrijs2005/socialhub/internal/logging"
)

var (
	// ErrNoAuthor is returned by Remote.Create when nobody is logged in.
	ErrNoAuthor = errors.New("login required to publish")
	// ErrOffline wraps a refresh failure that was answered from the cache.
	ErrOffline = errors.New("server unreachable, showing cached posts")
)

// API is the part of client.Client the remote store uses.
type API interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListMyPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	UpdatePost(ctx context.Context, id string, patch models.Patch) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// Remote is the network-backed Store.
type Remote struct {
	posts  *Collection
	api    API
	cache  postcache.Repository
	author AuthorSource
	log    logging.Logger
}

// NewRemote builds a Remote store. cache may be nil to disable the offline
// snapshot.
func NewRemote(api API, cache postcache.Repository, author AuthorSource, log logging.Logger, opts ...Option) *Remote {
	return &Remote{
		posts:  NewCollection(opts...),
		api:    api,
		cache:  cache,
		author: author,
		log:    log.With("component", "posts"),
	}
}

// List returns the local view of the feed; call Refresh to reload it.
func (r *Remote) List(context.Context) ([]models.Post, error) {
	return r.posts.List(), nil
}

func (r *Remote) ListMine(ctx context.Context) ([]models.Post, error) {
	return r.api.ListMyPosts(ctx)
}

func (r *Remote) FindByID(id string) (models.Post, bool) {
	return r.posts.FindByID(id)
}

// Refresh replaces the list with the backend feed and snapshots it. When the
// backend cannot be reached the last snapshot is shown instead and the
// returned error wraps ErrOffline.
func (r *Remote) Refresh(ctx context.Context) error {
	feed, err := r.api.ListPosts(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) && r.cache != nil {
			cached, cerr := r.cache.GetAll(ctx)
			if cerr != nil {
				r.log.Error(ctx, "could not read cached feed", "error", cerr)
				return err
			}
			r.posts.Replace(cached)
			r.log.Warn(ctx, "serving cached feed", "posts", len(cached), "error", err)
			return fmt.Errorf("%w: %w", ErrOffline, err)
		}
		return err
	}

	r.posts.Replace(feed)
	if r.cache != nil {
		if err := r.cache.ReplaceAll(ctx, feed); err != nil {
			r.log.Error(ctx, "could not cache feed", "error", err)
		}
	}
	return nil
}

// Create shows the post at once under a temporary id and replaces it with
// the backend's copy when the request succeeds. On failure the temporary
// post is removed.
func (r *Remote) Create(ctx context.Context, d models.Draft) (models.Post, error) {
	a, ok := currentAuthor(r.author)
	if !ok {
		return models.Post{}, ErrNoAuthor
	}

	pending := r.posts.Create(d, a)

	saved, err := r.api.CreatePost(ctx, pending)
	if err != nil {
		r.posts.Delete(pending.ID)
		r.log.Info(ctx, "create rolled back", "id", pending.ID, "error", err)
		return models.Post{}, err
	}

	saved = confirmed(pending, saved)
	if !r.posts.compareAndSwap(pending.ID, pending, saved) {
		r.log.Debug(ctx, "created post changed locally before confirmation", "id", pending.ID)
	}
	return saved, nil
}

// Edit applies patch locally, then on the backend. If the backend refuses,
// the previous version is restored unless the post has changed or gone
// since.
func (r *Remote) Edit(ctx context.Context, id string, patch models.Patch) error {
	before, after, ok := r.posts.edit(id, patch)
	if !ok {
		return nil
	}

	saved, err := r.api.UpdatePost(ctx, id, patch)
	if err != nil {
		restored := r.posts.compareAndSwap(id, after, before)
		r.log.Info(ctx, "edit rejected", "id", id, "restored", restored, "error", err)
		return err
	}

	merged := confirmed(after, saved)
	merged.ID = id
	if merged.EditedAt.IsZero() {
		merged.EditedAt = after.EditedAt
	}
	if !merged.Equal(after) {
		r.posts.compareAndSwap(id, after, merged)
	}
	return nil
}

// confirmed overlays the fields the backend sent back on the local copy.
// Fields missing from the reply keep their local values.
func confirmed(local, server models.Post) models.Post {
	out := local
	if server.ID != "" {
		out.ID = server.ID
	}
	if server.Title != "" {
		out.Title = server.Title
	}
	if server.Body != "" {
		out.Body = server.Body
	}
	if server.AuthorDisplayName != "" {
		out.AuthorDisplayName = server.AuthorDisplayName
	}
	if server.AuthorID != 0 {
		out.AuthorID = server.AuthorID
	}
	if server.OrganizationName != "" {
		out.OrganizationName = server.OrganizationName
	}
	if !server.CreatedAt.IsZero() {
		out.CreatedAt = server.CreatedAt
	}
	if !server.EditedAt.IsZero() {
		out.EditedAt = server.EditedAt
	}
	return out
}

// Delete removes the post locally, then on the backend. If the backend
// refuses, the post is put back in its old position. A post the backend no
// longer has counts as deleted.
func (r *Remote) Delete(ctx context.Context, id string) error {
	removed, index, ok := r.posts.remove(id)
	if !ok {
		return nil
	}

	err := r.api.DeletePost(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrNotFound):
		r.log.Debug(ctx, "post already gone on server", "id", id)
		return nil
	}

	r.posts.Insert(index, removed)
	r.log.Info(ctx, "delete rolled back", "id", id, "error", err)
	return err
}

func (r *Remote) Subscribe(fn func([]models.Post)) func() {
	return r.posts.Subscribe(fn)
}
