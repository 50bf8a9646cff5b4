package client

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

// Client is the request contract of the SocialHub backend.
type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, reg models.Registration) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	Me(ctx context.Context) (models.Profile, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListMyPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	UpdatePost(ctx context.Context, id string, patch models.Patch) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Session is what the transport needs from the session owner: the current
// bearer token, and a way to drop it when the backend rejects it.
type Session interface {
	Token() string
	InvalidateToken(ctx context.Context, token string)
}
