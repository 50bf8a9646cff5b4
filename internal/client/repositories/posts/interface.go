package posts

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

// Repository stores one snapshot of the feed.
type Repository interface {
	// ReplaceAll discards the stored snapshot and stores posts in order.
	ReplaceAll(ctx context.Context, posts []models.Post) error
	// GetAll returns the stored snapshot, newest first. An empty cache
	// yields an empty slice.
	GetAll(ctx context.Context) ([]models.Post, error)
}
