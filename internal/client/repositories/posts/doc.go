// Package posts provides the client-side cache of the feed.
//
// The network-backed post store snapshots the feed here after every
// successful refresh and reads it back when the backend cannot be reached,
// so the last known feed stays browsable offline.
//
// # Data Model
//
// Rows mirror models.Post. The position column keeps the newest-first order
// of the snapshot; timestamps are stored as RFC 3339 text and edited_at is
// NULL for posts that were never edited.
//
// # Concurrency
//
// ReplaceAll swaps the whole snapshot in one transaction, so a reader sees
// either the previous feed or the new one.
//
// Typical Usage
//
//	repo := posts.NewSQLiteRepository(db)
//	_ = repo.ReplaceAll(ctx, feed)
//	cached, _ := repo.GetAll(ctx)
package posts
