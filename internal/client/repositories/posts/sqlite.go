package posts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
	"github.com/dmitrijs2005/socialhub/internal/dbx"
)

// DB is what the repository needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// SQLiteRepository implements Repository on the posts table.
type SQLiteRepository struct {
	db DB
}

func NewSQLiteRepository(db DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, posts []models.Post) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
			return fmt.Errorf("failed to clear posts: %w", err)
		}

		const insert = `INSERT INTO posts (id, position, title, body, author_display_name,
				author_id, organization_name, created_at, edited_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`
		for i, p := range posts {
			_, err := tx.ExecContext(ctx, insert,
				p.ID, i, p.Title, p.Body, p.AuthorDisplayName,
				p.AuthorID, p.OrganizationName, formatTime(p.CreatedAt), nullTime(p.EditedAt))
			if err != nil {
				return fmt.Errorf("failed to insert post %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace cached posts: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, body, author_display_name, author_id,
			organization_name, created_at, edited_at
		FROM posts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	result := []models.Post{}
	for rows.Next() {
		var (
			p       models.Post
			created string
			edited  sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorDisplayName, &p.AuthorID,
			&p.OrganizationName, &created, &edited); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("post %s: %w", p.ID, err)
		}
		if edited.Valid {
			if p.EditedAt, err = parseTime(edited.String); err != nil {
				return nil, fmt.Errorf("post %s: %w", p.ID, err)
			}
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
