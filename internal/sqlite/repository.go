// Package sqlite persists drafts and scheduled posts in an embedded
// database, implementing the domain repository ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dinoai/omnicast/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	media_ref  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS scheduled_posts (
	id         TEXT PRIMARY KEY,
	platforms  TEXT NOT NULL,
	text       TEXT NOT NULL,
	media_ref  TEXT NOT NULL DEFAULT '',
	launch_at  TIMESTAMP NOT NULL,
	status     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scheduled_due ON scheduled_posts (status, launch_at);
`

// Repository implements domain.DraftRepository and domain.ScheduleRepository
// using SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (or creates) the database at path, applies the schema,
// and returns a new Repository. Use ":memory:" for an ephemeral store. The
// caller should call Close when the repository is no longer needed.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// CreateDraft inserts a new draft.
func (r *Repository) CreateDraft(ctx context.Context, d *domain.Draft) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, text, media_ref, created_at)
		VALUES (?, ?, ?, ?)`,
		d.ID, d.Text, d.MediaRef, d.CreatedAt.UTC(),
	)
	return err
}

// ListDrafts retrieves drafts, newest first.
func (r *Repository) ListDrafts(ctx context.Context) ([]domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, media_ref, created_at
		FROM drafts
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		var d domain.Draft
		if err := rows.Scan(&d.ID, &d.Text, &d.MediaRef, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return drafts, nil
}

// DeleteDraft removes a draft by id.
func (r *Repository) DeleteDraft(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	return err
}

// CreateScheduledPost inserts a new pending post.
func (r *Repository) CreateScheduledPost(ctx context.Context, p *domain.ScheduledPost) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_posts (id, platforms, text, media_ref, launch_at, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		joinPlatforms(p.Platforms),
		p.Text,
		p.MediaRef,
		p.LaunchAt.UTC(),
		p.Status,
		p.Error,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	return err
}

// DueScheduledPosts retrieves pending posts whose launch window is at or
// before now.
func (r *Repository) DueScheduledPosts(ctx context.Context, now time.Time) ([]domain.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, platforms, text, media_ref, launch_at, status, error, created_at, updated_at
		FROM scheduled_posts
		WHERE status = ? AND launch_at <= ?
		ORDER BY launch_at ASC`,
		domain.ScheduledPending, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query due posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.ScheduledPost
	for rows.Next() {
		var p domain.ScheduledPost
		var platforms string
		err := rows.Scan(&p.ID, &platforms, &p.Text, &p.MediaRef, &p.LaunchAt, &p.Status, &p.Error, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled post: %w", err)
		}
		p.Platforms = splitPlatforms(platforms)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled posts: %w", err)
	}
	return posts, nil
}

// ResolveScheduledPost records a dispatched post's terminal status.
func (r *Repository) ResolveScheduledPost(ctx context.Context, id string, status domain.ScheduledPostStatus, errMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_posts SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, errMsg, time.Now().UTC(), id,
	)
	return err
}

func joinPlatforms(ids []domain.PlatformID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}

func splitPlatforms(s string) []domain.PlatformID {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]domain.PlatformID, len(parts))
	for i, p := range parts {
		ids[i] = domain.PlatformID(p)
	}
	return ids
}
