package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialnet/internal/model"
)

type storyRepository struct {
	db *sqlx.DB
}

func NewStoryRepository(db *sqlx.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, s *model.Story) error {
	query := `
		INSERT INTO stories (user_id, media_url, media_key, expiration_time, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, s.UserID, s.MediaURL, s.MediaKey, s.ExpirationTime).Scan(
		&s.ID,
		&s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert story: %w", err)
	}
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id int64) (*model.Story, error) {
	query := `
		SELECT id, user_id, media_url, media_key, expiration_time, created_at
		FROM stories
		WHERE id = $1
	`
	var s model.Story
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &s, nil
}

// GetByIDs resolves a batch of story ids, preserving nothing about order.
// Missing ids are silently skipped; the cache may reference stories already
// deleted from the database.
func (r *storyRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Story, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, media_url, media_key, expiration_time, created_at
		FROM stories
		WHERE id = ANY($1)
		ORDER BY id DESC
	`
	var stories []model.Story
	err := r.db.SelectContext(ctx, &stories, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get stories by ids: %w", err)
	}
	return stories, nil
}

func (r *storyRepository) DeleteOwned(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM stories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrStoryNotFound
	}

	return nil
}

func (r *storyRepository) ListActive(ctx context.Context, now time.Time) ([]model.Story, error) {
	query := `
		SELECT id, user_id, media_url, media_key, expiration_time, created_at
		FROM stories
		WHERE expiration_time > $1
		ORDER BY id DESC
	`
	var stories []model.Story
	err := r.db.SelectContext(ctx, &stories, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list active stories: %w", err)
	}
	return stories, nil
}

func (r *storyRepository) DeleteExpired(ctx context.Context, now time.Time) ([]int64, error) {
	query := `DELETE FROM stories WHERE expiration_time <= $1 RETURNING id`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired stories: %w", err)
	}
	return ids, nil
}
