package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, p *model.Photo) error {
	query := `
		INSERT INTO photos (user_id, image_url, image_key, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, p.UserID, p.ImageURL, p.ImageKey, p.Description).Scan(
		&p.ID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	query := `
		SELECT id, user_id, image_url, image_key, description, created_at, updated_at
		FROM photos
		WHERE id = $1
	`
	var p model.Photo
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &p, nil
}

func (r *photoRepository) List(ctx context.Context, page model.PageRequest) ([]model.Photo, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM photos`); err != nil {
		return nil, 0, fmt.Errorf("failed to count photos: %w", err)
	}

	query := `
		SELECT id, user_id, image_url, image_key, description, created_at, updated_at
		FROM photos
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	var photos []model.Photo
	err := r.db.SelectContext(ctx, &photos, query, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, total, nil
}

func (r *photoRepository) UpdateDescription(ctx context.Context, id int64, description *string) (*model.Photo, error) {
	query := `
		UPDATE photos
		SET description = COALESCE($1, description),
		    updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, image_url, image_key, description, created_at, updated_at
	`
	var p model.Photo
	err := r.db.GetContext(ctx, &p, query, description, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return &p, nil
}

func (r *photoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPhotoNotFound
	}

	return nil
}
