package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, g *model.Group) error {
	query := `
		INSERT INTO groups (name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, g.Name, g.Description, g.OwnerID).Scan(
		&g.ID,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	var g model.Group
	err := r.db.GetContext(ctx, &g, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

func (r *groupRepository) List(ctx context.Context, page model.PageRequest) ([]model.Group, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM groups`); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM groups
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	var groups []model.Group
	err := r.db.SelectContext(ctx, &groups, query, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, total, nil
}

func (r *groupRepository) Update(ctx context.Context, g *model.Group) error {
	query := `
		UPDATE groups
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, g.Name, g.Description, g.ID).Scan(&g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrGroupNotFound
		}
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrGroupNotFound
	}

	return nil
}
