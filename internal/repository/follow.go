package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the directed edge. ON CONFLICT DO NOTHING makes the
// duplicate check race-free: concurrent inserts resolve at the unique index
// and the loser sees zero rows affected.
func (r *followRepository) Create(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (bool, error) {
	query := `
		INSERT INTO follows (follower_user_id, followed_user_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_user_id, followed_user_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete removes the edge by match. Zero rows matched is not an error:
// unfollow is idempotent.
func (r *followRepository) Delete(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (int64, error) {
	query := `DELETE FROM follows WHERE follower_user_id = $1 AND followed_user_id = $2`
	result, err := tx.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_user_id = $1 AND followed_user_id = $2)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// ListFollowers returns users who follow userID, newest edge first, with the
// total for pagination metadata.
func (r *followRepository) ListFollowers(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM follows WHERE followed_user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count followers: %w", err)
	}

	query := `
		SELECT u.id, u.name, u.username
		FROM follows f
		JOIN users u ON u.id = f.follower_user_id
		WHERE f.followed_user_id = $1
		ORDER BY f.id DESC
		LIMIT $2 OFFSET $3
	`
	var users []model.UserSummary
	err = r.db.SelectContext(ctx, &users, query, userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list followers: %w", err)
	}

	return users, total, nil
}

// ListFollowing returns users that userID follows. See ListFollowers.
func (r *followRepository) ListFollowing(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM follows WHERE follower_user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count following: %w", err)
	}

	query := `
		SELECT u.id, u.name, u.username
		FROM follows f
		JOIN users u ON u.id = f.followed_user_id
		WHERE f.follower_user_id = $1
		ORDER BY f.id DESC
		LIMIT $2 OFFSET $3
	`
	var users []model.UserSummary
	err = r.db.SelectContext(ctx, &users, query, userID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list following: %w", err)
	}

	return users, total, nil
}
