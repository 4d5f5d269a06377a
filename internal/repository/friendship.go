package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialnet/internal/model"
)

// pqUniqueViolation is the Postgres error code for unique constraint violations.
const pqUniqueViolation = "23505"

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create inserts a pending edge with user_id as the requester.
//
// The application checks for an active edge before calling this, but that
// check-then-insert sequence has a race window under concurrency. The
// friendships table carries a partial unique index over the normalized pair:
//
//	CREATE UNIQUE INDEX friendships_active_pair_idx
//	ON friendships (LEAST(user_id, friend_id), GREATEST(user_id, friend_id))
//	WHERE status IN ('pending', 'accepted');
//
// so the losing insert surfaces as a unique violation, which we map to the
// same conflict error the pre-check produces.
func (r *friendshipRepository) Create(ctx context.Context, userID, friendID int64) (*model.Friendship, error) {
	query := `
		INSERT INTO friendships (user_id, friend_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, user_id, friend_id, status, created_at, updated_at
	`

	var f model.Friendship
	err := r.db.GetContext(ctx, &f, query, userID, friendID, model.FriendshipPending)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, model.ErrFriendshipExists
		}
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	return &f, nil
}

func (r *friendshipRepository) GetByID(ctx context.Context, id int64) (*model.Friendship, error) {
	query := `
		SELECT id, user_id, friend_id, status, created_at, updated_at
		FROM friendships
		WHERE id = $1
	`

	var f model.Friendship
	err := r.db.GetContext(ctx, &f, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	return &f, nil
}

// ActiveExistsBetween checks both orderings of the unordered pair for an edge
// whose status still occupies the conflict namespace. Rejected edges are
// deliberately excluded so a declined request can be re-issued.
func (r *friendshipRepository) ActiveExistsBetween(ctx context.Context, userA, userB int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE ((user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1))
			  AND status = ANY($3)
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userA, userB,
		pq.Array([]string{model.FriendshipPending, model.FriendshipAccepted}))
	if err != nil {
		return false, fmt.Errorf("failed to check active friendship: %w", err)
	}

	return exists, nil
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.Friendship, error) {
	query := `
		UPDATE friendships
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, friend_id, status, created_at, updated_at
	`

	var f model.Friendship
	err := r.db.GetContext(ctx, &f, query, status, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to update friendship status: %w", err)
	}

	return &f, nil
}

func (r *friendshipRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrFriendshipNotFound
	}

	return nil
}

// ListAccepted returns accepted edges with userID on either side. The join
// resolves the counterpart in SQL so the caller's own record is never
// re-exposed. Ordering is by edge id ascending for deterministic pages.
func (r *friendshipRepository) ListAccepted(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM friendships
		WHERE (user_id = $1 OR friend_id = $1) AND status = $2
	`, userID, model.FriendshipAccepted)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count friends: %w", err)
	}

	query := `
		SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at, f.updated_at,
		       u.id AS counterpart_id, u.name AS counterpart_name
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
		WHERE (f.user_id = $1 OR f.friend_id = $1) AND f.status = $2
		ORDER BY f.id ASC
		LIMIT $3 OFFSET $4
	`

	type friendRow struct {
		model.Friendship
		CounterpartID   int64  `db:"counterpart_id"`
		CounterpartName string `db:"counterpart_name"`
	}

	var rows []friendRow
	err = r.db.SelectContext(ctx, &rows, query, userID, model.FriendshipAccepted, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list friends: %w", err)
	}

	friendships := make([]model.Friendship, len(rows))
	for i, row := range rows {
		f := row.Friendship
		f.Friend = &model.UserRef{ID: row.CounterpartID, Name: row.CounterpartName}
		friendships[i] = f
	}

	return friendships, total, nil
}

// ListPendingIncoming returns pending edges directed at userID, requester
// eager-loaded for display.
func (r *friendshipRepository) ListPendingIncoming(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM friendships
		WHERE friend_id = $1 AND status = $2
	`, userID, model.FriendshipPending)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count pending requests: %w", err)
	}

	query := `
		SELECT f.id, f.user_id, f.friend_id, f.status, f.created_at, f.updated_at,
		       u.id AS requester_id, u.name AS requester_name
		FROM friendships f
		JOIN users u ON u.id = f.user_id
		WHERE f.friend_id = $1 AND f.status = $2
		ORDER BY f.id ASC
		LIMIT $3 OFFSET $4
	`

	type pendingRow struct {
		model.Friendship
		RequesterID   int64  `db:"requester_id"`
		RequesterName string `db:"requester_name"`
	}

	var rows []pendingRow
	err = r.db.SelectContext(ctx, &rows, query, userID, model.FriendshipPending, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pending requests: %w", err)
	}

	friendships := make([]model.Friendship, len(rows))
	for i, row := range rows {
		f := row.Friendship
		f.Requester = &model.UserRef{ID: row.RequesterID, Name: row.RequesterName}
		friendships[i] = f
	}

	return friendships, total, nil
}
