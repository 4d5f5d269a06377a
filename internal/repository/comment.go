package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment. Runs in a transaction so the post's comment
// counter stays consistent.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, postID, userID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, post_id, user_id, content, created_at, updated_at
	`
	var comment model.Comment
	err := tx.GetContext(ctx, &comment, query, postID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, post_id, user_id, content, created_at, updated_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, content, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment and returns its post id so the caller can
// decrement the post counter in the same transaction.
func (r *commentRepository) Delete(ctx context.Context, tx *sqlx.Tx, commentID int64) (int64, error) {
	var postID int64
	err := tx.GetContext(ctx, &postID,
		`DELETE FROM comments WHERE id = $1 RETURNING post_id`, commentID)
	if err == sql.ErrNoRows {
		return 0, model.ErrCommentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	return postID, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64, page model.PageRequest) ([]model.Comment, int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, c.updated_at,
		       u.id AS author_id, u.name AS author_name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.id ASC
		LIMIT $2 OFFSET $3
	`

	type commentRow struct {
		model.Comment
		AuthorID   int64  `db:"author_id"`
		AuthorName string `db:"author_name"`
	}

	var rows []commentRow
	err = r.db.SelectContext(ctx, &rows, query, postID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		c := row.Comment
		c.Author = &model.UserRef{ID: row.AuthorID, Name: row.AuthorName}
		comments[i] = c
	}

	return comments, total, nil
}
