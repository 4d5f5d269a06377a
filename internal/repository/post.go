package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (user_id, content, image_url, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, like_count, comment_count, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, p.UserID, p.Content, p.ImageURL, p.ImageKey).Scan(
		&p.ID,
		&p.LikeCount,
		&p.CommentCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID fetches a post with its author and the viewer's like state in a
// single round trip.
func (r *postRepository) GetByID(ctx context.Context, postID int64, viewerID int64) (*model.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.image_url, p.image_key,
		       p.like_count, p.comment_count, p.created_at, p.updated_at,
		       u.id AS author_id, u.name AS author_name,
		       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $2) AS is_liked
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	var row postRow
	err := r.db.GetContext(ctx, &row, query, postID, viewerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post := row.toPost()
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, viewerID int64, page model.PageRequest) ([]model.Post, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `
		SELECT p.id, p.user_id, p.content, p.image_url, p.image_key,
		       p.like_count, p.comment_count, p.created_at, p.updated_at,
		       u.id AS author_id, u.name AS author_name,
		       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS is_liked
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.id DESC
		LIMIT $2 OFFSET $3
	`

	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, query, viewerID, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}

	return posts, total, nil
}

// Update patches content and/or image; nil fields are left untouched.
func (r *postRepository) Update(ctx context.Context, postID int64, content *string, imageURL, imageKey *string) (*model.Post, error) {
	query := `
		UPDATE posts
		SET content = COALESCE($1, content),
		    image_url = COALESCE($2, image_url),
		    image_key = COALESCE($3, image_key),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING id, user_id, content, image_url, image_key,
		          like_count, comment_count, created_at, updated_at
	`

	var p model.Post
	err := r.db.GetContext(ctx, &p, query, content, imageURL, imageKey, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &p, nil
}

func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

func (r *postRepository) Exists(ctx context.Context, postID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID)
	if err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}

func (r *postRepository) HasLike(ctx context.Context, postID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

func (r *postRepository) AddLike(ctx context.Context, tx *sqlx.Tx, postID, userID int64) error {
	query := `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (r *postRepository) RemoveLike(ctx context.Context, tx *sqlx.Tx, postID, userID int64) error {
	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	if _, err := tx.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (r *postRepository) IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error {
	query := `UPDATE posts SET like_count = like_count + $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, delta, postID); err != nil {
		return fmt.Errorf("failed to increment like count: %w", err)
	}
	return nil
}

func (r *postRepository) IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error {
	query := `UPDATE posts SET comment_count = comment_count + $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, delta, postID); err != nil {
		return fmt.Errorf("failed to increment comment count: %w", err)
	}
	return nil
}

// postRow scans the joined author/like columns alongside post fields.
type postRow struct {
	model.Post
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
	Liked      bool   `db:"is_liked"`
}

func (row postRow) toPost() model.Post {
	p := row.Post
	p.Author = &model.UserRef{ID: row.AuthorID, Name: row.AuthorName}
	p.IsLiked = row.Liked
	return p
}
