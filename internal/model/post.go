package model

import (
	"errors"
	"time"
)

// Post represents a user's post with its metadata.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Content      string    `db:"content" json:"content"`
	ImageURL     *string   `db:"image_url" json:"image_url"`
	ImageKey     *string   `db:"image_key" json:"-"`
	LikeCount    int       `db:"like_count" json:"likes_count"`
	CommentCount int       `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not in posts table)
	Author  *UserRef `json:"user,omitempty"`
	IsLiked bool     `json:"is_liked"`
}

// PostListResponse is the paginated post listing.
type PostListResponse struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// UpdatePostRequest is the body for PUT /posts/{id}.
type UpdatePostRequest struct {
	Content *string `json:"content"`
}

// Post constraints
const (
	MaxPostContentLength = 5000
	MaxPostImageSize     = 2 * 1024 * 1024 // 2MB, matches upload validation
	PostImageFolder      = "posts_images"
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostOwner    = errors.New("not the owner of this post")
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content too long")
)
