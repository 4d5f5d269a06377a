package model

import (
	"errors"
	"time"
)

// Photo is a standalone uploaded image with an optional description.
type Photo struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	ImageKey    string    `db:"image_key" json:"-"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UpdatePhotoRequest is the body for PUT /photos/{id}.
type UpdatePhotoRequest struct {
	Description *string `json:"description"`
}

const (
	MaxPhotoSize = 5 * 1024 * 1024 // 5MB
	PhotoFolder  = "photos"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrNotPhotoOwner = errors.New("not the owner of this photo")
)
