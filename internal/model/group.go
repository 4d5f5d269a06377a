package model

import (
	"errors"
	"time"
)

// Group is a user-owned community container.
type Group struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GroupRequest is the body for creating or updating a group.
type GroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

const MaxGroupNameLength = 255

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotGroupOwner  = errors.New("not the owner of this group")
	ErrGroupNameEmpty = errors.New("group name is required")
)
