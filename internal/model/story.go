package model

import (
	"errors"
	"time"
)

// Story is an ephemeral media post that disappears after its expiration time.
type Story struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	MediaURL       string    `db:"media_url" json:"media_url"`
	MediaKey       string    `db:"media_key" json:"-"`
	ExpirationTime time.Time `db:"expiration_time" json:"expiration_time"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsExpired reports whether the story has passed its expiration time.
func (s *Story) IsExpired(now time.Time) bool {
	return !s.ExpirationTime.After(now)
}

// Story media constraints
const (
	MaxStoryMediaSize = 10 * 1024 * 1024 // 10MB
	StoryMediaFolder  = "stories"
)

var (
	ErrStoryNotFound = errors.New("story not found or access denied")
)
