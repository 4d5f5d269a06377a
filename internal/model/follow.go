package model

import (
	"errors"
	"time"
)

// Follow is a directed edge: follower follows followed. At most one edge exists
// per (follower_id, followed_id) pair; direction matters, so A->B and B->A are
// independent edges.
type Follow struct {
	ID         int64     `db:"id" json:"id"`
	FollowerID int64     `db:"follower_user_id" json:"follower_user_id"`
	FollowedID int64     `db:"followed_user_id" json:"followed_user_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FollowRequest is the body for POST /follow and DELETE /unfollow.
type FollowRequest struct {
	FollowedUserID int64 `json:"followed_user_id"`
}

// FollowListResponse is the paginated follower/following listing.
type FollowListResponse struct {
	Users      []UserSummary `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

var (
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)
