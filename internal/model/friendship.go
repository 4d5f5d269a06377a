package model

import (
	"errors"
	"time"
)

// Friendship statuses. Pending is the only initial status; accepted and
// rejected are terminal.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Friendship is a bidirectional relationship stored directionally:
// user_id is the requester, friend_id is the recipient. Conflict detection
// treats the pair as unordered: at most one edge with status pending or
// accepted may exist between {A,B} regardless of who initiated it.
type Friendship struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	FriendID  int64     `db:"friend_id" json:"friend_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Friend is the counterpart of the viewing user, resolved at query time.
	// For the requester it is the recipient and vice versa.
	Friend *UserRef `json:"friend,omitempty"`

	// Requester is eager-loaded on pending-incoming listings.
	Requester *UserRef `json:"requester,omitempty"`
}

// IsParticipant reports whether userID is on either side of the edge.
func (f *Friendship) IsParticipant(userID int64) bool {
	return f.UserID == userID || f.FriendID == userID
}

// Counterpart returns the id of the other party relative to userID.
func (f *Friendship) Counterpart(userID int64) int64 {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// ValidTargetStatus reports whether status is a settable transition target.
// Pending is the creation status only; it can never be set via update.
func ValidTargetStatus(status string) bool {
	return status == FriendshipAccepted || status == FriendshipRejected
}

// FriendRequestBody is the body for POST /friends.
type FriendRequestBody struct {
	FriendID int64 `json:"friend_id"`
}

// UpdateFriendshipBody is the body for PUT /friends/{id}.
type UpdateFriendshipBody struct {
	Status string `json:"status"`
}

// FriendListResponse is the paginated accepted-friends listing.
type FriendListResponse struct {
	Friends    []Friendship `json:"friends"`
	Pagination Pagination   `json:"pagination"`
}

// PendingListResponse is the paginated incoming-requests listing.
type PendingListResponse struct {
	PendingRequests []Friendship `json:"pendingRequests"`
	Pagination      Pagination   `json:"pagination"`
}

var (
	// ErrFriendshipExists is returned when an active (pending or accepted)
	// edge already exists between the unordered pair.
	ErrFriendshipExists = errors.New("a friendship request already exists or is pending between these users")

	// ErrFriendshipNotFound is returned when the referenced edge is absent.
	ErrFriendshipNotFound = errors.New("friendship not found")

	// ErrInvalidStatus is returned for transition targets outside {accepted, rejected}.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNotRecipient is returned when someone other than the request's
	// recipient attempts to accept or reject it.
	ErrNotRecipient = errors.New("only the recipient may respond to a friend request")

	// ErrNotParticipant is returned when a caller outside the edge attempts to delete it.
	ErrNotParticipant = errors.New("not a participant of this friendship")

	// ErrAlreadyDecided is returned when updating an edge that left the pending state.
	ErrAlreadyDecided = errors.New("friendship request has already been decided")

	// ErrCannotBefriendSelf is returned for a self-directed request.
	ErrCannotBefriendSelf = errors.New("cannot send a friend request to yourself")
)
