package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
	UpdateProfile(ctx context.Context, userID int64, name, bio *string) (*model.User, error)
	IncrementFollowerCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
	IncrementFollowingCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type FollowRepository interface {
	// Create inserts the edge and reports whether a row was actually
	// inserted; false means the edge already existed.
	Create(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (bool, error)
	// Delete removes the edge by match. Deleting a non-existent edge is not
	// an error; the returned count is informational only.
	Delete(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (int64, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error)
	ListFollowing(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error)
}

type FriendshipRepository interface {
	// Create inserts a pending edge. A storage-level unique constraint over
	// the normalized pair backs up the application-level conflict check.
	Create(ctx context.Context, userID, friendID int64) (*model.Friendship, error)
	GetByID(ctx context.Context, id int64) (*model.Friendship, error)
	// ActiveExistsBetween checks both orderings of the unordered pair for an
	// edge with status in {pending, accepted}.
	ActiveExistsBetween(ctx context.Context, userA, userB int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Friendship, error)
	Delete(ctx context.Context, id int64) error
	// ListAccepted returns accepted edges where userID is on either side,
	// each with the counterpart resolved, ordered by edge id ascending.
	ListAccepted(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error)
	// ListPendingIncoming returns pending edges directed at userID with the
	// requester eager-loaded, ordered by edge id ascending.
	ListPendingIncoming(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64, viewerID int64) (*model.Post, error)
	List(ctx context.Context, viewerID int64, page model.PageRequest) ([]model.Post, int64, error)
	Update(ctx context.Context, postID int64, content *string, imageURL, imageKey *string) (*model.Post, error)
	Delete(ctx context.Context, postID int64) error
	Exists(ctx context.Context, postID int64) (bool, error)
	HasLike(ctx context.Context, postID, userID int64) (bool, error)
	AddLike(ctx context.Context, tx *sqlx.Tx, postID, userID int64) error
	RemoveLike(ctx context.Context, tx *sqlx.Tx, postID, userID int64) error
	IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error
	IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, postID int64, delta int) error
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, postID, userID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	Update(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, tx *sqlx.Tx, commentID int64) (postID int64, err error)
	ListByPost(ctx context.Context, postID int64, page model.PageRequest) ([]model.Comment, int64, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	List(ctx context.Context, page model.PageRequest) ([]model.Group, int64, error)
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id int64) error
}

type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) error
	GetByID(ctx context.Context, id int64) (*model.Story, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Story, error)
	// DeleteOwned removes a story only if it belongs to userID.
	DeleteOwned(ctx context.Context, id, userID int64) error
	ListActive(ctx context.Context, now time.Time) ([]model.Story, error)
	// DeleteExpired hard-deletes stories past their expiration and returns
	// the removed ids so caches can be pruned.
	DeleteExpired(ctx context.Context, now time.Time) ([]int64, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *model.Photo) error
	GetByID(ctx context.Context, id int64) (*model.Photo, error)
	List(ctx context.Context, page model.PageRequest) ([]model.Photo, int64, error)
	UpdateDescription(ctx context.Context, id int64, description *string) (*model.Photo, error)
	Delete(ctx context.Context, id int64) error
}
