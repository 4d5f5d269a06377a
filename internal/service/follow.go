package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// FollowService manages the directed follow graph. Edge writes and counter
// updates share a transaction so counts never drift from the edge table.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	db         *sqlx.DB
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	db *sqlx.DB,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		db:         db,
	}
}

// Follow creates a follow edge from follower to followed. Duplicate follows
// are an error, even under concurrent requests.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted, err := s.followRepo.Create(ctx, tx, followerID, followedID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	if err := s.userRepo.IncrementFollowerCount(ctx, tx, followedID, 1); err != nil {
		return err
	}
	if err := s.userRepo.IncrementFollowingCount(ctx, tx, followerID, 1); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Unfollow removes the follow edge. Removing an edge that does not exist
// succeeds without touching the counters.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleted, err := s.followRepo.Delete(ctx, tx, followerID, followedID)
	if err != nil {
		return err
	}

	if deleted > 0 {
		if err := s.userRepo.IncrementFollowerCount(ctx, tx, followedID, -1); err != nil {
			return err
		}
		if err := s.userRepo.IncrementFollowingCount(ctx, tx, followerID, -1); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListFollowers returns a page of users who follow userID.
func (s *FollowService) ListFollowers(ctx context.Context, userID int64, page model.PageRequest) (*model.FollowListResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	users, total, err := s.followRepo.ListFollowers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}

	return &model.FollowListResponse{
		Users:      users,
		Pagination: model.NewPagination(total, page),
	}, nil
}

// ListFollowing returns a page of users that userID follows.
func (s *FollowService) ListFollowing(ctx context.Context, userID int64, page model.PageRequest) (*model.FollowListResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	users, total, err := s.followRepo.ListFollowing(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}

	return &model.FollowListResponse{
		Users:      users,
		Pagination: model.NewPagination(total, page),
	}, nil
}
