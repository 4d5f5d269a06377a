package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"socialnet/internal/model"
)

// The transactional paths of Follow/Unfollow need a live database; what runs
// here is the validation in front of them plus the listing endpoints.

type mockFollowRepository struct {
	createFn        func(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (bool, error)
	deleteFn        func(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (int64, error)
	existsFn        func(ctx context.Context, followerID, followedID int64) (bool, error)
	listFollowersFn func(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error)
	listFollowingFn func(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error)
}

func (m *mockFollowRepository) Create(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, tx, followerID, followedID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, tx *sqlx.Tx, followerID, followedID int64) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, followerID, followedID)
	}
	return 0, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followedID)
	}
	return false, nil
}

func (m *mockFollowRepository) ListFollowers(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error) {
	if m.listFollowersFn != nil {
		return m.listFollowersFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func (m *mockFollowRepository) ListFollowing(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error) {
	if m.listFollowingFn != nil {
		return m.listFollowingFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func TestFollowService_Follow_Self(t *testing.T) {
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{}, nil)

	err := svc.Follow(context.Background(), 1, 1)
	if !errors.Is(err, model.ErrCannotFollowSelf) {
		t.Errorf("error = %v, want %v", err, model.ErrCannotFollowSelf)
	}
}

func TestFollowService_Follow_TargetMissing(t *testing.T) {
	// GetByID defaults to ErrUserNotFound
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{}, nil)

	err := svc.Follow(context.Background(), 1, 999)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestFollowService_Unfollow_TargetMissing(t *testing.T) {
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{}, nil)

	err := svc.Unfollow(context.Background(), 1, 999)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestFollowService_ListFollowers(t *testing.T) {
	mockRepo := &mockFollowRepository{
		listFollowersFn: func(ctx context.Context, userID int64, page model.PageRequest) ([]model.UserSummary, int64, error) {
			return []model.UserSummary{
				{ID: 2, Name: "Two", Username: "two"},
				{ID: 3, Name: "Three", Username: "three"},
			}, 12, nil
		},
	}
	mockUsers := &mockUserRepository{getByIDFn: existingUser(1)}
	svc := NewFollowService(mockRepo, mockUsers, nil)

	resp, err := svc.ListFollowers(context.Background(), 1, model.PageRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Users) != 2 {
		t.Errorf("users = %d, want 2", len(resp.Users))
	}
	if resp.Pagination.TotalItems != 12 {
		t.Errorf("total_items = %d, want 12", resp.Pagination.TotalItems)
	}
	if resp.Pagination.TotalPages != 2 {
		t.Errorf("total_pages = %d, want 2", resp.Pagination.TotalPages)
	}
	if !resp.Pagination.HasMorePages {
		t.Error("expected has_more_pages on page 1 of 2")
	}
}

func TestFollowService_ListFollowing_Empty(t *testing.T) {
	mockUsers := &mockUserRepository{getByIDFn: existingUser(1)}
	svc := NewFollowService(&mockFollowRepository{}, mockUsers, nil)

	resp, err := svc.ListFollowing(context.Background(), 1, model.PageRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Users == nil {
		t.Error("users should be an empty slice, not nil")
	}
	if resp.Pagination.HasMorePages {
		t.Error("empty listing should not report more pages")
	}
}

func TestFollowService_ListFollowers_UserMissing(t *testing.T) {
	svc := NewFollowService(&mockFollowRepository{}, &mockUserRepository{}, nil)

	_, err := svc.ListFollowers(context.Background(), 404, model.PageRequest{Page: 1, PerPage: 10})
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}
