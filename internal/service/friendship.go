package service

import (
	"context"

	"socialnet/internal/model"
	"socialnet/internal/repository"
)

// FriendshipService manages the friendship state machine. An edge starts
// pending and moves exactly once to accepted or rejected; only the recipient
// may decide it, and only participants may remove it.
type FriendshipService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

func NewFriendshipService(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
) *FriendshipService {
	return &FriendshipService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

// Request sends a friend request from callerID to friendID. The pair is
// treated as unordered: if either side already has a pending or accepted
// edge with the other, the request conflicts. A rejected edge does not
// block a new request.
func (s *FriendshipService) Request(ctx context.Context, callerID, friendID int64) (*model.Friendship, error) {
	if callerID == friendID {
		return nil, model.ErrCannotBefriendSelf
	}

	if _, err := s.userRepo.GetByID(ctx, friendID); err != nil {
		return nil, err
	}

	active, err := s.friendshipRepo.ActiveExistsBetween(ctx, callerID, friendID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, model.ErrFriendshipExists
	}

	// The unique index on the normalized pair closes the race between the
	// check above and this insert.
	return s.friendshipRepo.Create(ctx, callerID, friendID)
}

// Respond accepts or rejects a pending request. Only the recipient may
// respond, and only while the edge is still pending.
func (s *FriendshipService) Respond(ctx context.Context, callerID, friendshipID int64, status string) (*model.Friendship, error) {
	if !model.ValidTargetStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	f, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}

	if f.FriendID != callerID {
		return nil, model.ErrNotRecipient
	}

	if f.Status != model.FriendshipPending {
		return nil, model.ErrAlreadyDecided
	}

	return s.friendshipRepo.UpdateStatus(ctx, friendshipID, status)
}

// Delete removes an edge in any status. Only a participant may delete it.
func (s *FriendshipService) Delete(ctx context.Context, callerID, friendshipID int64) error {
	f, err := s.friendshipRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if !f.IsParticipant(callerID) {
		return model.ErrNotParticipant
	}

	return s.friendshipRepo.Delete(ctx, f.ID)
}

// ListFriends returns the caller's accepted friendships. Each entry carries
// only the counterpart's projection, never the caller's own record.
func (s *FriendshipService) ListFriends(ctx context.Context, callerID int64, page model.PageRequest) (*model.FriendListResponse, error) {
	friends, total, err := s.friendshipRepo.ListAccepted(ctx, callerID, page)
	if err != nil {
		return nil, err
	}
	if friends == nil {
		friends = []model.Friendship{}
	}

	return &model.FriendListResponse{
		Friends:    friends,
		Pagination: model.NewPagination(total, page),
	}, nil
}

// ListPending returns incoming pending requests addressed to the caller.
func (s *FriendshipService) ListPending(ctx context.Context, callerID int64, page model.PageRequest) (*model.PendingListResponse, error) {
	pending, total, err := s.friendshipRepo.ListPendingIncoming(ctx, callerID, page)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		pending = []model.Friendship{}
	}

	return &model.PendingListResponse{
		PendingRequests: pending,
		Pagination:      model.NewPagination(total, page),
	}, nil
}
