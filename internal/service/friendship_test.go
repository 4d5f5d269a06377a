package service

import (
	"context"
	"errors"
	"testing"

	"socialnet/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockFriendshipRepository struct {
	createFn              func(ctx context.Context, userID, friendID int64) (*model.Friendship, error)
	getByIDFn             func(ctx context.Context, id int64) (*model.Friendship, error)
	activeExistsBetweenFn func(ctx context.Context, userA, userB int64) (bool, error)
	updateStatusFn        func(ctx context.Context, id int64, status string) (*model.Friendship, error)
	deleteFn              func(ctx context.Context, id int64) error
	listAcceptedFn        func(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error)
	listPendingIncomingFn func(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error)

	createCalls []int64
	deleteCalls []int64
}

func (m *mockFriendshipRepository) Create(ctx context.Context, userID, friendID int64) (*model.Friendship, error) {
	m.createCalls = append(m.createCalls, friendID)
	if m.createFn != nil {
		return m.createFn(ctx, userID, friendID)
	}
	return &model.Friendship{ID: 1, UserID: userID, FriendID: friendID, Status: model.FriendshipPending}, nil
}

func (m *mockFriendshipRepository) GetByID(ctx context.Context, id int64) (*model.Friendship, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrFriendshipNotFound
}

func (m *mockFriendshipRepository) ActiveExistsBetween(ctx context.Context, userA, userB int64) (bool, error) {
	if m.activeExistsBetweenFn != nil {
		return m.activeExistsBetweenFn(ctx, userA, userB)
	}
	return false, nil
}

func (m *mockFriendshipRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.Friendship, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &model.Friendship{ID: id, Status: status}, nil
}

func (m *mockFriendshipRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockFriendshipRepository) ListAccepted(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error) {
	if m.listAcceptedFn != nil {
		return m.listAcceptedFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func (m *mockFriendshipRepository) ListPendingIncoming(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error) {
	if m.listPendingIncomingFn != nil {
		return m.listPendingIncomingFn(ctx, userID, page)
	}
	return nil, 0, nil
}

func existingUser(id int64) func(ctx context.Context, id int64) (*model.User, error) {
	return func(ctx context.Context, gotID int64) (*model.User, error) {
		return &model.User{ID: gotID, Username: "someone"}, nil
	}
}

// =============================================================================
// REQUEST TESTS
// =============================================================================

func TestFriendshipService_Request_Success(t *testing.T) {
	mockRepo := &mockFriendshipRepository{}
	mockUsers := &mockUserRepository{getByIDFn: existingUser(2)}
	svc := NewFriendshipService(mockRepo, mockUsers)

	f, err := svc.Request(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Status != model.FriendshipPending {
		t.Errorf("status = %q, want %q", f.Status, model.FriendshipPending)
	}
	if f.UserID != 1 || f.FriendID != 2 {
		t.Errorf("edge = (%d,%d), want (1,2)", f.UserID, f.FriendID)
	}
}

func TestFriendshipService_Request_Self(t *testing.T) {
	mockRepo := &mockFriendshipRepository{}
	mockUsers := &mockUserRepository{getByIDFn: existingUser(1)}
	svc := NewFriendshipService(mockRepo, mockUsers)

	_, err := svc.Request(context.Background(), 1, 1)
	if !errors.Is(err, model.ErrCannotBefriendSelf) {
		t.Errorf("error = %v, want %v", err, model.ErrCannotBefriendSelf)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called for a self request")
	}
}

func TestFriendshipService_Request_TargetMissing(t *testing.T) {
	mockRepo := &mockFriendshipRepository{}
	mockUsers := &mockUserRepository{} // GetByID defaults to ErrUserNotFound
	svc := NewFriendshipService(mockRepo, mockUsers)

	_, err := svc.Request(context.Background(), 1, 999)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

// The pair is unordered: an active edge blocks a new request regardless of
// which side initiated the original one.
func TestFriendshipService_Request_ConflictBothDirections(t *testing.T) {
	tests := []struct {
		name     string
		callerID int64
		friendID int64
	}{
		{name: "same direction as existing edge", callerID: 1, friendID: 2},
		{name: "reverse direction", callerID: 2, friendID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockFriendshipRepository{
				activeExistsBetweenFn: func(ctx context.Context, userA, userB int64) (bool, error) {
					// An edge between {1,2} is active, however queried
					return (userA == 1 && userB == 2) || (userA == 2 && userB == 1), nil
				},
			}
			mockUsers := &mockUserRepository{getByIDFn: existingUser(tt.friendID)}
			svc := NewFriendshipService(mockRepo, mockUsers)

			_, err := svc.Request(context.Background(), tt.callerID, tt.friendID)
			if !errors.Is(err, model.ErrFriendshipExists) {
				t.Errorf("error = %v, want %v", err, model.ErrFriendshipExists)
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("Create should not be called when an active edge exists")
			}
		})
	}
}

// A rejected edge is inert: it does not block a fresh request between the pair.
func TestFriendshipService_Request_AfterRejection(t *testing.T) {
	mockRepo := &mockFriendshipRepository{
		activeExistsBetweenFn: func(ctx context.Context, userA, userB int64) (bool, error) {
			// Only pending/accepted edges count; the old rejected one doesn't
			return false, nil
		},
	}
	mockUsers := &mockUserRepository{getByIDFn: existingUser(2)}
	svc := NewFriendshipService(mockRepo, mockUsers)

	f, err := svc.Request(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Status != model.FriendshipPending {
		t.Errorf("status = %q, want %q", f.Status, model.FriendshipPending)
	}
}

// =============================================================================
// RESPOND TESTS
// =============================================================================

func TestFriendshipService_Respond(t *testing.T) {
	pendingEdge := func() *model.Friendship {
		return &model.Friendship{ID: 10, UserID: 1, FriendID: 2, Status: model.FriendshipPending}
	}

	tests := []struct {
		name     string
		callerID int64
		status   string
		edge     *model.Friendship
		edgeErr  error
		wantErr  error
	}{
		{
			name:     "recipient accepts",
			callerID: 2,
			status:   model.FriendshipAccepted,
			edge:     pendingEdge(),
			wantErr:  nil,
		},
		{
			name:     "recipient rejects",
			callerID: 2,
			status:   model.FriendshipRejected,
			edge:     pendingEdge(),
			wantErr:  nil,
		},
		{
			name:     "invalid status",
			callerID: 2,
			status:   "blocked",
			edge:     pendingEdge(),
			wantErr:  model.ErrInvalidStatus,
		},
		{
			name:     "pending is not a settable target",
			callerID: 2,
			status:   model.FriendshipPending,
			edge:     pendingEdge(),
			wantErr:  model.ErrInvalidStatus,
		},
		{
			name:     "requester cannot respond to own request",
			callerID: 1,
			status:   model.FriendshipAccepted,
			edge:     pendingEdge(),
			wantErr:  model.ErrNotRecipient,
		},
		{
			name:     "third party cannot respond",
			callerID: 3,
			status:   model.FriendshipAccepted,
			edge:     pendingEdge(),
			wantErr:  model.ErrNotRecipient,
		},
		{
			name:     "already accepted",
			callerID: 2,
			status:   model.FriendshipRejected,
			edge:     &model.Friendship{ID: 10, UserID: 1, FriendID: 2, Status: model.FriendshipAccepted},
			wantErr:  model.ErrAlreadyDecided,
		},
		{
			name:     "already rejected",
			callerID: 2,
			status:   model.FriendshipAccepted,
			edge:     &model.Friendship{ID: 10, UserID: 1, FriendID: 2, Status: model.FriendshipRejected},
			wantErr:  model.ErrAlreadyDecided,
		},
		{
			name:     "edge not found",
			callerID: 2,
			status:   model.FriendshipAccepted,
			edgeErr:  model.ErrFriendshipNotFound,
			wantErr:  model.ErrFriendshipNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockFriendshipRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.Friendship, error) {
					if tt.edgeErr != nil {
						return nil, tt.edgeErr
					}
					return tt.edge, nil
				},
			}
			svc := NewFriendshipService(mockRepo, &mockUserRepository{})

			f, err := svc.Respond(context.Background(), tt.callerID, 10, tt.status)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Status != tt.status {
				t.Errorf("status = %q, want %q", f.Status, tt.status)
			}
		})
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestFriendshipService_Delete(t *testing.T) {
	edge := &model.Friendship{ID: 10, UserID: 1, FriendID: 2, Status: model.FriendshipAccepted}

	tests := []struct {
		name       string
		callerID   int64
		wantErr    error
		wantDelete bool
	}{
		{name: "requester may delete", callerID: 1, wantDelete: true},
		{name: "recipient may delete", callerID: 2, wantDelete: true},
		{name: "third party may not", callerID: 3, wantErr: model.ErrNotParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockFriendshipRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.Friendship, error) {
					return edge, nil
				},
			}
			svc := NewFriendshipService(mockRepo, &mockUserRepository{})

			err := svc.Delete(context.Background(), tt.callerID, 10)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(mockRepo.deleteCalls) != 0 {
					t.Error("Delete should not reach the repository")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantDelete && len(mockRepo.deleteCalls) != 1 {
				t.Errorf("Delete called %d times, want 1", len(mockRepo.deleteCalls))
			}
		})
	}
}

// Deleting a pending edge withdraws the request; status does not matter.
func TestFriendshipService_Delete_PendingEdge(t *testing.T) {
	mockRepo := &mockFriendshipRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Friendship, error) {
			return &model.Friendship{ID: 11, UserID: 1, FriendID: 2, Status: model.FriendshipPending}, nil
		},
	}
	svc := NewFriendshipService(mockRepo, &mockUserRepository{})

	if err := svc.Delete(context.Background(), 1, 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mockRepo.deleteCalls) != 1 {
		t.Errorf("Delete called %d times, want 1", len(mockRepo.deleteCalls))
	}
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestFriendshipService_ListFriends_Pagination(t *testing.T) {
	// 25 accepted friendships, 10 per page
	mockRepo := &mockFriendshipRepository{
		listAcceptedFn: func(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error) {
			items := make([]model.Friendship, 10)
			for i := range items {
				items[i] = model.Friendship{
					ID:     int64(i + 1),
					Status: model.FriendshipAccepted,
					Friend: &model.UserRef{ID: int64(100 + i), Name: "friend"},
				}
			}
			return items, 25, nil
		},
	}
	svc := NewFriendshipService(mockRepo, &mockUserRepository{})

	resp, err := svc.ListFriends(context.Background(), 1, model.PageRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Pagination.TotalItems != 25 {
		t.Errorf("total_items = %d, want 25", resp.Pagination.TotalItems)
	}
	if resp.Pagination.TotalPages != 3 {
		t.Errorf("total_pages = %d, want 3", resp.Pagination.TotalPages)
	}
	if !resp.Pagination.HasMorePages {
		t.Error("expected has_more_pages on page 1 of 3")
	}

	// Entries expose the counterpart only
	for _, f := range resp.Friends {
		if f.Friend == nil {
			t.Fatal("expected counterpart projection on each entry")
		}
	}
}

func TestFriendshipService_ListFriends_Empty(t *testing.T) {
	svc := NewFriendshipService(&mockFriendshipRepository{}, &mockUserRepository{})

	resp, err := svc.ListFriends(context.Background(), 1, model.PageRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Friends == nil {
		t.Error("friends should be an empty slice, not nil")
	}
	if resp.Pagination.TotalPages != 1 {
		t.Errorf("total_pages = %d, want 1", resp.Pagination.TotalPages)
	}
	if resp.Pagination.HasMorePages {
		t.Error("empty listing should not report more pages")
	}
}

func TestFriendshipService_ListPending(t *testing.T) {
	mockRepo := &mockFriendshipRepository{
		listPendingIncomingFn: func(ctx context.Context, userID int64, page model.PageRequest) ([]model.Friendship, int64, error) {
			return []model.Friendship{
				{ID: 5, UserID: 7, FriendID: userID, Status: model.FriendshipPending,
					Requester: &model.UserRef{ID: 7, Name: "requester"}},
			}, 1, nil
		},
	}
	svc := NewFriendshipService(mockRepo, &mockUserRepository{})

	resp, err := svc.ListPending(context.Background(), 2, model.PageRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.PendingRequests) != 1 {
		t.Fatalf("pending = %d, want 1", len(resp.PendingRequests))
	}
	if resp.PendingRequests[0].Requester == nil {
		t.Error("expected requester projection on pending entries")
	}
}
