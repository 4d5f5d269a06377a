package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/model"
	"socialnet/internal/queue"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockStoryRepository struct {
	createFn        func(ctx context.Context, story *model.Story) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Story, error)
	getByIDsFn      func(ctx context.Context, ids []int64) ([]model.Story, error)
	deleteOwnedFn   func(ctx context.Context, id, userID int64) error
	listActiveFn    func(ctx context.Context, now time.Time) ([]model.Story, error)
	deleteExpiredFn func(ctx context.Context, now time.Time) ([]int64, error)

	deleteOwnedCalls int
}

func (m *mockStoryRepository) Create(ctx context.Context, story *model.Story) error {
	if m.createFn != nil {
		return m.createFn(ctx, story)
	}
	story.ID = 1
	return nil
}

func (m *mockStoryRepository) GetByID(ctx context.Context, id int64) (*model.Story, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrStoryNotFound
}

func (m *mockStoryRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Story, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockStoryRepository) DeleteOwned(ctx context.Context, id, userID int64) error {
	m.deleteOwnedCalls++
	if m.deleteOwnedFn != nil {
		return m.deleteOwnedFn(ctx, id, userID)
	}
	return nil
}

func (m *mockStoryRepository) ListActive(ctx context.Context, now time.Time) ([]model.Story, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, now)
	}
	return nil, nil
}

func (m *mockStoryRepository) DeleteExpired(ctx context.Context, now time.Time) ([]int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return nil, nil
}

// memoryStoryCache is an in-process StoryCache for tests.
type memoryStoryCache struct {
	scores map[int64]int64 // storyID -> expiresAt
	warmed int
}

func newMemoryStoryCache() *memoryStoryCache {
	return &memoryStoryCache{scores: make(map[int64]int64)}
}

func (c *memoryStoryCache) Add(ctx context.Context, storyID int64, expiresAt int64) error {
	c.scores[storyID] = expiresAt
	return nil
}

func (c *memoryStoryCache) Remove(ctx context.Context, storyIDs ...int64) error {
	for _, id := range storyIDs {
		delete(c.scores, id)
	}
	return nil
}

func (c *memoryStoryCache) ActiveIDs(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	for id, exp := range c.scores {
		if exp > now.Unix() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *memoryStoryCache) RemoveExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	for id, exp := range c.scores {
		if exp <= now.Unix() {
			delete(c.scores, id)
			removed++
		}
	}
	return removed, nil
}

func (c *memoryStoryCache) Warm(ctx context.Context, stories []cache.StoryScore) error {
	c.warmed++
	for _, s := range stories {
		c.scores[s.StoryID] = s.ExpiresAt
	}
	return nil
}

func (c *memoryStoryCache) Size(ctx context.Context) (int64, error) {
	return int64(len(c.scores)), nil
}

type mockPublisher struct {
	events []queue.StoryEvent
	err    error
}

func (p *mockPublisher) Publish(ctx context.Context, stream string, event queue.StoryEvent) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.events = append(p.events, event)
	return "1-0", nil
}

type mockObjectStore struct {
	deletedKeys []string
	err         error
}

func (s *mockObjectStore) DeleteObject(ctx context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestStoryService_Create(t *testing.T) {
	mockRepo := &mockStoryRepository{
		createFn: func(ctx context.Context, story *model.Story) error {
			story.ID = 42
			story.CreatedAt = time.Now()
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := NewStoryService(mockRepo, newMemoryStoryCache(), pub, &mockObjectStore{}, 24*time.Hour)

	before := time.Now()
	story, err := svc.Create(context.Background(), 7, &model.UploadResult{URL: "https://cdn/x.jpg", Key: "stories/x.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if story.UserID != 7 {
		t.Errorf("user_id = %d, want 7", story.UserID)
	}

	// Expiration is one TTL out
	wantExpiry := before.Add(24 * time.Hour)
	if story.ExpirationTime.Before(wantExpiry.Add(-time.Minute)) ||
		story.ExpirationTime.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiration_time = %v, want ~%v", story.ExpirationTime, wantExpiry)
	}

	// Created event goes out after the insert
	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	if pub.events[0].Type != queue.EventStoryCreated {
		t.Errorf("event type = %q, want %q", pub.events[0].Type, queue.EventStoryCreated)
	}
	if pub.events[0].StoryID != 42 {
		t.Errorf("event story = %d, want 42", pub.events[0].StoryID)
	}
}

func TestStoryService_Create_PublishFailureIsNonFatal(t *testing.T) {
	mockRepo := &mockStoryRepository{}
	pub := &mockPublisher{err: errors.New("stream down")}
	svc := NewStoryService(mockRepo, newMemoryStoryCache(), pub, &mockObjectStore{}, 24*time.Hour)

	// The sweeper still reaps the story from the database; losing the index
	// event must not fail the upload.
	story, err := svc.Create(context.Background(), 7, &model.UploadResult{URL: "u", Key: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if story == nil {
		t.Fatal("expected story despite publish failure")
	}
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestStoryService_ListActive_FromIndex(t *testing.T) {
	now := time.Now()
	active := model.Story{ID: 1, UserID: 7, ExpirationTime: now.Add(time.Hour)}

	storyCache := newMemoryStoryCache()
	storyCache.Add(context.Background(), 1, active.ExpirationTime.Unix())

	dbListed := false
	mockRepo := &mockStoryRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]model.Story, error) {
			if len(ids) != 1 || ids[0] != 1 {
				t.Errorf("resolved ids = %v, want [1]", ids)
			}
			return []model.Story{active}, nil
		},
		listActiveFn: func(ctx context.Context, now time.Time) ([]model.Story, error) {
			dbListed = true
			return nil, nil
		},
	}
	svc := NewStoryService(mockRepo, storyCache, &mockPublisher{}, &mockObjectStore{}, 24*time.Hour)

	stories, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stories) != 1 || stories[0].ID != 1 {
		t.Errorf("stories = %v, want the one active story", stories)
	}
	if dbListed {
		t.Error("index hit should not fall back to the database listing")
	}
}

// A story that expired between the index read and the DB resolve is dropped.
func TestStoryService_ListActive_FiltersJustExpired(t *testing.T) {
	now := time.Now()
	stale := model.Story{ID: 2, UserID: 7, ExpirationTime: now.Add(-time.Second)}
	fresh := model.Story{ID: 3, UserID: 7, ExpirationTime: now.Add(time.Hour)}

	storyCache := newMemoryStoryCache()
	// Index claims both are active
	storyCache.Add(context.Background(), 2, now.Add(time.Hour).Unix())
	storyCache.Add(context.Background(), 3, fresh.ExpirationTime.Unix())

	mockRepo := &mockStoryRepository{
		getByIDsFn: func(ctx context.Context, ids []int64) ([]model.Story, error) {
			return []model.Story{stale, fresh}, nil
		},
	}
	svc := NewStoryService(mockRepo, storyCache, &mockPublisher{}, &mockObjectStore{}, 24*time.Hour)

	stories, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stories) != 1 || stories[0].ID != 3 {
		t.Errorf("stories = %v, want only the unexpired one", stories)
	}
}

func TestStoryService_ListActive_FallbackWarmsIndex(t *testing.T) {
	now := time.Now()
	storyCache := newMemoryStoryCache() // empty index

	mockRepo := &mockStoryRepository{
		listActiveFn: func(ctx context.Context, queryNow time.Time) ([]model.Story, error) {
			return []model.Story{
				{ID: 4, UserID: 7, ExpirationTime: now.Add(time.Hour)},
				{ID: 5, UserID: 8, ExpirationTime: now.Add(2 * time.Hour)},
			}, nil
		},
	}
	svc := NewStoryService(mockRepo, storyCache, &mockPublisher{}, &mockObjectStore{}, 24*time.Hour)

	stories, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stories) != 2 {
		t.Fatalf("stories = %d, want 2", len(stories))
	}
	if storyCache.warmed != 1 {
		t.Errorf("index warmed %d times, want 1", storyCache.warmed)
	}
	if size, _ := storyCache.Size(context.Background()); size != 2 {
		t.Errorf("index size = %d, want 2", size)
	}
}

func TestStoryService_ListActive_EmptyIsNotNil(t *testing.T) {
	svc := NewStoryService(&mockStoryRepository{}, newMemoryStoryCache(), &mockPublisher{}, &mockObjectStore{}, 24*time.Hour)

	stories, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stories == nil {
		t.Error("stories should be an empty slice, not nil")
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestStoryService_Delete_Owner(t *testing.T) {
	mockRepo := &mockStoryRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Story, error) {
			return &model.Story{ID: id, UserID: 7, MediaKey: "stories/x.jpg"}, nil
		},
	}
	pub := &mockPublisher{}
	store := &mockObjectStore{}
	svc := NewStoryService(mockRepo, newMemoryStoryCache(), pub, store, 24*time.Hour)

	if err := svc.Delete(context.Background(), 42, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mockRepo.deleteOwnedCalls != 1 {
		t.Errorf("DeleteOwned called %d times, want 1", mockRepo.deleteOwnedCalls)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventStoryDeleted {
		t.Errorf("expected one StoryDeleted event, got %v", pub.events)
	}
	if len(store.deletedKeys) != 1 || store.deletedKeys[0] != "stories/x.jpg" {
		t.Errorf("deleted keys = %v, want the story's media key", store.deletedKeys)
	}
}

// A non-owner gets the same answer as a missing story.
func TestStoryService_Delete_NonOwner(t *testing.T) {
	mockRepo := &mockStoryRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Story, error) {
			return &model.Story{ID: id, UserID: 7}, nil
		},
	}
	svc := NewStoryService(mockRepo, newMemoryStoryCache(), &mockPublisher{}, &mockObjectStore{}, 24*time.Hour)

	err := svc.Delete(context.Background(), 42, 8)
	if !errors.Is(err, model.ErrStoryNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrStoryNotFound)
	}
	if mockRepo.deleteOwnedCalls != 0 {
		t.Error("DeleteOwned should not be called for a non-owner")
	}
}

func TestStoryService_Delete_ObjectDeleteFailureIsNonFatal(t *testing.T) {
	mockRepo := &mockStoryRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Story, error) {
			return &model.Story{ID: id, UserID: 7, MediaKey: "stories/x.jpg"}, nil
		},
	}
	store := &mockObjectStore{err: errors.New("s3 down")}
	svc := NewStoryService(mockRepo, newMemoryStoryCache(), &mockPublisher{}, store, 24*time.Hour)

	if err := svc.Delete(context.Background(), 42, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
