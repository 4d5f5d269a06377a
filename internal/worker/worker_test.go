package worker_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"socialnet/internal/cache"
	"socialnet/internal/queue"
	"socialnet/internal/worker"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	// Connect to local Redis (adjust URL if needed)
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	// Clean up test database
	client.FlushDB(ctx)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

// mockDeleter simulates the story repository's expiry reaper.
type mockDeleter struct {
	expired []int64
	calls   int
}

func (m *mockDeleter) DeleteExpired(ctx context.Context, now time.Time) ([]int64, error) {
	m.calls++
	return m.expired, nil
}

// =============================================================================
// Handler Tests
// =============================================================================

// TestStoryCreatedIndexing tests that a created event puts the story into the
// active index under its expiration score.
func TestStoryCreatedIndexing(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	storyCache := cache.NewStoryCache(client)
	handler := worker.NewHandler(storyCache)

	expiresAt := time.Now().Add(24 * time.Hour)
	event := queue.NewStoryCreatedEvent(100, 1, expiresAt)

	if err := handler.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	ids, err := storyCache.ActiveIDs(ctx, time.Now())
	if err != nil {
		t.Fatalf("ActiveIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 100 {
		t.Errorf("active ids = %v, want [100]", ids)
	}
}

// TestStoryDeletedDeindexing tests that a deleted event removes the story
// from the index.
func TestStoryDeletedDeindexing(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	storyCache := cache.NewStoryCache(client)
	handler := worker.NewHandler(storyCache)

	expiresAt := time.Now().Add(24 * time.Hour).Unix()
	storyCache.Add(ctx, 100, expiresAt)
	storyCache.Add(ctx, 101, expiresAt)

	event := queue.NewStoryDeletedEvent(100, 1)
	if err := handler.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	ids, err := storyCache.ActiveIDs(ctx, time.Now())
	if err != nil {
		t.Fatalf("ActiveIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 101 {
		t.Errorf("active ids = %v, want [101]", ids)
	}
}

// TestExpiredStoriesNotListed tests that the index cuts on expiration time
// without needing a sweep.
func TestExpiredStoriesNotListed(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	storyCache := cache.NewStoryCache(client)

	now := time.Now()
	storyCache.Add(ctx, 1, now.Add(-time.Minute).Unix()) // expired
	storyCache.Add(ctx, 2, now.Add(time.Hour).Unix())    // active

	ids, err := storyCache.ActiveIDs(ctx, now)
	if err != nil {
		t.Fatalf("ActiveIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("active ids = %v, want [2]", ids)
	}
}

// =============================================================================
// Sweep Tests
// =============================================================================

// TestSweepReapsExpired tests that a sweep deletes expired rows, prunes their
// index entries, and drops leftover expired index entries.
func TestSweepReapsExpired(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	storyCache := cache.NewStoryCache(client)
	consumer := queue.NewConsumer(client)
	handler := worker.NewHandler(storyCache)

	now := time.Now()

	// Stories 1 and 2 expired in the database; 3 is still active.
	// Story 4 has an orphaned index entry with no database row.
	storyCache.Add(ctx, 1, now.Add(time.Hour).Unix()) // stale score, row expired
	storyCache.Add(ctx, 2, now.Add(-time.Minute).Unix())
	storyCache.Add(ctx, 3, now.Add(time.Hour).Unix())
	storyCache.Add(ctx, 4, now.Add(-time.Hour).Unix())

	deleter := &mockDeleter{expired: []int64{1, 2}}
	manager := worker.NewManager(consumer, handler, storyCache, deleter, worker.DefaultManagerConfig())

	manager.Sweep(ctx, now)

	if deleter.calls != 1 {
		t.Errorf("DeleteExpired called %d times, want 1", deleter.calls)
	}

	ids, err := storyCache.ActiveIDs(ctx, now)
	if err != nil {
		t.Fatalf("ActiveIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Errorf("active ids after sweep = %v, want [3]", ids)
	}

	// The orphaned expired entry is gone entirely, not just filtered
	size, _ := storyCache.Size(ctx)
	if size != 1 { // 1 and 2 pruned by id, 4 reaped by score, 3 remains
		t.Errorf("index size after sweep = %d, want 1", size)
	}
}

// =============================================================================
// Stream + Worker Integration Test
// =============================================================================

// TestStreamToWorkerIntegration tests the complete flow:
// Publisher -> Stream -> Consumer -> Handler -> Index
func TestStreamToWorkerIntegration(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()

	storyCache := cache.NewStoryCache(client)
	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)
	handler := worker.NewHandler(storyCache)

	// Ensure consumer group exists
	if err := consumer.EnsureGroup(ctx, queue.StreamStories, queue.ConsumerGroupStories); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}

	// Publish a story created event
	expiresAt := time.Now().Add(24 * time.Hour)
	event := queue.NewStoryCreatedEvent(100, 1, expiresAt)
	if _, err := publisher.Publish(ctx, queue.StreamStories, event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Consume the message
	messages, err := consumer.Read(ctx, queue.StreamStories, queue.ConsumerGroupStories, "test-worker", 10, time.Second)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(messages))
	}

	// Process the message
	msg := messages[0]
	if err := handler.HandleEvent(ctx, msg.Event); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}

	// Acknowledge
	if err := consumer.Ack(ctx, queue.StreamStories, queue.ConsumerGroupStories, msg.ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	// Verify: story is in the active index
	ids, err := storyCache.ActiveIDs(ctx, time.Now())
	if err != nil {
		t.Fatalf("ActiveIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 100 {
		t.Errorf("active ids = %v, want [100]", ids)
	}

	// Verify: no pending messages
	pending, _ := consumer.Pending(ctx, queue.StreamStories, queue.ConsumerGroupStories)
	if pending != 0 {
		t.Errorf("Expected 0 pending messages, got %d", pending)
	}

	t.Log("✓ Stream to worker integration test passed")
}
