package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ActiveStoriesKey is the sorted set holding active story ids scored by
	// expiration time (unix seconds).
	ActiveStoriesKey = "stories:active"
)

// StoryScore pairs a story id with its expiration timestamp for bulk loads.
type StoryScore struct {
	StoryID   int64
	ExpiresAt int64 // Unix timestamp
}

// StoryCache indexes active stories in Redis so the active-stories listing
// avoids a table scan. Scores are expiration timestamps, which lets both
// reads and the sweeper cut on time with a single range query.
type StoryCache interface {
	// Add inserts or refreshes a story in the active index.
	Add(ctx context.Context, storyID int64, expiresAt int64) error

	// Remove drops a story from the index.
	Remove(ctx context.Context, storyIDs ...int64) error

	// ActiveIDs returns ids of stories whose expiration is after now,
	// newest-expiring first.
	ActiveIDs(ctx context.Context, now time.Time) ([]int64, error)

	// RemoveExpired prunes entries whose expiration is at or before now.
	RemoveExpired(ctx context.Context, now time.Time) (int64, error)

	// Warm bulk-loads stories into the index. Used at startup so the index
	// survives Redis restarts.
	Warm(ctx context.Context, stories []StoryScore) error

	// Size returns the number of indexed stories.
	Size(ctx context.Context) (int64, error)
}

// RedisStoryCache implements StoryCache using a Redis sorted set.
type RedisStoryCache struct {
	client *redis.Client
}

// NewStoryCache creates a StoryCache backed by Redis.
func NewStoryCache(client *redis.Client) StoryCache {
	return &RedisStoryCache{client: client}
}

func (c *RedisStoryCache) Add(ctx context.Context, storyID int64, expiresAt int64) error {
	err := c.client.ZAdd(ctx, ActiveStoriesKey, redis.Z{
		Score:  float64(expiresAt),
		Member: strconv.FormatInt(storyID, 10),
	}).Err()
	if err != nil {
		log.Printf("[StoryCache] Add FAILED: story=%d err=%v", storyID, err)
		return fmt.Errorf("add story to index: %w", err)
	}

	log.Printf("[StoryCache] Add OK: story=%d expiresAt=%d", storyID, expiresAt)
	return nil
}

func (c *RedisStoryCache) Remove(ctx context.Context, storyIDs ...int64) error {
	if len(storyIDs) == 0 {
		return nil
	}

	members := make([]interface{}, len(storyIDs))
	for i, id := range storyIDs {
		members[i] = strconv.FormatInt(id, 10)
	}

	removed, err := c.client.ZRem(ctx, ActiveStoriesKey, members...).Result()
	if err != nil {
		log.Printf("[StoryCache] Remove FAILED: stories=%v err=%v", storyIDs, err)
		return fmt.Errorf("remove stories from index: %w", err)
	}

	log.Printf("[StoryCache] Remove OK: stories=%v removed=%d", storyIDs, removed)
	return nil
}

// ActiveIDs returns story ids with expiration strictly after now. The "("
// prefix makes the range bound exclusive.
func (c *RedisStoryCache) ActiveIDs(ctx context.Context, now time.Time) ([]int64, error) {
	startTime := time.Now()

	members, err := c.client.ZRevRangeByScore(ctx, ActiveStoriesKey, &redis.ZRangeBy{
		Min: fmt.Sprintf("(%d", now.Unix()),
		Max: "+inf",
	}).Result()
	if err != nil {
		log.Printf("[StoryCache] ActiveIDs FAILED: err=%v", err)
		return nil, fmt.Errorf("range active stories: %w", err)
	}

	ids := make([]int64, len(members))
	for i, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			log.Printf("[StoryCache] ActiveIDs parse error: member=%q err=%v", m, err)
			return nil, fmt.Errorf("parse story id: %w", err)
		}
		ids[i] = id
	}

	log.Printf("[StoryCache] ActiveIDs OK: returned=%d duration=%v", len(ids), time.Since(startTime))
	return ids, nil
}

func (c *RedisStoryCache) RemoveExpired(ctx context.Context, now time.Time) (int64, error) {
	removed, err := c.client.ZRemRangeByScore(ctx, ActiveStoriesKey,
		"-inf", strconv.FormatInt(now.Unix(), 10)).Result()
	if err != nil {
		log.Printf("[StoryCache] RemoveExpired FAILED: err=%v", err)
		return 0, fmt.Errorf("remove expired stories: %w", err)
	}

	if removed > 0 {
		log.Printf("[StoryCache] RemoveExpired OK: removed=%d", removed)
	}
	return removed, nil
}

func (c *RedisStoryCache) Warm(ctx context.Context, stories []StoryScore) error {
	if len(stories) == 0 {
		log.Printf("[StoryCache] Warm: stories=0 (nothing to warm)")
		return nil
	}

	members := make([]redis.Z, len(stories))
	for i, s := range stories {
		members[i] = redis.Z{
			Score:  float64(s.ExpiresAt),
			Member: strconv.FormatInt(s.StoryID, 10),
		}
	}

	if err := c.client.ZAdd(ctx, ActiveStoriesKey, members...).Err(); err != nil {
		log.Printf("[StoryCache] Warm FAILED: stories=%d err=%v", len(stories), err)
		return fmt.Errorf("warm story index: %w", err)
	}

	log.Printf("[StoryCache] Warm OK: stories=%d", len(stories))
	return nil
}

func (c *RedisStoryCache) Size(ctx context.Context) (int64, error) {
	size, err := c.client.ZCard(ctx, ActiveStoriesKey).Result()
	if err != nil {
		return 0, fmt.Errorf("get story index size: %w", err)
	}
	return size, nil
}
