package service

import (
	"context"
	"log"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/model"
	"socialnet/internal/queue"
	"socialnet/internal/repository"
)

// StoryService handles ephemeral stories. The database is the source of
// truth; a Redis index of active stories keeps the listing cheap, maintained
// asynchronously through the story event stream.
type StoryService struct {
	storyRepo  repository.StoryRepository
	storyCache cache.StoryCache
	publisher  queue.Publisher
	store      ObjectStore
	ttl        time.Duration
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	storyCache cache.StoryCache,
	publisher queue.Publisher,
	store ObjectStore,
	ttl time.Duration,
) *StoryService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StoryService{
		storyRepo:  storyRepo,
		storyCache: storyCache,
		publisher:  publisher,
		store:      store,
		ttl:        ttl,
	}
}

// Create stores a story with its expiration set one TTL from now, then
// publishes the created event after commit so workers index it.
func (s *StoryService) Create(ctx context.Context, userID int64, media *model.UploadResult) (*model.Story, error) {
	story := &model.Story{
		UserID:         userID,
		MediaURL:       media.URL,
		MediaKey:       media.Key,
		ExpirationTime: time.Now().Add(s.ttl),
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := queue.NewStoryCreatedEvent(story.ID, userID, story.ExpirationTime)
		if _, err := s.publisher.Publish(ctx, queue.StreamStories, event); err != nil {
			log.Printf("[StoryService] Failed to publish StoryCreated: story=%d err=%v", story.ID, err)
		}
	}

	return story, nil
}

// ListActive returns all unexpired stories. The Redis index is consulted
// first; on a miss or error the listing falls back to the database and
// rewarms the index.
func (s *StoryService) ListActive(ctx context.Context) ([]model.Story, error) {
	now := time.Now()

	if s.storyCache != nil {
		ids, err := s.storyCache.ActiveIDs(ctx, now)
		if err == nil && len(ids) > 0 {
			stories, err := s.storyRepo.GetByIDs(ctx, ids)
			if err == nil {
				return filterActive(stories, now), nil
			}
			log.Printf("[StoryService] Index hit but DB resolve failed: %v", err)
		}
	}

	stories, err := s.storyRepo.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}

	if s.storyCache != nil && len(stories) > 0 {
		scores := make([]cache.StoryScore, len(stories))
		for i, st := range stories {
			scores[i] = cache.StoryScore{StoryID: st.ID, ExpiresAt: st.ExpirationTime.Unix()}
		}
		if err := s.storyCache.Warm(ctx, scores); err != nil {
			log.Printf("[StoryService] Failed to warm story index: %v", err)
		}
	}

	if stories == nil {
		stories = []model.Story{}
	}
	return stories, nil
}

// Delete removes a story owned by the caller, publishes the deleted event,
// and removes the media object best-effort.
func (s *StoryService) Delete(ctx context.Context, storyID, callerID int64) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != callerID {
		// Same answer as a missing story so ownership isn't probeable
		return model.ErrStoryNotFound
	}

	if err := s.storyRepo.DeleteOwned(ctx, storyID, callerID); err != nil {
		return err
	}

	if s.publisher != nil {
		event := queue.NewStoryDeletedEvent(storyID, callerID)
		if _, err := s.publisher.Publish(ctx, queue.StreamStories, event); err != nil {
			log.Printf("[StoryService] Failed to publish StoryDeleted: story=%d err=%v", storyID, err)
		}
	}

	if s.store != nil && story.MediaKey != "" {
		if err := s.store.DeleteObject(ctx, story.MediaKey); err != nil {
			log.Printf("[StoryService] Failed to delete story media: story=%d key=%s err=%v",
				storyID, story.MediaKey, err)
		}
	}

	return nil
}

// filterActive drops stories that expired between the index read and now.
func filterActive(stories []model.Story, now time.Time) []model.Story {
	active := make([]model.Story, 0, len(stories))
	for _, st := range stories {
		if !st.IsExpired(now) {
			active = append(active, st)
		}
	}
	return active
}
