package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"socialnet/internal/cache"
	"socialnet/internal/queue"
)

// Handler applies story events to the active-story index.
type Handler struct {
	storyCache cache.StoryCache
}

// NewHandler creates a new event handler.
func NewHandler(storyCache cache.StoryCache) *Handler {
	return &Handler{storyCache: storyCache}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.StoryEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventStoryCreated:
		err = h.handleStoryCreated(ctx, event)
	case queue.EventStoryDeleted:
		err = h.handleStoryDeleted(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleStoryCreated indexes a new story under its expiration score.
func (h *Handler) handleStoryCreated(ctx context.Context, event queue.StoryEvent) error {
	log.Printf("[Worker] StoryCreated: story=%d owner=%d expiresAt=%d",
		event.StoryID, event.OwnerID, event.ExpiresAt)

	if err := h.storyCache.Add(ctx, event.StoryID, event.ExpiresAt); err != nil {
		return fmt.Errorf("index story: %w", err)
	}
	return nil
}

// handleStoryDeleted drops a story from the index.
func (h *Handler) handleStoryDeleted(ctx context.Context, event queue.StoryEvent) error {
	log.Printf("[Worker] StoryDeleted: story=%d owner=%d", event.StoryID, event.OwnerID)

	if err := h.storyCache.Remove(ctx, event.StoryID); err != nil {
		return fmt.Errorf("deindex story: %w", err)
	}
	return nil
}
