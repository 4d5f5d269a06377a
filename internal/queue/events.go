package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the story stream
const (
	EventStoryCreated = "story_created"
	EventStoryDeleted = "story_deleted"
)

// Stream names
const (
	StreamStories = "stream:stories"
)

// Consumer group name for story workers
const (
	ConsumerGroupStories = "story_workers"
)

// StoryEvent represents an event published to the story stream. Workers
// apply these to the active-story index.
type StoryEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	StoryID int64 `json:"story_id"`
	OwnerID int64 `json:"owner_id"`

	// ExpiresAt is set for created events; it becomes the index score.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

// NewStoryCreatedEvent creates an event for when a user uploads a story.
func NewStoryCreatedEvent(storyID, ownerID int64, expiresAt time.Time) StoryEvent {
	return StoryEvent{
		Type:      EventStoryCreated,
		Timestamp: time.Now().Unix(),
		StoryID:   storyID,
		OwnerID:   ownerID,
		ExpiresAt: expiresAt.Unix(),
	}
}

// NewStoryDeletedEvent creates an event for when a story is removed, either
// by its owner or by the expiry sweeper.
func NewStoryDeletedEvent(storyID, ownerID int64) StoryEvent {
	return StoryEvent{
		Type:      EventStoryDeleted,
		Timestamp: time.Now().Unix(),
		StoryID:   storyID,
		OwnerID:   ownerID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e StoryEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseStoryEvent parses a StoryEvent from Redis stream message values.
func ParseStoryEvent(values map[string]interface{}) (StoryEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return StoryEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event StoryEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return StoryEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
