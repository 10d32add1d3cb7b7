package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventSessionCreated EventType = "session.created"
	EventSessionScored  EventType = "session.scored"
	EventSessionDeleted EventType = "session.deleted"
)

const (
	eventSource  = "mbtmi"
	eventVersion = "1.0"
)

// Event is the envelope for every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps data in an envelope with a fresh id and timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

type UserRegisteredEvent struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type SessionCreatedEvent struct {
	SessionID string  `json:"session_id"`
	TestID    uint    `json:"test_id"`
	UserID    *string `json:"user_id,omitempty"`
}

type SessionScoredEvent struct {
	SessionID  string           `json:"session_id"`
	TestID     uint             `json:"test_id"`
	UserID     *string          `json:"user_id,omitempty"`
	MBTI       string           `json:"mbti"`
	AxisScores map[string]int64 `json:"axis_scores"`
	ScoredAt   time.Time        `json:"scored_at"`
}

type SessionDeletedEvent struct {
	SessionID string `json:"session_id"`
}
