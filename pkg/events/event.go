package events

import (
	"context"
	"time"
)

const (
	TypeRoadmapGenerated = "ROADMAP_GENERATED"
	TypeCalendarSynced   = "CALENDAR_SYNCED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ROADMAP_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher sends events to whatever bus backs it.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subject is the topic an event is published on.
func Subject(eventType string) string {
	return "events." + eventType
}

func RoadmapGenerated(requestID, outcome string, stages, nodes int, calendarRequested bool) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeRoadmapGenerated,
		Data: map[string]interface{}{
			"request_id":         requestID,
			"outcome":            outcome,
			"stage_count":        stages,
			"node_count":         nodes,
			"calendar_requested": calendarRequested,
			"occurred_at":        now,
		},
		OccurredAt: now,
	}
}

func CalendarSynced(userID, calendarID string, created, failed int) BaseEvent {
	now := time.Now()
	return BaseEvent{
		Type: TypeCalendarSynced,
		Data: map[string]interface{}{
			"user_id":       userID,
			"calendar_id":   calendarID,
			"created_count": created,
			"failed_count":  failed,
			"entity_type":   "calendar",
			"entity_id":     userID,
			"occurred_at":   now,
		},
		OccurredAt: now,
	}
}
