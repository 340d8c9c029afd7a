package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventMediaUploaded EventType = "media.uploaded"
	EventMediaUpdated  EventType = "media.updated"
	EventMediaDeleted  EventType = "media.deleted"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// MediaEvent describes a change to one parent's media collection.
type MediaEvent struct {
	ParentType string  `json:"parentType"`
	ParentID   int64   `json:"parentId"`
	Kind       string  `json:"kind"`
	AssetIDs   []int64 `json:"assetIds"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
