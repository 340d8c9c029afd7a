package events

import (
	"github.com/princekumarofficial/tourism-media-service/internal/types"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

// Publisher interface for publishing events
type Publisher interface {
	PublishMediaEvent(eventType types.EventType, ev types.MediaEvent)
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToRoom(room string, event *types.Event)
	HasSubscribers(room string) bool
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishMediaEvent sends a media change to everyone watching the parent's room.
func (p *EventPublisher) PublishMediaEvent(eventType types.EventType, ev types.MediaEvent) {
	room := media.Room(ev.ParentType, ev.ParentID)

	// Nobody is watching this gallery
	if !p.hub.HasSubscribers(room) {
		return
	}

	p.hub.BroadcastToRoom(room, types.NewEvent(eventType, ev))
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishMediaEvent(types.EventType, types.MediaEvent) {}
