package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/princekumarofficial/tourism-media-service/internal/types"
)

// Hub maintains the set of active clients grouped by room and broadcasts events to rooms
type Hub struct {
	// Subscribed clients per room
	rooms map[string]map[*Client]struct{}

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect rooms map
	mu sync.RWMutex

	// Channel to broadcast events
	broadcast chan *BroadcastMessage

	// Closed when Run returns
	done chan struct{}
}

// BroadcastMessage represents a message to be broadcast to one room
type BroadcastMessage struct {
	Room  string       `json:"room"`
	Event *types.Event `json:"event"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is canceled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			members, ok := h.rooms[client.room]
			if !ok {
				members = make(map[*Client]struct{})
				h.rooms[client.room] = members
			}
			members[client] = struct{}{}
			h.mu.Unlock()
			slog.Info("WebSocket client connected",
				slog.String("client_id", client.id),
				slog.String("room", client.room))

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.broadcastToRoom(message.Room, message.Event)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[client.room]
	if !ok {
		return
	}
	if _, ok := members[client]; !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, client.room)
	}
	close(client.send)
	slog.Info("WebSocket client disconnected",
		slog.String("client_id", client.id),
		slog.String("room", client.room))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		for client := range members {
			close(client.send)
		}
		delete(h.rooms, room)
	}
}

// RegisterClient registers a new client
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// UnregisterClient unregisters a client
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToRoom sends an event to every client in room
func (h *Hub) BroadcastToRoom(room string, event *types.Event) {
	message := &BroadcastMessage{
		Room:  room,
		Event: event,
	}

	select {
	case h.broadcast <- message:
	default:
		slog.Warn("Broadcast channel is full, dropping message", slog.String("room", room))
	}
}

// broadcastToRoom is the internal method that actually sends messages to a room
func (h *Hub) broadcastToRoom(room string, event *types.Event) {
	h.mu.RLock()
	var failed []*Client
	for client := range h.rooms[room] {
		if err := client.SendEvent(event); err != nil {
			slog.Error("Failed to send event to client",
				slog.String("client_id", client.id),
				slog.String("error", err.Error()))
			failed = append(failed, client)
		}
	}
	h.mu.RUnlock()

	// Slow clients are dropped
	for _, c := range failed {
		h.remove(c)
	}
}

// HasSubscribers reports whether anyone is listening to room
func (h *Hub) HasSubscribers(room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room]) > 0
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, members := range h.rooms {
		n += len(members)
	}
	return n
}
