package hub

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (a user in a room).
// It's essentially a channel that the SSE/WebSocket handler will listen to.
type Client chan []byte

// Hub manages all active rooms and their clients, keyed by room code.
type Hub struct {
	rooms map[string]map[Client]bool
	mu    sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific room.
func (h *Hub) Subscribe(roomCode string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomCode]; !ok {
		h.rooms[roomCode] = make(map[Client]bool)
	}
	h.rooms[roomCode][client] = true
}

// Unsubscribe removes a client from a room.
func (h *Hub) Unsubscribe(roomCode string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[roomCode]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the handler to stop.
			if len(clients) == 0 {
				delete(h.rooms, roomCode)
			}
		}
	}
}

// Broadcast sends an event to all clients in a specific room.
func (h *Hub) Broadcast(roomCode string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.rooms[roomCode]; ok {
		messageBytes, err := json.Marshal(event)
		if err != nil {
			return
		}

		for client := range clients {
			// Use a non-blocking send to prevent a slow client from blocking the hub.
			select {
			case client <- messageBytes:
			default:
				// Client channel is full, maybe they are disconnected or slow.
				// The unsubscribe logic will handle cleaning this up eventually.
			}
		}
	}
}

// NotifyRoom is the fire-and-forget entry point used by the game engine.
func (h *Hub) NotifyRoom(roomCode, eventType string, payload interface{}) {
	h.Broadcast(roomCode, Event{Type: eventType, Payload: payload})
}
