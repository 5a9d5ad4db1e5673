package websocket

import (
	"log/slog"
	"sync"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
	"github.com/lorrc/queue-desk-backend/internal/core/ports"
)

// allCategories is the room for boards that want every event (the main hall
// display) rather than one category's.
const allCategories int64 = 0

// Hub maintains the set of connected display boards and fans queue events
// out to them.
type Hub struct {
	// clients is the set of all connected boards
	clients map[*Client]bool

	// rooms maps category IDs to subscribed boards; allCategories is the
	// firehose room
	rooms map[int64]map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[int64]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast sends an event to the hub's internal broadcast channel.
// This method implements the ports.EventBroadcaster interface.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"ticket_id", event.TicketID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient adds a board to the hub. New boards start in the firehose
// room and can narrow down with a subscribe message.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.addToRoom(client, allCategories)

	h.logger.Info("display board connected",
		"remote_addr", client.RemoteAddr,
		"total_connections", len(h.clients),
	)
}

// unregisterClient removes a board from the hub and all rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	for _, categoryID := range client.GetSubscriptions() {
		h.removeFromRoom(client, categoryID)
	}

	client.CloseSend()

	h.logger.Info("display board disconnected",
		"remote_addr", client.RemoteAddr,
	)
}

// broadcastEvent sends an event to boards watching its category and to the
// firehose room.
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	// Copy recipients so the lock is not held while sending.
	recipients := make([]*Client, 0)
	seen := make(map[*Client]bool)
	for _, roomID := range []int64{event.CategoryID, allCategories} {
		for client := range h.rooms[roomID] {
			if !seen[client] {
				seen[client] = true
				recipients = append(recipients, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(recipients) == 0 {
		return
	}

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"category_id", event.CategoryID,
		"client_count", len(recipients),
	)

	var stalled []*Client
	for _, client := range recipients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Board's send buffer is full, drop it
			h.logger.Warn("board send buffer full, unregistering",
				"remote_addr", client.RemoteAddr,
			)
			stalled = append(stalled, client)
		}
	}

	// Unregister directly: this runs on the Run goroutine, which is the only
	// reader of the Unregister channel, so sending to it here would block the
	// event loop forever.
	for _, client := range stalled {
		h.unregisterClient(client)
	}
}

// subscribeToCategory moves a board into one category's room.
func (h *Hub) subscribeToCategory(client *Client, categoryID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.addToRoom(client, categoryID)

	h.logger.Debug("board subscribed to category",
		"remote_addr", client.RemoteAddr,
		"category_id", categoryID,
	)
}

// unsubscribeFromCategory removes a board from one category's room.
func (h *Hub) unsubscribeFromCategory(client *Client, categoryID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(client, categoryID)

	h.logger.Debug("board unsubscribed from category",
		"remote_addr", client.RemoteAddr,
		"category_id", categoryID,
	)
}

// addToRoom expects h.mu held.
func (h *Hub) addToRoom(client *Client, categoryID int64) {
	if h.rooms[categoryID] == nil {
		h.rooms[categoryID] = make(map[*Client]bool)
	}
	h.rooms[categoryID][client] = true
	client.AddSubscription(categoryID)
}

// removeFromRoom expects h.mu held.
func (h *Hub) removeFromRoom(client *Client, categoryID int64) {
	if room, ok := h.rooms[categoryID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, categoryID)
		}
	}
	client.RemoveSubscription(categoryID)
}

// GetClientCount returns the total number of connected boards
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetClientsInRoom returns the number of boards watching a category
func (h *Hub) GetClientsInRoom(categoryID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[categoryID]; ok {
		return len(room)
	}
	return 0
}
