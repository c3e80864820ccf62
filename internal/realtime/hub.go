package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/slateroom/slateroom-backend/internal/platform/logger"
)

const outboundBuffer = 16

// Client is one connected SSE stream.
type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
}

// Hub fans SSEMessages out to connected clients by channel. Cross-instance
// delivery goes through the bus forwarder, which replays remote messages
// into the local hub.
type Hub struct {
	log     *logger.Logger
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:     log.With("service", "SSEHub"),
		clients: make(map[uuid.UUID]*Client),
	}
}

func (h *Hub) Register(userID uuid.UUID, channels ...string) *Client {
	client := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Channels: make(map[string]bool, len(channels)),
		Outbound: make(chan SSEMessage, outboundBuffer),
	}
	for _, ch := range channels {
		client.Channels[ch] = true
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	return client
}

func (h *Hub) Unregister(clientID uuid.UUID) {
	h.mu.Lock()
	client, ok := h.clients[clientID]
	if ok {
		delete(h.clients, clientID)
	}
	h.mu.Unlock()
	if ok {
		close(client.Outbound)
	}
}

func (h *Hub) Subscribe(clientID uuid.UUID, channel string) {
	h.mu.Lock()
	if client, ok := h.clients[clientID]; ok {
		client.Channels[channel] = true
	}
	h.mu.Unlock()
}

func (h *Hub) Unsubscribe(clientID uuid.UUID, channel string) {
	h.mu.Lock()
	if client, ok := h.clients[clientID]; ok {
		delete(client.Channels, channel)
	}
	h.mu.Unlock()
}

// Publish delivers msg to every client subscribed to its channel. Slow
// clients with a full buffer are skipped rather than blocked on.
func (h *Hub) Publish(msg SSEMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !client.Channels[msg.Channel] {
			continue
		}
		select {
		case client.Outbound <- msg:
		default:
			h.log.Warn("Dropping SSE message for slow client", "client_id", client.ID.String(), "channel", msg.Channel)
		}
	}
}
