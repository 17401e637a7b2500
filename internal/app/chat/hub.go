package chat

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"duochat/internal/pkg/logx"
)

// Hub tracks every live WebSocket client by connection id and implements the
// Emitter capability over them. It consults the ConnectionRegistry to resolve
// a user id to that user's current connection.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	registry *ConnectionRegistry
	logger   zerolog.Logger
}

// NewHub returns a hub resolving users through the given registry.
func NewHub(registry *ConnectionRegistry) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		registry: registry,
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Add tracks a newly upgraded client. The client is addressable immediately,
// but it only becomes reachable by user id once its join frame registers it.
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info().
		Str("conn_id", client.ID).
		Int("total_conns", total).
		Msg("Client connection tracked.")
}

// Remove forgets the client with the given connection id.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	if ok {
		delete(h.clients, connID)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	client.closeSend()
	h.logger.Info().
		Str("conn_id", connID).
		Int("total_conns", total).
		Msg("Client connection removed.")
}

// Send delivers one event to the user's live connection, if any.
// Implements Emitter. A miss returns false and is not an error.
func (h *Hub) Send(userID uuid.UUID, event EventKind, payload any) bool {
	connID, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	return h.SendConn(connID, event, payload)
}

// SendConn delivers one event to a specific connection. Implements Emitter.
func (h *Hub) SendConn(connID string, event EventKind, payload any) bool {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error().Err(err).
			Str("event", string(event)).
			Msg("Failed to marshal outbound frame.")
		return false
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		return false
	}
	return client.enqueue(frame)
}

// Broadcast delivers one event to every live connection. Implements Emitter.
func (h *Hub) Broadcast(event EventKind, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error().Err(err).
			Str("event", string(event)).
			Msg("Failed to marshal broadcast frame.")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.enqueue(frame)
	}
}

// Kick closes a specific connection with a close frame carrying the reason.
// Used when a new registration supersedes an old connection.
func (h *Hub) Kick(connID string, reason string) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		return
	}
	client.Kick(reason)
}

// Shutdown closes every tracked connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, client := range clients {
		client.closeSend()
	}

	h.logger.Info().Int("closed", len(clients)).Msg("Hub shutdown complete.")
}

// marshalEnvelope builds the outbound wire frame for one event.
func marshalEnvelope(event EventKind, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}
