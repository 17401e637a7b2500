package chat

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"duochat/internal/pkg/logx"
)

// connCloser closes a specific connection with a reason. The hub implements
// it; the router uses it to kick a superseded connection after a rejoin.
type connCloser interface {
	Kick(connID string, reason string)
}

// EventRouter validates inbound frames and dispatches them to the coordinator
// responsible for each kind.
//
// Events from the same connection are dispatched synchronously from that
// connection's read loop, which preserves per-connection arrival order. No
// ordering guarantee exists across different connections. A malformed frame
// is dropped with a logged warning and never crashes the connection; unknown
// kinds are silently ignored.
type EventRouter struct {
	presence *PresenceTracker
	typing   *TypingCoordinator
	pipeline *MessageDeliveryPipeline
	seen     *SeenReceiptCoordinator
	emitter  Emitter
	closer   connCloser
	logger   zerolog.Logger
}

// NewEventRouter wires the router to the coordinators.
func NewEventRouter(
	presence *PresenceTracker,
	typing *TypingCoordinator,
	pipeline *MessageDeliveryPipeline,
	seen *SeenReceiptCoordinator,
	emitter Emitter,
	closer connCloser,
) *EventRouter {
	return &EventRouter{
		presence: presence,
		typing:   typing,
		pipeline: pipeline,
		seen:     seen,
		emitter:  emitter,
		closer:   closer,
		logger:   logx.Logger().With().Str("component", "EventRouter").Logger(),
	}
}

// Dispatch processes one raw inbound frame from connID.
func (r *EventRouter) Dispatch(ctx context.Context, connID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Msg("Dropping frame with invalid JSON envelope.")
		return
	}

	switch env.Event {
	case EventJoin:
		r.handleJoin(ctx, connID, env.Payload)

	case EventTyping:
		r.handleTyping(connID, env.Payload, true)

	case EventStopTyping:
		r.handleTyping(connID, env.Payload, false)

	case EventSendMessage:
		r.handleSendMessage(ctx, connID, env.Payload)

	case EventSeenMessages:
		r.handleSeenMessages(ctx, connID, env.Payload)

	case EventNewChat:
		r.handleNewChat(connID, env.Payload)

	default:
		// Unknown kinds are ignored so older servers tolerate newer clients.
	}
}

// HandleDisconnect is invoked by the transport when connID goes away.
func (r *EventRouter) HandleDisconnect(ctx context.Context, connID string) {
	r.presence.Disconnected(ctx, connID)
}

// handleJoin binds the connection to the user id carried in the payload and
// kicks any connection it superseded.
func (r *EventRouter) handleJoin(ctx context.Context, connID string, payload json.RawMessage) {
	var userID uuid.UUID
	if err := json.Unmarshal(payload, &userID); err != nil || userID == uuid.Nil {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Msg("Dropping join frame with invalid user id.")
		return
	}

	superseded, replaced := r.presence.Connected(ctx, userID, connID)
	if replaced {
		r.closer.Kick(superseded, "Session replaced by a new connection.")
	}
}

func (r *EventRouter) handleTyping(connID string, payload json.RawMessage, start bool) {
	var p TypingPayload
	if err := json.Unmarshal(payload, &p); err != nil ||
		p.ChatID == uuid.Nil || p.SenderID == uuid.Nil || p.ReceiverID == uuid.Nil {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Msg("Dropping typing frame with missing fields.")
		return
	}

	if start {
		r.typing.Typing(p.ChatID, p.SenderID, p.ReceiverID)
	} else {
		r.typing.StopTyping(p.ChatID, p.SenderID, p.ReceiverID)
	}
}

func (r *EventRouter) handleSendMessage(ctx context.Context, connID string, payload json.RawMessage) {
	var p SendMessagePayload
	if err := json.Unmarshal(payload, &p); err != nil ||
		p.SenderID == uuid.Nil || p.ReceiverID == uuid.Nil {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Msg("Dropping send-message frame with missing fields.")
		return
	}

	_, err := r.pipeline.Send(ctx, SendParams{
		ChatID:     p.Message.ChatID,
		SenderID:   p.SenderID,
		ReceiverID: p.ReceiverID,
		Content:    p.Message.Content,
		Kind:       p.Message.Kind,
		FileURL:    p.Message.FileURL,
	})
	if err != nil {
		// The failure is scoped to this event; the connection stays up.
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Str("sender_id", p.SenderID.String()).
			Msg("Message delivery failed.")
	}
}

func (r *EventRouter) handleSeenMessages(ctx context.Context, connID string, payload json.RawMessage) {
	var p SeenMessagesPayload
	if err := json.Unmarshal(payload, &p); err != nil ||
		p.ChatID == uuid.Nil || p.UserID == uuid.Nil || p.SenderID == uuid.Nil {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Msg("Dropping seen-messages frame with missing fields.")
		return
	}

	if err := r.seen.MarkSeen(ctx, p.ChatID, p.UserID, p.SenderID); err != nil {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Str("chat_id", p.ChatID.String()).
			Msg("Seen receipt failed.")
	}
}

// handleNewChat relays a sidebar-refresh hint to both participants after a
// chat was created over HTTP.
func (r *EventRouter) handleNewChat(connID string, payload json.RawMessage) {
	var p NewChatPayload
	if err := json.Unmarshal(payload, &p); err != nil ||
		p.ChatID == uuid.Nil || len(p.Users) == 0 {
		r.logger.Warn().Err(err).
			Str("conn_id", connID).
			Msg("Dropping new-chat frame with missing fields.")
		return
	}

	for _, userID := range p.Users {
		r.emitter.Send(userID, EventChatCreated, ChatCreatedNotice{ChatID: p.ChatID})
	}
}
