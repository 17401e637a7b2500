package chat

import (
	"encoding/json"

	"github.com/google/uuid"

	"duochat/internal/app/model"
)

// EventKind tags every frame exchanged over the realtime channel.
type EventKind string

// Inbound events.
const (
	EventJoin         EventKind = "join"
	EventTyping       EventKind = "typing"
	EventStopTyping   EventKind = "stop-typing"
	EventSendMessage  EventKind = "send-message"
	EventSeenMessages EventKind = "seen-messages"
	EventNewChat      EventKind = "new-chat"
)

// Outbound events.
const (
	EventOnlineUsers    EventKind = "online-users"
	EventReceiveMessage EventKind = "receive-message"
	EventMessagesSeen   EventKind = "messages-seen"
	EventChatCreated    EventKind = "chat-created"
)

// Envelope is the wire frame for both directions: a kind tag plus a raw
// payload decoded by the handler responsible for that kind.
type Envelope struct {
	Event   EventKind       `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TypingPayload is the inbound typing / stop-typing frame.
type TypingPayload struct {
	ChatID     uuid.UUID `json:"chatId"`
	SenderID   uuid.UUID `json:"senderId"`
	ReceiverID uuid.UUID `json:"receiverId"`
}

// TypingNotice is the receiver-facing typing / stop-typing frame.
type TypingNotice struct {
	ChatID   uuid.UUID `json:"chatId"`
	SenderID uuid.UUID `json:"senderId"`
}

// InboundMessage is the message body carried by a send-message frame.
// ChatID may be nil: the first message of a conversation resolves or creates
// the chat on the fly.
type InboundMessage struct {
	ChatID  *uuid.UUID        `json:"chatId,omitempty"`
	Content string            `json:"content,omitempty"`
	Kind    model.MessageKind `json:"kind,omitempty"`
	FileURL string            `json:"fileUrl,omitempty"`
}

// SendMessagePayload is the inbound send-message frame.
type SendMessagePayload struct {
	Message    InboundMessage `json:"message"`
	SenderID   uuid.UUID      `json:"senderId"`
	ReceiverID uuid.UUID      `json:"receiverId"`
}

// SeenMessagesPayload is the inbound seen-messages frame. UserID is the
// viewer; SenderID is the peer whose messages were viewed.
type SeenMessagesPayload struct {
	ChatID   uuid.UUID `json:"chatId"`
	UserID   uuid.UUID `json:"userId"`
	SenderID uuid.UUID `json:"senderId"`
}

// NewChatPayload is the inbound sidebar-refresh hint sent after a chat was
// created over HTTP.
type NewChatPayload struct {
	ChatID uuid.UUID   `json:"chatId"`
	Users  []uuid.UUID `json:"users"`
}

// ChatCreatedNotice is the outbound chat-created frame.
type ChatCreatedNotice struct {
	ChatID uuid.UUID `json:"chatId"`
}

// MessagesSeenNotice is the outbound messages-seen frame. Consumers treat it
// as level-triggered: refresh seen state for this chat.
type MessagesSeenNotice struct {
	ChatID uuid.UUID `json:"chatId"`
}

// Emitter is the narrow transport capability the coordinators depend on.
// The hub implements it over live WebSocket connections; tests substitute a
// recording fake.
type Emitter interface {
	// Send delivers one event to the user's live connection. It reports
	// whether a live connection accepted the frame; a miss is not an error,
	// the durable store already holds the data.
	Send(userID uuid.UUID, event EventKind, payload any) bool

	// SendConn delivers one event to a specific connection.
	SendConn(connID string, event EventKind, payload any) bool

	// Broadcast delivers one event to every live connection.
	Broadcast(event EventKind, payload any)
}
