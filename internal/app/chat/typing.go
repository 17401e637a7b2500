package chat

import "github.com/google/uuid"

// TypingCoordinator relays typing and stop-typing signals to the receiver's
// live connection. It keeps no server-side state and runs no timers: the
// client owns the debounce (typically 1.2s of inactivity before stop-typing).
// A client that never sends stop-typing leaves a stale indicator on the
// peer's screen; that is a documented client responsibility.
type TypingCoordinator struct {
	emitter Emitter
}

// NewTypingCoordinator returns a coordinator emitting through the given transport.
func NewTypingCoordinator(emitter Emitter) *TypingCoordinator {
	return &TypingCoordinator{emitter: emitter}
}

// Typing relays a typing signal for (chatID, senderID) to receiverID if live.
func (t *TypingCoordinator) Typing(chatID, senderID, receiverID uuid.UUID) {
	t.emitter.Send(receiverID, EventTyping, TypingNotice{ChatID: chatID, SenderID: senderID})
}

// StopTyping relays a stop-typing signal for (chatID, senderID) to receiverID if live.
func (t *TypingCoordinator) StopTyping(chatID, senderID, receiverID uuid.UUID) {
	t.emitter.Send(receiverID, EventStopTyping, TypingNotice{ChatID: chatID, SenderID: senderID})
}
