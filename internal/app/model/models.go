/*
Package model contains the core data structures shared by the realtime core,
the persistence layer, and the HTTP handlers.
*/
package model

import (
	"time"

	"github.com/google/uuid"
)

// MessageKind identifies the payload carried by a message.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindFile  MessageKind = "file"
)

// Valid reports whether k is one of the supported message kinds.
func (k MessageKind) Valid() bool {
	switch k {
	case KindText, KindImage, KindFile:
		return true
	}
	return false
}

// User represents a registered account.
// Online is a best-effort projection of connection-registry membership.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar,omitempty"`
	Online    bool      `json:"online"`
	CreatedAt time.Time `json:"createdAt"`
}

// Chat is a direct (two-participant) conversation. Participants are stored as
// a sorted pair so that the unordered pair {A, B} maps to exactly one row.
type Chat struct {
	ID             uuid.UUID `json:"id"`
	UserA          uuid.UUID `json:"userA"`
	UserB          uuid.UUID `json:"userB"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Participants returns both member ids.
func (c Chat) Participants() [2]uuid.UUID {
	return [2]uuid.UUID{c.UserA, c.UserB}
}

// HasParticipant reports whether id is one of the chat's two members.
func (c Chat) HasParticipant(id uuid.UUID) bool {
	return c.UserA == id || c.UserB == id
}

// PeerOf returns the other participant of the chat. The second return value
// is false when id is not a member at all.
func (c Chat) PeerOf(id uuid.UUID) (uuid.UUID, bool) {
	switch id {
	case c.UserA:
		return c.UserB, true
	case c.UserB:
		return c.UserA, true
	}
	return uuid.Nil, false
}

// SortPair normalizes an unordered user pair into (low, high) UUID order.
// Both the resolver and the schema constraint rely on this ordering.
func SortPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if compareUUID(a, b) > 0 {
		return b, a
	}
	return a, b
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Message belongs to exactly one chat. Immutable after creation except for
// the Seen transition false -> true.
type Message struct {
	ID        uuid.UUID   `json:"id"`
	ChatID    uuid.UUID   `json:"chatId"`
	SenderID  uuid.UUID   `json:"senderId"`
	Content   string      `json:"content,omitempty"`
	Kind      MessageKind `json:"kind"`
	FileURL   string      `json:"fileUrl,omitempty"`
	Seen      bool        `json:"seen"`
	CreatedAt time.Time   `json:"createdAt"`
}
