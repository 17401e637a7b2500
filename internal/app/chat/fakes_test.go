package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"duochat/internal/app/model"
	"duochat/internal/app/store"
)

type pair struct {
	a, b uuid.UUID
}

func sortedPair(a, b uuid.UUID) pair {
	x, y := model.SortPair(a, b)
	return pair{x, y}
}

// fakeStore is an in-memory Store. Error injection per method lets a test
// fail exactly one step of a flow.
type fakeStore struct {
	mu       sync.Mutex
	chats    map[pair]model.Chat
	messages []model.Message
	online   map[uuid.UUID]bool

	createChatErr    error
	createMessageErr error
	touchChatErr     error
	markSeenErr      error
	setOnlineErr     error

	touchCalls    int
	markSeenCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		chats:  make(map[pair]model.Chat),
		online: make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) FindDirectChat(_ context.Context, a, b uuid.UUID) (model.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	chat, ok := f.chats[sortedPair(a, b)]
	if !ok {
		return model.Chat{}, store.ErrNotFound
	}
	return chat, nil
}

func (f *fakeStore) CreateChat(_ context.Context, a, b uuid.UUID) (model.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createChatErr != nil {
		return model.Chat{}, f.createChatErr
	}

	key := sortedPair(a, b)
	if _, exists := f.chats[key]; exists {
		return model.Chat{}, &pgconn.PgError{Code: "23505", ConstraintName: "chats_pair_unique"}
	}

	chat := model.Chat{
		ID:             uuid.New(),
		UserA:          key.a,
		UserB:          key.b,
		LastActivityAt: time.Now(),
		CreatedAt:      time.Now(),
	}
	f.chats[key] = chat
	return chat, nil
}

func (f *fakeStore) TouchChat(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.touchCalls++
	if f.touchChatErr != nil {
		return f.touchChatErr
	}
	for key, chat := range f.chats {
		if chat.ID == id {
			chat.LastActivityAt = at
			f.chats[key] = chat
		}
	}
	return nil
}

func (f *fakeStore) CreateMessage(_ context.Context, p store.CreateMessageParams) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createMessageErr != nil {
		return model.Message{}, f.createMessageErr
	}

	msg := model.Message{
		ID:        uuid.New(),
		ChatID:    p.ChatID,
		SenderID:  p.SenderID,
		Content:   p.Content,
		Kind:      p.Kind,
		FileURL:   p.FileURL,
		Seen:      false,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) MarkMessagesSeen(_ context.Context, chatID, excludeUserID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markSeenCalls++
	if f.markSeenErr != nil {
		return 0, f.markSeenErr
	}

	var rows int64
	for i, msg := range f.messages {
		if msg.ChatID == chatID && msg.SenderID != excludeUserID && !msg.Seen {
			f.messages[i].Seen = true
			rows++
		}
	}
	return rows, nil
}

func (f *fakeStore) SetUserOnline(_ context.Context, id uuid.UUID, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setOnlineErr != nil {
		return f.setOnlineErr
	}
	f.online[id] = online
	return nil
}

func (f *fakeStore) storedMessages() []model.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Message, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *fakeStore) onlineFlag(id uuid.UUID) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.online[id]
	return v, ok
}

// sentEvent is one recorded Send / SendConn / Broadcast call.
type sentEvent struct {
	UserID  uuid.UUID
	ConnID  string
	Event   EventKind
	Payload any
}

// recordingEmitter captures emissions in order. The live set controls what
// Send reports, mirroring a receiver with or without a connection.
type recordingEmitter struct {
	mu         sync.Mutex
	sent       []sentEvent
	broadcasts []sentEvent
	live       map[uuid.UUID]bool
}

func newRecordingEmitter(liveUsers ...uuid.UUID) *recordingEmitter {
	live := make(map[uuid.UUID]bool, len(liveUsers))
	for _, u := range liveUsers {
		live[u] = true
	}
	return &recordingEmitter{live: live}
}

func (e *recordingEmitter) Send(userID uuid.UUID, event EventKind, payload any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sent = append(e.sent, sentEvent{UserID: userID, Event: event, Payload: payload})
	return e.live[userID]
}

func (e *recordingEmitter) SendConn(connID string, event EventKind, payload any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sent = append(e.sent, sentEvent{ConnID: connID, Event: event, Payload: payload})
	return true
}

func (e *recordingEmitter) Broadcast(event EventKind, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.broadcasts = append(e.broadcasts, sentEvent{Event: event, Payload: payload})
}

func (e *recordingEmitter) sentTo(userID uuid.UUID, event EventKind) []sentEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []sentEvent
	for _, s := range e.sent {
		if s.UserID == userID && s.Event == event {
			out = append(out, s)
		}
	}
	return out
}

func (e *recordingEmitter) allSent() []sentEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]sentEvent, len(e.sent))
	copy(out, e.sent)
	return out
}

func (e *recordingEmitter) allBroadcasts() []sentEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]sentEvent, len(e.broadcasts))
	copy(out, e.broadcasts)
	return out
}

// recordingCloser records Kick calls from the router.
type recordingCloser struct {
	mu     sync.Mutex
	kicked []string
}

func (c *recordingCloser) Kick(connID string, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.kicked = append(c.kicked, connID)
}

func (c *recordingCloser) kickedConns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.kicked))
	copy(out, c.kicked)
	return out
}
