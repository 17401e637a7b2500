package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	store    *fakeStore
	registry *ConnectionRegistry
	emitter  *recordingEmitter
	closer   *recordingCloser
	router   *EventRouter
}

func newRouterFixture(liveUsers ...uuid.UUID) *routerFixture {
	st := newFakeStore()
	registry := NewConnectionRegistry()
	emitter := newRecordingEmitter(liveUsers...)
	closer := &recordingCloser{}

	presence := NewPresenceTracker(registry, st, emitter)
	resolver := NewChatSessionResolver(st)
	pipeline := NewMessageDeliveryPipeline(st, resolver, emitter)
	seen := NewSeenReceiptCoordinator(st, emitter)
	typing := NewTypingCoordinator(emitter)

	return &routerFixture{
		store:    st,
		registry: registry,
		emitter:  emitter,
		closer:   closer,
		router:   NewEventRouter(presence, typing, pipeline, seen, emitter, closer),
	}
}

func frame(t *testing.T, event EventKind, payload any) []byte {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	env, err := json.Marshal(Envelope{Event: event, Payload: raw})
	require.NoError(t, err)
	return env
}

func TestRouterJoinRegistersConnection(t *testing.T) {
	f := newRouterFixture()
	user := uuid.New()

	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventJoin, user))

	connID, ok := f.registry.Lookup(user)
	require.True(t, ok)
	assert.Equal(t, "conn-1", connID)
	assert.Empty(t, f.closer.kickedConns())
}

func TestRouterRejoinKicksSupersededConnection(t *testing.T) {
	f := newRouterFixture()
	user := uuid.New()

	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventJoin, user))
	f.router.Dispatch(context.Background(), "conn-2", frame(t, EventJoin, user))

	assert.Equal(t, []string{"conn-1"}, f.closer.kickedConns())

	connID, ok := f.registry.Lookup(user)
	require.True(t, ok)
	assert.Equal(t, "conn-2", connID)
}

func TestRouterMalformedFramesAreDropped(t *testing.T) {
	f := newRouterFixture()

	frames := [][]byte{
		[]byte(`not json at all`),
		[]byte(`{"event":"join","payload":"not-a-uuid"}`),
		[]byte(`{"event":"typing","payload":{}}`),
		[]byte(`{"event":"send-message","payload":{"message":{}}}`),
		[]byte(`{"event":"seen-messages","payload":{"chatId":"` + uuid.New().String() + `"}}`),
		[]byte(`{"event":"new-chat","payload":{"users":[]}}`),
	}

	for i, raw := range frames {
		t.Run(fmt.Sprintf("frame_%d", i), func(t *testing.T) {
			f.router.Dispatch(context.Background(), "conn-1", raw)
		})
	}

	assert.Empty(t, f.emitter.allSent())
	assert.Zero(t, f.registry.Len())
	assert.Empty(t, f.store.storedMessages())
}

func TestRouterUnknownEventIsIgnored(t *testing.T) {
	f := newRouterFixture()

	f.router.Dispatch(context.Background(), "conn-1",
		[]byte(`{"event":"some-future-thing","payload":{"x":1}}`))

	assert.Empty(t, f.emitter.allSent())
}

func TestRouterTypingThenStopTypingPreservesOrder(t *testing.T) {
	sender, receiver := uuid.New(), uuid.New()
	f := newRouterFixture(receiver)
	chatID := uuid.New()

	payload := TypingPayload{ChatID: chatID, SenderID: sender, ReceiverID: receiver}
	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventTyping, payload))
	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventStopTyping, payload))

	sent := f.emitter.allSent()
	require.Len(t, sent, 2)
	assert.Equal(t, EventTyping, sent[0].Event)
	assert.Equal(t, EventStopTyping, sent[1].Event)
	for _, s := range sent {
		assert.Equal(t, receiver, s.UserID)
		assert.Equal(t, TypingNotice{ChatID: chatID, SenderID: sender}, s.Payload)
	}
}

func TestRouterSendMessageEndToEnd(t *testing.T) {
	sender, receiver := uuid.New(), uuid.New()
	f := newRouterFixture(sender, receiver)

	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventSendMessage, SendMessagePayload{
		Message:    InboundMessage{Content: "hi over the wire"},
		SenderID:   sender,
		ReceiverID: receiver,
	}))

	stored := f.store.storedMessages()
	require.Len(t, stored, 1)
	assert.Equal(t, "hi over the wire", stored[0].Content)

	assert.Len(t, f.emitter.sentTo(receiver, EventReceiveMessage), 1)
	assert.Len(t, f.emitter.sentTo(sender, EventReceiveMessage), 1)
	assert.Len(t, f.emitter.sentTo(receiver, EventChatCreated), 1, "first message creates the chat")
}

func TestRouterSeenMessagesNotifiesPeer(t *testing.T) {
	viewer, peer := uuid.New(), uuid.New()
	f := newRouterFixture(peer)

	chat, err := f.store.CreateChat(context.Background(), viewer, peer)
	require.NoError(t, err)

	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventSeenMessages, SeenMessagesPayload{
		ChatID:   chat.ID,
		UserID:   viewer,
		SenderID: peer,
	}))

	notices := f.emitter.sentTo(peer, EventMessagesSeen)
	require.Len(t, notices, 1)
	assert.Equal(t, MessagesSeenNotice{ChatID: chat.ID}, notices[0].Payload)
}

func TestRouterNewChatRelaysToAllListedUsers(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	f := newRouterFixture(u1, u2)
	chatID := uuid.New()

	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventNewChat, NewChatPayload{
		ChatID: chatID,
		Users:  []uuid.UUID{u1, u2},
	}))

	for _, u := range []uuid.UUID{u1, u2} {
		notices := f.emitter.sentTo(u, EventChatCreated)
		require.Len(t, notices, 1)
		assert.Equal(t, ChatCreatedNotice{ChatID: chatID}, notices[0].Payload)
	}
}

func TestRouterDisconnectRoutesToPresence(t *testing.T) {
	f := newRouterFixture()
	user := uuid.New()

	f.router.Dispatch(context.Background(), "conn-1", frame(t, EventJoin, user))
	f.router.HandleDisconnect(context.Background(), "conn-1")

	_, ok := f.registry.Lookup(user)
	assert.False(t, ok)
}
