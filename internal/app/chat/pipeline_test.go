package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duochat/internal/app/model"
	"duochat/internal/pkg/errs"
)

func newPipeline(st Store, emitter Emitter) *MessageDeliveryPipeline {
	return NewMessageDeliveryPipeline(st, NewChatSessionResolver(st), emitter)
}

func TestPipelineDeliversToLiveReceiver(t *testing.T) {
	st := newFakeStore()
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter(sender, receiver)
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)

	msg, err := pipeline.Send(context.Background(), SendParams{
		ChatID:     &chat.ID,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "hello there",
	})
	require.NoError(t, err)

	assert.Equal(t, chat.ID, msg.ChatID)
	assert.Equal(t, model.KindText, msg.Kind, "kind defaults to text")
	assert.False(t, msg.Seen, "new messages start unseen")

	received := emitter.sentTo(receiver, EventReceiveMessage)
	require.Len(t, received, 1)
	assert.Equal(t, msg, received[0].Payload)

	echoed := emitter.sentTo(sender, EventReceiveMessage)
	require.Len(t, echoed, 1, "sender gets an echo of the stored message")
	assert.Equal(t, msg, echoed[0].Payload)

	stale := emitter.sentTo(receiver, EventStopTyping)
	require.Len(t, stale, 1, "delivery clears any stale typing indicator")
	assert.Equal(t, TypingNotice{ChatID: chat.ID, SenderID: sender}, stale[0].Payload)

	assert.Empty(t, emitter.sentTo(sender, EventChatCreated), "pre-existing chat emits no chat-created")
}

func TestPipelineOfflineReceiverIsNotAnError(t *testing.T) {
	st := newFakeStore()
	sender, receiver := uuid.New(), uuid.New()
	// Only the sender is live.
	emitter := newRecordingEmitter(sender)
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)

	msg, err := pipeline.Send(context.Background(), SendParams{
		ChatID:     &chat.ID,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "catch up later",
	})
	require.NoError(t, err, "a delivery miss must not surface as an error")

	stored := st.storedMessages()
	require.Len(t, stored, 1)
	assert.Equal(t, msg.ID, stored[0].ID)
	assert.False(t, stored[0].Seen)

	require.Len(t, emitter.sentTo(sender, EventReceiveMessage), 1, "echo happens regardless of receiver presence")
}

func TestPipelineResolvesChatOnFirstMessage(t *testing.T) {
	st := newFakeStore()
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter(sender, receiver)
	pipeline := newPipeline(st, emitter)

	msg, err := pipeline.Send(context.Background(), SendParams{
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "first contact",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, msg.ChatID)

	notice := ChatCreatedNotice{ChatID: msg.ChatID}
	senderNotices := emitter.sentTo(sender, EventChatCreated)
	receiverNotices := emitter.sentTo(receiver, EventChatCreated)
	require.Len(t, senderNotices, 1)
	require.Len(t, receiverNotices, 1)
	assert.Equal(t, notice, senderNotices[0].Payload)
	assert.Equal(t, notice, receiverNotices[0].Payload)

	// The second message reuses the chat and emits no further chat-created.
	_, err = pipeline.Send(context.Background(), SendParams{
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "second",
	})
	require.NoError(t, err)
	assert.Len(t, emitter.sentTo(sender, EventChatCreated), 1)
}

func TestPipelinePersistenceFailureAbortsBeforeEmit(t *testing.T) {
	st := newFakeStore()
	st.createMessageErr = errors.New("disk full")
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter(sender, receiver)
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)
	st.createMessageErr = errors.New("disk full")

	_, err = pipeline.Send(context.Background(), SendParams{
		ChatID:     &chat.ID,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "will not survive",
	})
	require.Error(t, err)

	assert.Empty(t, emitter.allSent(), "nothing may be emitted for a message that is not durable")
	assert.Empty(t, st.storedMessages())
}

func TestPipelineTouchFailureDoesNotFailDelivery(t *testing.T) {
	st := newFakeStore()
	st.touchChatErr = errors.New("timeout")
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter(sender, receiver)
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)

	_, err = pipeline.Send(context.Background(), SendParams{
		ChatID:     &chat.ID,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    "still goes out",
	})
	require.NoError(t, err)
	assert.Len(t, emitter.sentTo(receiver, EventReceiveMessage), 1)
}

func TestPipelineValidation(t *testing.T) {
	st := newFakeStore()
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter()
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)

	tests := []struct {
		name     string
		params   SendParams
		wantCode int
	}{
		{
			name: "unknown kind",
			params: SendParams{
				ChatID: &chat.ID, SenderID: sender, ReceiverID: receiver,
				Content: "x", Kind: model.MessageKind("video"),
			},
			wantCode: errs.ErrMessageKindInvalid,
		},
		{
			name: "content too long",
			params: SendParams{
				ChatID: &chat.ID, SenderID: sender, ReceiverID: receiver,
				Content: strings.Repeat("a", MaxContentBytes+1),
			},
			wantCode: errs.ErrMessageContentTooLong,
		},
		{
			name: "empty text",
			params: SendParams{
				ChatID: &chat.ID, SenderID: sender, ReceiverID: receiver,
				Content: "",
			},
			wantCode: errs.ErrMessageEmpty,
		},
		{
			name: "markup only sanitizes to empty",
			params: SendParams{
				ChatID: &chat.ID, SenderID: sender, ReceiverID: receiver,
				Content: "<script>alert(1)</script>",
			},
			wantCode: errs.ErrMessageEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.Send(context.Background(), tt.params)
			require.Error(t, err)

			var cerr *errs.CustomError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.wantCode, cerr.Code)
		})
	}

	assert.Empty(t, emitter.allSent())
	assert.Empty(t, st.storedMessages())
}

func TestPipelineSanitizesMarkup(t *testing.T) {
	st := newFakeStore()
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter(sender, receiver)
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)

	msg, err := pipeline.Send(context.Background(), SendParams{
		ChatID:     &chat.ID,
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    `hi <b onclick="x()">there</b>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.Content, "<b")
	assert.Contains(t, msg.Content, "hi")
	assert.Contains(t, msg.Content, "there")
}

func TestPipelineImageMessageWithEmptyContent(t *testing.T) {
	st := newFakeStore()
	sender, receiver := uuid.New(), uuid.New()
	emitter := newRecordingEmitter(sender, receiver)
	pipeline := newPipeline(st, emitter)

	chat, err := st.CreateChat(context.Background(), sender, receiver)
	require.NoError(t, err)

	msg, err := pipeline.Send(context.Background(), SendParams{
		ChatID:     &chat.ID,
		SenderID:   sender,
		ReceiverID: receiver,
		Kind:       model.KindImage,
		FileURL:    "attachments/photo.png",
	})
	require.NoError(t, err, "non-text kinds do not require content")
	assert.Equal(t, model.KindImage, msg.Kind)
	assert.Equal(t, "attachments/photo.png", msg.FileURL)
}
