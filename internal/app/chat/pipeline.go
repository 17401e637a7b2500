package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"duochat/internal/app/model"
	"duochat/internal/app/store"
	"duochat/internal/pkg/errs"
	"duochat/internal/pkg/logx"
)

// MaxContentBytes is the maximum allowed size (in bytes) for message content.
const MaxContentBytes = 5000

// SendParams carries one message through the delivery pipeline.
// ChatID may be nil; the pipeline then resolves or creates the direct chat
// between sender and receiver.
type SendParams struct {
	ChatID     *uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
	Kind       model.MessageKind
	FileURL    string
}

// MessageDeliveryPipeline persists a message, touches chat activity, and fans
// it out to the sender and receiver connections.
type MessageDeliveryPipeline struct {
	store     Store
	resolver  *ChatSessionResolver
	emitter   Emitter
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewMessageDeliveryPipeline wires the pipeline to its collaborators.
func NewMessageDeliveryPipeline(st Store, resolver *ChatSessionResolver, emitter Emitter) *MessageDeliveryPipeline {
	return &MessageDeliveryPipeline{
		store:     st,
		resolver:  resolver,
		emitter:   emitter,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logx.Logger().With().Str("component", "MessageDeliveryPipeline").Logger(),
	}
}

// Send runs the full delivery sequence:
//
//  1. Resolve or create the chat when ChatID is absent.
//  2. Persist the message (seen=false). A persistence failure aborts the
//     call entirely; nothing is emitted for a message that is not durable.
//  3. Touch the chat's last-activity marker.
//  4. Emit receive-message to the receiver if live, and echo the same payload
//     unconditionally to the sender's own connection.
//  5. If a new chat was created in step 1, emit chat-created to both
//     participants.
//  6. Emit stop-typing to the receiver, clearing any stale indicator.
//
// A receiver without a live connection is not an error: the message is
// durable and will be observed on the next fetch.
func (p *MessageDeliveryPipeline) Send(ctx context.Context, params SendParams) (model.Message, error) {
	kind := params.Kind
	if kind == "" {
		kind = model.KindText
	}
	if !kind.Valid() {
		return model.Message{}, errs.NewError(errs.ErrMessageKindInvalid)
	}

	if len(params.Content) > MaxContentBytes {
		return model.Message{}, errs.NewError(errs.ErrMessageContentTooLong)
	}

	content := p.sanitizer.Sanitize(params.Content)
	if kind == model.KindText && content == "" {
		return model.Message{}, errs.NewError(errs.ErrMessageEmpty)
	}

	var (
		chatID  uuid.UUID
		created bool
	)
	if params.ChatID != nil {
		chatID = *params.ChatID
	} else {
		chat, c, err := p.resolver.GetOrCreate(ctx, params.SenderID, params.ReceiverID)
		if err != nil {
			return model.Message{}, err
		}
		chatID = chat.ID
		created = c
	}

	msg, err := p.store.CreateMessage(ctx, store.CreateMessageParams{
		ChatID:   chatID,
		SenderID: params.SenderID,
		Content:  content,
		Kind:     kind,
		FileURL:  params.FileURL,
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("persist message: %w", err)
	}

	// The message is durable from here on; the remaining steps are
	// best-effort and never fail the call.
	if err := p.store.TouchChat(ctx, chatID, time.Now()); err != nil {
		p.logger.Warn().Err(err).
			Str("chat_id", chatID.String()).
			Msg("Failed to touch chat activity marker.")
	}

	delivered := p.emitter.Send(params.ReceiverID, EventReceiveMessage, msg)

	// Echo to the sender regardless of receiver presence so the sender's
	// other views converge on the stored message.
	p.emitter.Send(params.SenderID, EventReceiveMessage, msg)

	if created {
		notice := ChatCreatedNotice{ChatID: chatID}
		p.emitter.Send(params.SenderID, EventChatCreated, notice)
		p.emitter.Send(params.ReceiverID, EventChatCreated, notice)
	}

	p.emitter.Send(params.ReceiverID, EventStopTyping, TypingNotice{
		ChatID:   chatID,
		SenderID: params.SenderID,
	})

	p.logger.Debug().
		Str("message_id", msg.ID.String()).
		Str("chat_id", chatID.String()).
		Bool("receiver_live", delivered).
		Bool("chat_created", created).
		Msg("Message delivered.")

	return msg, nil
}
