package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"duochat/internal/pkg/logx"
)

// SeenReceiptCoordinator bulk-marks messages seen and notifies the original
// sender. The seen flag is monotonic (false -> true only), so repeated calls
// with no new unseen messages are no-ops.
type SeenReceiptCoordinator struct {
	store   Store
	emitter Emitter
	logger  zerolog.Logger
}

// NewSeenReceiptCoordinator wires the coordinator to its collaborators.
func NewSeenReceiptCoordinator(st Store, emitter Emitter) *SeenReceiptCoordinator {
	return &SeenReceiptCoordinator{
		store:   st,
		emitter: emitter,
		logger:  logx.Logger().With().Str("component", "SeenReceiptCoordinator").Logger(),
	}
}

// MarkSeen sets seen=true on every message in chatID not sent by viewerID,
// then emits a single messages-seen event to peerID's connection if live.
// The event is emitted even when zero rows changed: consumers treat it as
// level-triggered ("refresh seen state for this chat"), so duplicates are
// harmless.
func (s *SeenReceiptCoordinator) MarkSeen(ctx context.Context, chatID, viewerID, peerID uuid.UUID) error {
	rows, err := s.store.MarkMessagesSeen(ctx, chatID, viewerID)
	if err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}

	s.emitter.Send(peerID, EventMessagesSeen, MessagesSeenNotice{ChatID: chatID})

	s.logger.Debug().
		Str("chat_id", chatID.String()).
		Str("viewer_id", viewerID.String()).
		Int64("rows_updated", rows).
		Msg("Messages marked seen.")

	return nil
}
