package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"duochat/internal/app/db"
	"duochat/internal/app/model"
	"duochat/internal/app/store"
	"duochat/internal/pkg/logx"
)

// ErrSameParticipant rejects a direct chat between a user and themselves.
var ErrSameParticipant = errors.New("chat: direct chat requires two distinct participants")

// ChatSessionResolver provides idempotent get-or-create of the direct chat
// between two users.
//
// The chats schema carries a uniqueness constraint on the sorted participant
// pair, so two concurrent creations for the same pair cannot both commit: the
// loser observes a unique violation, re-finds, and returns the winning row.
type ChatSessionResolver struct {
	store  Store
	logger zerolog.Logger
}

// NewChatSessionResolver returns a resolver backed by the given store.
func NewChatSessionResolver(st Store) *ChatSessionResolver {
	return &ChatSessionResolver{
		store:  st,
		logger: logx.Logger().With().Str("component", "ChatSessionResolver").Logger(),
	}
}

// GetOrCreate returns the direct chat whose member set is exactly {a, b},
// creating it when absent. created reports whether this call inserted the
// row. Safe under concurrent invocation for the same pair.
func (r *ChatSessionResolver) GetOrCreate(ctx context.Context, a, b uuid.UUID) (model.Chat, bool, error) {
	if a == uuid.Nil || b == uuid.Nil || a == b {
		return model.Chat{}, false, ErrSameParticipant
	}

	chat, err := r.store.FindDirectChat(ctx, a, b)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.Chat{}, false, fmt.Errorf("find direct chat: %w", err)
	}

	chat, err = r.store.CreateChat(ctx, a, b)
	if err == nil {
		r.logger.Info().
			Str("chat_id", chat.ID.String()).
			Str("user_a", chat.UserA.String()).
			Str("user_b", chat.UserB.String()).
			Msg("Direct chat created.")
		return chat, true, nil
	}

	if db.IsUniqueViolation(err) {
		// Lost the race: a concurrent call inserted the pair first.
		chat, findErr := r.store.FindDirectChat(ctx, a, b)
		if findErr != nil {
			return model.Chat{}, false, fmt.Errorf("refetch chat after conflict: %w", findErr)
		}
		return chat, false, nil
	}

	return model.Chat{}, false, fmt.Errorf("create chat: %w", err)
}
