package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"duochat/internal/app/model"
	"duochat/internal/app/store"
)

// Store is the slice of the persistence collaborator the realtime core
// consumes. *store.Store satisfies it; tests substitute an in-memory fake.
// All methods must tolerate concurrent invocation.
type Store interface {
	FindDirectChat(ctx context.Context, a, b uuid.UUID) (model.Chat, error)
	CreateChat(ctx context.Context, a, b uuid.UUID) (model.Chat, error)
	TouchChat(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateMessage(ctx context.Context, p store.CreateMessageParams) (model.Message, error)
	MarkMessagesSeen(ctx context.Context, chatID, excludeUserID uuid.UUID) (int64, error)
	SetUserOnline(ctx context.Context, id uuid.UUID, online bool) error
}
