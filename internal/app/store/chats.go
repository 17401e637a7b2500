package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"duochat/internal/app/model"
)

const chatColumns = "id, user_a, user_b, last_activity_at, created_at"

// FindDirectChat looks up the direct chat whose member set is exactly {a, b}.
// Returns ErrNotFound when no such chat exists.
func (s *Store) FindDirectChat(ctx context.Context, a, b uuid.UUID) (model.Chat, error) {
	lo, hi := model.SortPair(a, b)

	var c model.Chat
	err := s.pool.QueryRow(ctx, `
		SELECT `+chatColumns+` FROM chats WHERE user_a = $1 AND user_b = $2`,
		lo, hi,
	).Scan(&c.ID, &c.UserA, &c.UserB, &c.LastActivityAt, &c.CreatedAt)
	if err != nil {
		return model.Chat{}, mapNoRows(err)
	}
	return c, nil
}

// CreateChat inserts a direct chat for the unordered pair {a, b}.
// The chats_pair_unique constraint rejects a concurrent duplicate; callers
// detect that with db.IsUniqueViolation and re-find the winning row.
func (s *Store) CreateChat(ctx context.Context, a, b uuid.UUID) (model.Chat, error) {
	lo, hi := model.SortPair(a, b)

	var c model.Chat
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chats (user_a, user_b)
		VALUES ($1, $2)
		RETURNING `+chatColumns,
		lo, hi,
	).Scan(&c.ID, &c.UserA, &c.UserB, &c.LastActivityAt, &c.CreatedAt)
	if err != nil {
		return model.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	return c, nil
}

// GetChatByID fetches a single chat.
func (s *Store) GetChatByID(ctx context.Context, id uuid.UUID) (model.Chat, error) {
	var c model.Chat
	err := s.pool.QueryRow(ctx, `
		SELECT `+chatColumns+` FROM chats WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.UserA, &c.UserB, &c.LastActivityAt, &c.CreatedAt)
	if err != nil {
		return model.Chat{}, mapNoRows(err)
	}
	return c, nil
}

// ListChatsForUser returns every chat the user participates in, most recently
// active first (sidebar ordering).
func (s *Store) ListChatsForUser(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+chatColumns+` FROM chats
		WHERE user_a = $1 OR user_b = $1
		ORDER BY last_activity_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []model.Chat
	for rows.Next() {
		var c model.Chat
		if err := rows.Scan(&c.ID, &c.UserA, &c.UserB, &c.LastActivityAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

// TouchChat moves the chat's last-activity marker forward.
func (s *Store) TouchChat(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE chats SET last_activity_at = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("touch chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
