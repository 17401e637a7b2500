package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"duochat/internal/pkg/logx"
)

// PresenceTracker reconciles registry membership with the persisted online
// flag and broadcasts the roster whenever the registry changes.
//
// The persisted flag is an eventually-consistent projection: a store failure
// is logged and never blocks registration or the roster broadcast.
type PresenceTracker struct {
	registry *ConnectionRegistry
	store    Store
	emitter  Emitter
	logger   zerolog.Logger
}

// NewPresenceTracker wires the tracker to the registry it projects.
func NewPresenceTracker(registry *ConnectionRegistry, st Store, emitter Emitter) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		store:    st,
		emitter:  emitter,
		logger:   logx.Logger().With().Str("component", "PresenceTracker").Logger(),
	}
}

// Connected registers the user's connection. If the user already had a live
// connection its id is returned so the caller can close it (last-write-wins).
// The online flag is persisted best-effort and the full roster is broadcast.
func (p *PresenceTracker) Connected(ctx context.Context, userID uuid.UUID, connID string) (superseded string, replaced bool) {
	superseded, replaced = p.registry.Register(userID, connID)

	if err := p.store.SetUserOnline(ctx, userID, true); err != nil {
		p.logger.Warn().Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to persist online flag, presence remains registry-backed.")
	}

	p.logger.Info().
		Str("user_id", userID.String()).
		Str("conn_id", connID).
		Bool("replaced", replaced).
		Int("online_count", p.registry.Len()).
		Msg("User connected.")

	p.broadcastRoster()
	return superseded, replaced
}

// Disconnected removes the mapping owned by connID, if it is still current.
// A stale disconnect from a superseded connection is a no-op apart from the
// reverse-index cleanup; in that case neither the flag nor the roster change.
func (p *PresenceTracker) Disconnected(ctx context.Context, connID string) {
	userID, removed := p.registry.Unregister(connID)
	if !removed {
		p.logger.Debug().
			Str("conn_id", connID).
			Msg("Ignoring unregister for stale or unknown connection.")
		return
	}

	if err := p.store.SetUserOnline(ctx, userID, false); err != nil {
		p.logger.Warn().Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to persist offline flag.")
	}

	p.logger.Info().
		Str("user_id", userID.String()).
		Str("conn_id", connID).
		Int("online_count", p.registry.Len()).
		Msg("User disconnected.")

	p.broadcastRoster()
}

// broadcastRoster pushes the full set of online user ids to every connection.
func (p *PresenceTracker) broadcastRoster() {
	p.emitter.Broadcast(EventOnlineUsers, p.registry.OnlineUsers())
}
