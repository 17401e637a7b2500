/*
Package chat contains the realtime core: the connection registry, presence
tracking, event routing, and the coordinators that persist and fan out
messages, typing signals, and seen receipts to live connections.
*/
package chat

import (
	"sync"

	"github.com/google/uuid"
)

// ConnectionRegistry is the process-wide mapping from user id to the id of
// that user's single live connection. It is the only server-local mutable
// shared structure in the core; all access is serialized by the mutex.
//
// A user has at most one entry. Registering a new connection for the same
// user supersedes the old one (last-write-wins), and a stale unregister from
// a superseded connection never evicts the newer registration.
type ConnectionRegistry struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]string
	byConn map[string]uuid.UUID
}

// NewConnectionRegistry returns an empty registry. The composition root owns
// the instance and injects it into the coordinators, so tests can run
// independent copies.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		byUser: make(map[uuid.UUID]string),
		byConn: make(map[string]uuid.UUID),
	}
}

// Register upserts the user -> connection mapping. If the user already had a
// live connection, its id is returned with superseded=true so the caller can
// close it.
func (r *ConnectionRegistry) Register(userID uuid.UUID, connID string) (old string, superseded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, superseded = r.byUser[userID]
	if superseded {
		if old == connID {
			return "", false
		}
		delete(r.byConn, old)
	}

	r.byUser[userID] = connID
	r.byConn[connID] = userID
	return old, superseded
}

// Unregister removes the mapping owned by connID. The reverse index makes the
// lookup O(1), and the forward entry is removed only if it still points at
// this exact connection: a late-arriving disconnect from a superseded
// connection must not evict the newer one.
func (r *ConnectionRegistry) Unregister(connID string) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return uuid.Nil, false
	}

	delete(r.byConn, connID)

	if current, ok := r.byUser[userID]; ok && current == connID {
		delete(r.byUser, userID)
		return userID, true
	}

	return uuid.Nil, false
}

// Lookup returns the live connection id for the user, if any. Pure read.
func (r *ConnectionRegistry) Lookup(userID uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.byUser[userID]
	return connID, ok
}

// OnlineUsers returns a snapshot of every user id with a live connection.
func (r *ConnectionRegistry) OnlineUsers() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(r.byUser))
	for id := range r.byUser {
		users = append(users, id)
	}
	return users
}

// Len returns the number of registered users.
func (r *ConnectionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byUser)
}
