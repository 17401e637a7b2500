/*
Package store implements the durable persistence layer on PostgreSQL via pgx.

It is the system of record for users, chats, and messages. Every method is
safe for concurrent invocation; single-statement writes rely on the database
for atomicity.
*/
package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store executes all database queries against a shared pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a Store backed by the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// mapNoRows converts pgx.ErrNoRows into ErrNotFound and passes other errors through.
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
