package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"duochat/internal/app/model"
)

const userColumns = "id, email, name, avatar_url, online, created_at"

// CreateUser inserts a new account and returns it.
// A duplicate email surfaces as a unique violation (db.IsUniqueViolation).
func (s *Store) CreateUser(ctx context.Context, email, passwordHash, name string) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, passwordHash, name,
	).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Online, &u.CreatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUserByID fetches a single account by id.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Online, &u.CreatedAt)
	if err != nil {
		return model.User{}, mapNoRows(err)
	}
	return u, nil
}

// GetUserByEmail fetches an account together with its password hash, for login.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, string, error) {
	var u model.User
	var hash string
	err := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Online, &u.CreatedAt, &hash)
	if err != nil {
		return model.User{}, "", mapNoRows(err)
	}
	return u, hash, nil
}

// ListUsers returns all accounts, for the contact sidebar.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Online, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetUserOnline updates the persisted online flag. The flag is an
// eventually-consistent projection of registry membership.
func (s *Store) SetUserOnline(ctx context.Context, id uuid.UUID, online bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET online = $2, updated_at = now() WHERE id = $1`,
		id, online,
	)
	if err != nil {
		return fmt.Errorf("set user online: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserProfile updates the display name and/or avatar URL.
// Empty arguments leave the corresponding column untouched.
func (s *Store) UpdateUserProfile(ctx context.Context, id uuid.UUID, name, avatarURL string) (model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, `
		UPDATE users
		SET name       = COALESCE(NULLIF($2, ''), name),
		    avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, name, avatarURL,
	).Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Online, &u.CreatedAt)
	if err != nil {
		return model.User{}, mapNoRows(err)
	}
	return u, nil
}
