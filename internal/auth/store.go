package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// UserStore is the user-lookup and user-persist capability the
// authenticator and the request filter depend on.
type UserStore interface {
	// FindByUsername returns ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Save inserts u and returns the stored record. It returns
	// ErrDuplicateUser if the username is taken.
	Save(ctx context.Context, u *User) (*User, error)
}

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	const q = `SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`
	row := s.db.QueryRowContext(ctx, q, username)
	u := &User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Save(ctx context.Context, in *User) (*User, error) {
	const q = `
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, role, created_at
	`
	u := &User{}
	if err := s.db.QueryRowContext(ctx, q, in.Username, in.PasswordHash, in.Role, time.Now().UTC()).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}
