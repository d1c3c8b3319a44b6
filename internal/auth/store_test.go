package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStore(db), mock
}

const (
	selectUserQuery = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*role,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
	insertUserQuery = `(?s)INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*role,\s*created_at\).*RETURNING`
)

func TestPostgresStore_FindByUsername(t *testing.T) {
	s, mock := newPostgresStoreWithMock(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
		AddRow(7, "john", "$2a$hash", "USER", created)
	mock.ExpectQuery(selectUserQuery).WithArgs("john").WillReturnRows(rows)

	u, err := s.FindByUsername(context.Background(), "john")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 7, Username: "john", PasswordHash: "$2a$hash", Role: RoleUser, CreatedAt: created}, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByUsername_NotFound(t *testing.T) {
	s, mock := newPostgresStoreWithMock(t)
	mock.ExpectQuery(selectUserQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := s.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresStore_FindByUsername_DBError(t *testing.T) {
	s, mock := newPostgresStoreWithMock(t)
	mock.ExpectQuery(selectUserQuery).WithArgs("john").WillReturnError(errors.New("db down"))

	_, err := s.FindByUsername(context.Background(), "john")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestPostgresStore_Save(t *testing.T) {
	s, mock := newPostgresStoreWithMock(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
		AddRow(1, "john", "$2a$hash", "ADMIN", created)
	mock.ExpectQuery(insertUserQuery).
		WithArgs("john", "$2a$hash", RoleAdmin, sqlmock.AnyArg()).
		WillReturnRows(rows)

	u, err := s.Save(context.Background(), &User{Username: "john", PasswordHash: "$2a$hash", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save_UniqueViolation(t *testing.T) {
	s, mock := newPostgresStoreWithMock(t)
	mock.ExpectQuery(insertUserQuery).
		WithArgs("john", "h", RoleUser, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err := s.Save(context.Background(), &User{Username: "john", PasswordHash: "h", Role: RoleUser})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}
