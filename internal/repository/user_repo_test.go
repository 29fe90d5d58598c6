package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"mnps-api/internal/model"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "role", "full_name", "is_active", "created_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	createdAt := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM users WHERE lower\(username\) = lower\(\$1\)`).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow(int64(1), "admin", "admin@mayowaschool.edu.ng", "$2b$12$hash", "admin", "System Administrator", true, createdAt))

	user, err := NewUserRepository(mock).FindByUsername(context.Background(), "  admin ")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "admin", user.Username)
	require.Equal(t, "$2b$12$hash", user.PasswordHash)
	require.True(t, user.IsActive)
	require.Equal(t, createdAt, user.CreatedAt)
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectQuery(`FROM users WHERE`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := NewUserRepository(mock).FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserRepositoryFindByUsernameWrapsErrors(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectQuery(`FROM users WHERE`).WithArgs("admin").WillReturnError(errors.New("db down"))

	_, err := NewUserRepository(mock).FindByUsername(context.Background(), "admin")
	require.EqualError(t, err, "find user by username: db down")
}

func TestUserRepositoryCreate(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	createdAt := time.Now().UTC().Truncate(time.Second)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("teacher001", "teacher001@mayowaschool.edu.ng", "hash", "teacher", "Jane Smith", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), createdAt))

	user, err := NewUserRepository(mock).Create(context.Background(), model.User{
		Username:     "teacher001",
		Email:        "teacher001@mayowaschool.edu.ng",
		PasswordHash: "hash",
		Role:         "teacher",
		FullName:     "Jane Smith",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), user.ID)
	require.Equal(t, createdAt, user.CreatedAt)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("admin", "admin@example.com", "hash", "admin", "Admin", true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := NewUserRepository(mock).Create(context.Background(), model.User{
		Username: "admin", Email: "admin@example.com", PasswordHash: "hash", Role: "admin", FullName: "Admin", IsActive: true,
	})
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestUserRepositoryExistsByUsernameOrEmail(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("admin", "other@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewUserRepository(mock).ExistsByUsernameOrEmail(context.Background(), "admin", "other@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}
