package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"mnps-api/internal/auth"
)

func TestSeederIsIdempotent(t *testing.T) {
	t.Parallel()

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	users := newFakeUserStore()
	results := &fakeResultStore{}
	broadcasts := &fakeBroadcastStore{}
	seeder := NewSeeder(users, results, broadcasts, hasher)

	report, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, SeedReport{Users: 3, Results: 2, Broadcasts: 2}, report)

	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.True(t, hasher.Verify("admin123", admin.PasswordHash))

	report, err = seeder.Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, SeedReport{}, report)
	require.Len(t, users.users, 3)
	require.Len(t, results.results, 2)
	require.Len(t, broadcasts.broadcasts, 2)
}
