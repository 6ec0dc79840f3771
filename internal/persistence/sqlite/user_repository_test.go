package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/calendar-copilot/internal/persistence"
	"github.com/example/calendar-copilot/internal/testfixtures"
)

func TestUserRepositoryUpsertAndLookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewUserRepository(store)

	user := testfixtures.NewUser(testfixtures.WithUserEmail("  Mixed.Case@Example.COM "))
	stored, err := repo.UpsertUser(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "mixed.case@example.com", stored.Email, "emails are normalized on write")

	byID, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, stored.Email, byID.Email)

	byEmail, err := repo.GetUserByEmail(ctx, "MIXED.CASE@example.com ")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID, "lookup normalizes the same way as writes")
}

func TestUserRepositoryUpsertPreservesPasswordHash(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewUserRepository(store)

	user := testfixtures.NewUser(testfixtures.WithPasswordHash("original-hash"))
	_, err := repo.UpsertUser(ctx, user)
	require.NoError(t, err)

	refresh := user
	refresh.PasswordHash = ""
	refresh.FirstName = "Renamed"
	updated, err := repo.UpsertUser(ctx, refresh)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.FirstName)
	require.Equal(t, "original-hash", updated.PasswordHash, "empty hash leaves credentials alone")

	rotate := user
	rotate.PasswordHash = "new-hash"
	updated, err = repo.UpsertUser(ctx, rotate)
	require.NoError(t, err)
	require.Equal(t, "new-hash", updated.PasswordHash)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewUserRepository(store)

	first := testfixtures.NewUser(testfixtures.WithUserEmail("taken@example.com"))
	_, err := repo.UpsertUser(ctx, first)
	require.NoError(t, err)

	second := testfixtures.NewUser(testfixtures.WithUserEmail("taken@example.com"))
	_, err = repo.UpsertUser(ctx, second)
	require.ErrorIs(t, err, persistence.ErrDuplicate)
}

func TestUserRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewUserRepository(store)

	_, err := repo.GetUser(ctx, "ghost")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = repo.GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}
