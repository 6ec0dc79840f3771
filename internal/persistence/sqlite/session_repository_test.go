package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/calendar-copilot/internal/persistence"
	"github.com/example/calendar-copilot/internal/testfixtures"
)

func TestSessionRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewSessionRepository(store)

	session := testfixtures.NewSession(user.ID)
	created, err := repo.CreateSession(ctx, session)
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.GetSession(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, session.ID, fetched.ID)
	require.Nil(t, fetched.RevokedAt)

	revokedAt := time.Now().UTC().Truncate(time.Second)
	revoked, err := repo.RevokeSession(ctx, session.Token, revokedAt)
	require.NoError(t, err)
	require.NotNil(t, revoked.RevokedAt)
	require.True(t, revoked.RevokedAt.Equal(revokedAt))
}

func TestSessionRepositoryTokenUniqueness(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewSessionRepository(store)

	session := testfixtures.NewSession(user.ID)
	_, err := repo.CreateSession(ctx, session)
	require.NoError(t, err)

	clash := testfixtures.NewSession(user.ID)
	clash.Token = session.Token
	_, err = repo.CreateSession(ctx, clash)
	require.ErrorIs(t, err, persistence.ErrDuplicate)
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewSessionRepository(store)

	now := time.Now().UTC().Truncate(time.Second)

	expired := testfixtures.NewSession(user.ID)
	expired.ExpiresAt = now.Add(-time.Hour)
	_, err := repo.CreateSession(ctx, expired)
	require.NoError(t, err)

	active := testfixtures.NewSession(user.ID)
	active.ExpiresAt = now.Add(time.Hour)
	_, err = repo.CreateSession(ctx, active)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteExpiredSessions(ctx, now))

	_, err = repo.GetSession(ctx, expired.Token)
	require.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = repo.GetSession(ctx, active.Token)
	require.NoError(t, err)
}

func TestSessionRepositoryMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewSessionRepository(store)

	_, err := repo.GetSession(ctx, "missing-token")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = repo.RevokeSession(ctx, "missing-token", time.Now())
	require.ErrorIs(t, err, persistence.ErrNotFound)
}
