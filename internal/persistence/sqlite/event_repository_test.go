package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/calendar-copilot/internal/persistence"
	"github.com/example/calendar-copilot/internal/testfixtures"
)

func TestEventRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewEventRepository(store)

	description := "quarterly planning"
	start := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
	created, err := repo.CreateEvent(ctx, persistence.Event{
		ID:          "event-crud-1",
		UserID:      user.ID,
		Title:       "Planning",
		Description: &description,
		Start:       start,
		End:         start.Add(time.Hour),
		Color:       "chart-2",
		AllDay:      false,
	})
	require.NoError(t, err)
	require.Equal(t, "Planning", created.Title)
	require.NotNil(t, created.Description)
	require.Equal(t, description, *created.Description)
	require.True(t, created.Start.Equal(start))
	require.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.GetEvent(ctx, created.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, "chart-2", fetched.Color)

	newTitle := "Planning (moved)"
	newStart := start.Add(2 * time.Hour)
	updated, err := repo.UpdateEvent(ctx, created.ID, user.ID, persistence.EventPatch{
		Title: &newTitle,
		Start: &newStart,
	})
	require.NoError(t, err)
	require.Equal(t, newTitle, updated.Title)
	require.True(t, updated.Start.Equal(newStart))
	require.True(t, updated.End.Equal(start.Add(time.Hour)), "unpatched fields stay unchanged")

	require.NoError(t, repo.DeleteEvent(ctx, created.ID, user.ID))
	_, err = repo.GetEvent(ctx, created.ID, user.ID)
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestEventRepositoryAllowsInvertedInterval(t *testing.T) {
	// The store does not police interval ordering; callers decide what an
	// inverted window means.
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewEventRepository(store)

	start := time.Date(2025, time.March, 11, 10, 0, 0, 0, time.UTC)
	created, err := repo.CreateEvent(ctx, persistence.Event{
		ID:     "event-inverted",
		UserID: user.ID,
		Title:  "Inverted",
		Start:  start,
		End:    start.Add(-time.Hour),
		Color:  "chart-1",
	})
	require.NoError(t, err)
	require.True(t, created.End.Before(created.Start))
}

func TestEventRepositoryTruncatesSubSecondTimestamps(t *testing.T) {
	// Storage keeps whole-second precision; variable-length fractional
	// seconds would break the lexicographic ordering of the time columns.
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewEventRepository(store)

	start := time.Date(2025, time.March, 15, 9, 0, 0, 123456789, time.UTC)
	created, err := repo.CreateEvent(ctx, persistence.Event{
		ID:     "event-subsecond",
		UserID: user.ID,
		Title:  "Subsecond",
		Start:  start,
		End:    start.Add(time.Hour),
		Color:  "chart-1",
	})
	require.NoError(t, err)
	require.True(t, created.Start.Equal(start.Truncate(time.Second)))

	fetched, err := repo.GetEvent(ctx, created.ID, user.ID)
	require.NoError(t, err)
	require.True(t, fetched.Start.Equal(start.Truncate(time.Second)))
	require.True(t, fetched.End.Equal(start.Truncate(time.Second).Add(time.Hour)))
}

func TestEventRepositoryRangeFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewEventRepository(store)

	base := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	insert := func(id string, startOffset, endOffset time.Duration) {
		t.Helper()
		_, err := repo.CreateEvent(ctx, persistence.Event{
			ID:     id,
			UserID: user.ID,
			Title:  id,
			Start:  base.Add(startOffset),
			End:    base.Add(endOffset),
			Color:  "chart-1",
		})
		require.NoError(t, err)
	}

	insert("before", -3*time.Hour, -2*time.Hour)
	insert("overlap-start", -time.Hour, 30*time.Minute)
	insert("inside", time.Hour, 2*time.Hour)
	insert("overlap-end", 3*time.Hour, 5*time.Hour)
	insert("after", 6*time.Hour, 7*time.Hour)

	from := base
	to := base.Add(4 * time.Hour)
	events, err := repo.ListEvents(ctx, user.ID, persistence.EventFilter{From: &from, To: &to})
	require.NoError(t, err)

	ids := make([]string, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	require.Equal(t, []string{"overlap-start", "inside", "overlap-end"}, ids,
		"any event intersecting the window matches, ordered by start time")
}

func TestEventRepositoryScopesByOwner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	owner := seedUser(t, store)
	other := seedUser(t, store)
	repo := NewEventRepository(store)

	created, err := repo.CreateEvent(ctx, testfixtures.NewEvent(testfixtures.WithEventOwner(owner.ID)))
	require.NoError(t, err)

	_, err = repo.GetEvent(ctx, created.ID, other.ID)
	require.ErrorIs(t, err, persistence.ErrNotFound, "foreign rows read as absent")

	title := "hijacked"
	_, err = repo.UpdateEvent(ctx, created.ID, other.ID, persistence.EventPatch{Title: &title})
	require.ErrorIs(t, err, persistence.ErrNotFound)

	err = repo.DeleteEvent(ctx, created.ID, other.ID)
	require.ErrorIs(t, err, persistence.ErrNotFound)

	fetched, err := repo.GetEvent(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, created.Title, fetched.Title, "foreign access attempts leave the row untouched")

	mine, err := repo.ListEvents(ctx, other.ID, persistence.EventFilter{})
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestEventRepositoryReplaceAllEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	bystander := seedUser(t, store)
	repo := NewEventRepository(store)

	_, err := repo.CreateEvent(ctx, testfixtures.NewEvent(testfixtures.WithEventOwner(user.ID)))
	require.NoError(t, err)
	kept, err := repo.CreateEvent(ctx, testfixtures.NewEvent(testfixtures.WithEventOwner(bystander.ID)))
	require.NoError(t, err)

	start := time.Date(2025, time.March, 13, 8, 0, 0, 0, time.UTC)
	replacement := []persistence.Event{
		{ID: "replaced-1", Title: "Morning block", Start: start, End: start.Add(time.Hour), Color: "chart-1"},
		{ID: "replaced-2", Title: "Afternoon block", Start: start.Add(5 * time.Hour), End: start.Add(6 * time.Hour), Color: "chart-3"},
	}

	stored, err := repo.ReplaceAllEvents(ctx, user.ID, replacement)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "replaced-1", stored[0].ID)
	require.Equal(t, user.ID, stored[0].UserID)

	others, err := repo.ListEvents(ctx, bystander.ID, persistence.EventFilter{})
	require.NoError(t, err)
	require.Len(t, others, 1)
	require.Equal(t, kept.ID, others[0].ID, "other owners are untouched by a replace")
}

func TestEventRepositoryReplaceAllEventsRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewEventRepository(store)

	original, err := repo.CreateEvent(ctx, testfixtures.NewEvent(testfixtures.WithEventOwner(user.ID)))
	require.NoError(t, err)

	start := time.Date(2025, time.March, 14, 8, 0, 0, 0, time.UTC)
	// Duplicate primary key forces a failure after the delete and first
	// insert have already run inside the transaction.
	broken := []persistence.Event{
		{ID: "dup", Title: "First", Start: start, End: start.Add(time.Hour), Color: "chart-1"},
		{ID: "dup", Title: "Second", Start: start.Add(time.Hour), End: start.Add(2 * time.Hour), Color: "chart-1"},
	}

	_, err = repo.ReplaceAllEvents(ctx, user.ID, broken)
	require.ErrorIs(t, err, persistence.ErrDuplicate)

	remaining, err := repo.ListEvents(ctx, user.ID, persistence.EventFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, original.ID, remaining[0].ID, "failed replace leaves the prior set intact")
}

func TestEventRepositoryConstraints(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	user := seedUser(t, store)
	repo := NewEventRepository(store)

	_, err := repo.CreateEvent(ctx, persistence.Event{
		ID:     "bad-color",
		UserID: user.ID,
		Title:  "Bad color",
		Start:  time.Now(),
		End:    time.Now().Add(time.Hour),
		Color:  "magenta",
	})
	require.ErrorIs(t, err, persistence.ErrConstraintViolation)

	_, err = repo.CreateEvent(ctx, persistence.Event{
		ID:     "orphan",
		UserID: "no-such-user",
		Title:  "Orphan",
		Start:  time.Now(),
		End:    time.Now().Add(time.Hour),
		Color:  "chart-1",
	})
	require.ErrorIs(t, err, persistence.ErrForeignKeyViolation)
}
