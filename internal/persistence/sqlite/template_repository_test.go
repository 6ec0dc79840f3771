package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/calendar-copilot/internal/persistence"
	"github.com/example/calendar-copilot/internal/testfixtures"
)

func TestTemplateRepositoryListsOnlySystemTemplates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewTemplateRepository(store)

	system, err := repo.CreateTemplate(ctx, testfixtures.NewTemplate(true))
	require.NoError(t, err)
	custom, err := repo.CreateTemplate(ctx, testfixtures.NewTemplate(false))
	require.NoError(t, err)

	templates, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, system.ID, templates[0].ID)

	// Non-default templates stay addressable by id even though the catalog
	// hides them.
	fetched, err := repo.GetTemplate(ctx, custom.ID)
	require.NoError(t, err)
	require.False(t, fetched.IsDefault)
}

func TestTemplateRepositoryGetMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewTemplateRepository(store)

	_, err := repo.GetTemplate(ctx, "nope")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = repo.GetTemplate(ctx, "")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestTemplateRepositoryDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewTemplateRepository(store)

	template := testfixtures.NewTemplate(true)
	_, err := repo.CreateTemplate(ctx, template)
	require.NoError(t, err)

	_, err = repo.CreateTemplate(ctx, template)
	require.ErrorIs(t, err, persistence.ErrDuplicate)
}
