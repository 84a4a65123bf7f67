package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/plantap/internal/core/domain"
)

func newTestFavorites() *FavoritesService {
	s := NewFavoritesService(memory.NewKVStore())
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("f%d", n)
	}
	return s
}

func TestFavoritesService_Folders(t *testing.T) {
	ctx := context.Background()
	s := newTestFavorites()

	folders, err := s.List(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, folders)

	first, err := s.AddFolder(ctx, "42", "  Level 1 ")
	require.NoError(t, err)
	assert.Equal(t, domain.FavoriteFolder{ID: "f1", Name: "Level 1", Drawings: []string{}}, *first)

	_, err = s.AddFolder(ctx, "42", "Level 2")
	require.NoError(t, err)

	_, err = s.AddFolder(ctx, "42", "LEVEL 1")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = s.AddFolder(ctx, "42", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Other projects are independent.
	_, err = s.AddFolder(ctx, "77", "Level 1")
	require.NoError(t, err)

	folders, err = s.List(ctx, "42")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Level 1", folders[0].Name)
	assert.Equal(t, "Level 2", folders[1].Name)

	require.NoError(t, s.RemoveFolder(ctx, "42", "f1"))
	assert.ErrorIs(t, s.RemoveFolder(ctx, "42", "f1"), domain.ErrNotFound)

	folders, err = s.List(ctx, "42")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "f2", folders[0].ID)
}

func TestFavoritesService_Drawings(t *testing.T) {
	ctx := context.Background()
	s := newTestFavorites()
	folder, err := s.AddFolder(ctx, "42", "Level 1")
	require.NoError(t, err)

	added, err := s.AddDrawing(ctx, "42", folder.ID, "A-101")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddDrawing(ctx, "42", folder.ID, "A-101")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.AddDrawing(ctx, "42", folder.ID, "A-102")
	require.NoError(t, err)

	_, err = s.AddDrawing(ctx, "42", "missing", "A-101")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.AddDrawing(ctx, "42", folder.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, s.RemoveDrawing(ctx, "42", folder.ID, "A-101"))
	assert.ErrorIs(t, s.RemoveDrawing(ctx, "42", "missing", "A-101"), domain.ErrNotFound)

	folders, err := s.List(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-102"}, folders[0].Drawings)
}

func TestFavoritesService_RequiresProject(t *testing.T) {
	_, err := newTestFavorites().List(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFavoritesService_StoreFailure(t *testing.T) {
	store := newFlakyStore()
	s := NewFavoritesService(store)

	store.failNextSets(1)
	_, err := s.AddFolder(context.Background(), "42", "Level 1")

	assert.ErrorIs(t, err, errStoreDown)
}

func TestRecentsService(t *testing.T) {
	ctx := context.Background()
	s := NewRecentsService(memory.NewKVStore())

	list, err := s.List(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, num := range []string{"1", "2", "3", "4", "5", "6"} {
		_, err := s.Add(ctx, "42", num)
		require.NoError(t, err)
	}
	list, err = s.Add(ctx, "42", " 4 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "6", "5", "3", "2"}, list)

	stored, err := s.List(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, list, stored)

	_, err = s.Add(ctx, "42", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.List(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPreferencesService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	s := NewPreferencesService(store)

	prefs, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), prefs)

	off := false
	prefs, err = s.Save(ctx, domain.Preferences{SidebarWidth: 420, OpenNewTab: &off})
	require.NoError(t, err)
	assert.Equal(t, 420, prefs.SidebarWidth)
	assert.Equal(t, "50%", prefs.ButtonTop)
	assert.False(t, *prefs.OpenNewTab)

	prefs, err = s.Save(ctx, domain.Preferences{ButtonTop: "10%"})
	require.NoError(t, err)
	assert.Equal(t, 420, prefs.SidebarWidth)
	assert.False(t, *prefs.OpenNewTab)

	values, err := store.Get(ctx, domain.PreferencesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sidebarWidth": 420, "buttonTop": "10%", "openNewTab": false}`, string(values[domain.PreferencesKey]))

	_, err = s.Save(ctx, domain.Preferences{SidebarWidth: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
