package driving

import (
	"context"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// FavoritesService manages user-curated drawing folders.
type FavoritesService interface {
	// List returns the project's folders.
	List(ctx context.Context, projectID string) ([]domain.FavoriteFolder, error)

	// AddFolder creates a folder and returns it.
	AddFolder(ctx context.Context, projectID, name string) (*domain.FavoriteFolder, error)

	// RemoveFolder deletes a folder.
	RemoveFolder(ctx context.Context, projectID, folderID string) error

	// AddDrawing puts a drawing number in a folder.
	// It reports false when the folder already held it.
	AddDrawing(ctx context.Context, projectID, folderID, number string) (bool, error)

	// RemoveDrawing takes a drawing number out of a folder.
	RemoveDrawing(ctx context.Context, projectID, folderID, number string) error
}

// RecentsService tracks recently opened drawings.
type RecentsService interface {
	// Add records a drawing as most recently opened.
	Add(ctx context.Context, projectID, number string) ([]string, error)

	// List returns recent drawing numbers, most recent first.
	List(ctx context.Context, projectID string) ([]string, error)
}

// PreferencesService manages the global preferences.
type PreferencesService interface {
	// Get returns stored preferences over the defaults.
	Get(ctx context.Context) (domain.Preferences, error)

	// Save merges the set fields of update into the stored preferences.
	Save(ctx context.Context, update domain.Preferences) (domain.Preferences, error)
}
