package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

// Ensure the user-data services implement their interfaces.
var (
	_ driving.FavoritesService   = (*FavoritesService)(nil)
	_ driving.RecentsService     = (*RecentsService)(nil)
	_ driving.PreferencesService = (*PreferencesService)(nil)
)

// FavoritesService stores favorite folders under each project's favorites key.
type FavoritesService struct {
	store driven.KVStore
	newID func() string
}

// NewFavoritesService creates a favorites service.
func NewFavoritesService(store driven.KVStore) *FavoritesService {
	return &FavoritesService{
		store: store,
		newID: func() string { return uuid.New().String() },
	}
}

// List returns the project's folders in creation order.
func (s *FavoritesService) List(ctx context.Context, projectID string) ([]domain.FavoriteFolder, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	folders := []domain.FavoriteFolder{}
	if _, err := loadJSON(ctx, s.store, domain.ProjectKey(projectID, domain.PurposeFavorites), &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// AddFolder creates an empty folder. Names must be unique within a project.
func (s *FavoritesService) AddFolder(ctx context.Context, projectID, name string) (*domain.FavoriteFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", domain.ErrInvalidInput)
	}
	folders, err := s.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		if strings.EqualFold(f.Name, name) {
			return nil, fmt.Errorf("folder %q: %w", name, domain.ErrAlreadyExists)
		}
	}

	folder := domain.FavoriteFolder{ID: s.newID(), Name: name, Drawings: []string{}}
	folders = append(folders, folder)
	if err := s.save(ctx, projectID, folders); err != nil {
		return nil, err
	}
	return &folder, nil
}

// RemoveFolder deletes a folder by id.
func (s *FavoritesService) RemoveFolder(ctx context.Context, projectID, folderID string) error {
	folders, err := s.List(ctx, projectID)
	if err != nil {
		return err
	}
	i := indexOfFolder(folders, folderID)
	if i < 0 {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	folders = append(folders[:i], folders[i+1:]...)
	return s.save(ctx, projectID, folders)
}

// AddDrawing appends a drawing number to a folder unless it is already there.
func (s *FavoritesService) AddDrawing(ctx context.Context, projectID, folderID, number string) (bool, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return false, fmt.Errorf("%w: drawing number is required", domain.ErrInvalidInput)
	}
	folders, err := s.List(ctx, projectID)
	if err != nil {
		return false, err
	}
	i := indexOfFolder(folders, folderID)
	if i < 0 {
		return false, fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	if folders[i].Contains(number) {
		return false, nil
	}
	folders[i].Drawings = append(folders[i].Drawings, number)
	return true, s.save(ctx, projectID, folders)
}

// RemoveDrawing takes a drawing number out of a folder.
func (s *FavoritesService) RemoveDrawing(ctx context.Context, projectID, folderID, number string) error {
	folders, err := s.List(ctx, projectID)
	if err != nil {
		return err
	}
	i := indexOfFolder(folders, folderID)
	if i < 0 {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	kept := folders[i].Drawings[:0]
	for _, d := range folders[i].Drawings {
		if d != number {
			kept = append(kept, d)
		}
	}
	folders[i].Drawings = kept
	return s.save(ctx, projectID, folders)
}

func (s *FavoritesService) save(ctx context.Context, projectID string, folders []domain.FavoriteFolder) error {
	return saveJSON(ctx, s.store, domain.ProjectKey(projectID, domain.PurposeFavorites), folders)
}

func indexOfFolder(folders []domain.FavoriteFolder, id string) int {
	for i, f := range folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// RecentsService keeps the last few drawings opened in each project.
type RecentsService struct {
	store driven.KVStore
}

// NewRecentsService creates a recents service.
func NewRecentsService(store driven.KVStore) *RecentsService {
	return &RecentsService{store: store}
}

// Add moves number to the front and trims the list to domain.MaxRecents.
func (s *RecentsService) Add(ctx context.Context, projectID, number string) ([]string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("%w: drawing number is required", domain.ErrInvalidInput)
	}
	recents, err := s.List(ctx, projectID)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, domain.MaxRecents)
	updated = append(updated, number)
	for _, r := range recents {
		if r != number && len(updated) < domain.MaxRecents {
			updated = append(updated, r)
		}
	}
	if err := saveJSON(ctx, s.store, domain.ProjectKey(projectID, domain.PurposeRecents), updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// List returns recent drawing numbers, most recent first.
func (s *RecentsService) List(ctx context.Context, projectID string) ([]string, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	recents := []string{}
	if _, err := loadJSON(ctx, s.store, domain.ProjectKey(projectID, domain.PurposeRecents), &recents); err != nil {
		return nil, err
	}
	return recents, nil
}

// PreferencesService stores the global preferences under a single key.
type PreferencesService struct {
	store driven.KVStore
}

// NewPreferencesService creates a preferences service.
func NewPreferencesService(store driven.KVStore) *PreferencesService {
	return &PreferencesService{store: store}
}

// Get returns the stored preferences laid over the defaults.
func (s *PreferencesService) Get(ctx context.Context) (domain.Preferences, error) {
	var stored domain.Preferences
	if _, err := loadJSON(ctx, s.store, domain.PreferencesKey, &stored); err != nil {
		return domain.Preferences{}, err
	}
	return domain.DefaultPreferences().Merge(stored), nil
}

// Save merges the set fields of update and stores the result.
func (s *PreferencesService) Save(ctx context.Context, update domain.Preferences) (domain.Preferences, error) {
	if update.SidebarWidth < 0 {
		return domain.Preferences{}, fmt.Errorf("%w: sidebar width must not be negative", domain.ErrInvalidInput)
	}
	current, err := s.Get(ctx)
	if err != nil {
		return domain.Preferences{}, err
	}
	merged := current.Merge(update)
	if err := saveJSON(ctx, s.store, domain.PreferencesKey, merged); err != nil {
		return domain.Preferences{}, err
	}
	return merged, nil
}
