package tui

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
)

var (
	_ driving.CatalogService = (*mockCatalog)(nil)
	_ driving.RecentsService = (*mockRecents)(nil)
	_ driving.CaptureService = (*mockCapture)(nil)
)

type mockCatalog struct {
	state domain.RenderState
	err   error
}

func (m *mockCatalog) State(_ context.Context, projectID string) (domain.RenderState, error) {
	if m.err != nil {
		return domain.RenderState{}, m.err
	}
	if m.state.Kind == "" {
		return domain.EmptyState(projectID), nil
	}
	return m.state, nil
}

func (m *mockCatalog) Tree(context.Context, string, string) (*domain.Tree, error) {
	return &domain.Tree{}, m.err
}

func (m *mockCatalog) Disciplines(context.Context, string) ([]domain.Discipline, error) {
	return nil, m.err
}

func (m *mockCatalog) Find(context.Context, string, string) (*domain.Drawing, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCatalog) Projects(context.Context) ([]string, error) {
	return nil, m.err
}

type mockRecents struct {
	mu    sync.Mutex
	added []string
	err   error
}

func (m *mockRecents) Add(_ context.Context, _ string, number string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.added = append([]string{number}, m.added...)
	return append([]string(nil), m.added...), nil
}

func (m *mockRecents) List(context.Context, string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.added...), nil
}

type mockCapture struct {
	status *domain.BufferStatus
}

func (m *mockCapture) Accept(context.Context, domain.CaptureEnvelope) error { return nil }
func (m *mockCapture) Run(context.Context) error                           { return nil }
func (m *mockCapture) Flush(context.Context) error                         { return nil }
func (m *mockCapture) Close(context.Context) error                         { return nil }

func (m *mockCapture) Status(context.Context, string) (*domain.BufferStatus, error) {
	return m.status, nil
}

// dataState is a DATA state for project 42 with two disciplines.
func dataState() domain.RenderState {
	return domain.RenderState{
		Kind:      domain.RenderData,
		ProjectID: "42",
		AreaID:    "9",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Drawings: []domain.Drawing{
			{ID: "2", Number: "A-102", Title: "Roof Plan", Discipline: domain.DisciplineRef{ID: "7"}},
			{ID: "1", Number: "A-101", Title: "Floor Plan", Discipline: domain.DisciplineRef{ID: "7"}},
			{ID: "3", Number: "S-201", Title: "Framing", Discipline: domain.DisciplineRef{ID: "8"}},
		},
		Disciplines: domain.DisciplineMap{
			"7": {Name: "Architectural", Index: 0},
			"8": {Name: "Structural", Index: 1},
		},
	}
}
