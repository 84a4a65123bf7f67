package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

type mockCatalog struct {
	trees       map[string]*domain.Tree
	disciplines map[string][]domain.Discipline
	drawings    map[string]domain.Drawing
	err         error
	lastFilter  string
}

func (m *mockCatalog) State(_ context.Context, projectID string) (domain.RenderState, error) {
	return domain.EmptyState(projectID), m.err
}

func (m *mockCatalog) Tree(_ context.Context, projectID, filter string) (*domain.Tree, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	if tree, ok := m.trees[projectID]; ok {
		return tree, nil
	}
	return &domain.Tree{ProjectID: projectID, Groups: []domain.Group{}}, nil
}

func (m *mockCatalog) Disciplines(_ context.Context, projectID string) ([]domain.Discipline, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.disciplines[projectID], nil
}

func (m *mockCatalog) Find(_ context.Context, _, number string) (*domain.Drawing, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.drawings[number]
	if !ok {
		return nil, fmt.Errorf("drawing %s: %w", number, domain.ErrNotFound)
	}
	return &d, nil
}

func (m *mockCatalog) Projects(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	projects := make([]string, 0, len(m.trees))
	for pid := range m.trees {
		projects = append(projects, pid)
	}
	return projects, nil
}

type mockCapture struct {
	mu       sync.Mutex
	accepted []domain.CaptureEnvelope
	err      error
}

func (m *mockCapture) Accept(_ context.Context, env domain.CaptureEnvelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.accepted = append(m.accepted, env)
	return nil
}

func (m *mockCapture) Run(context.Context) error   { return nil }
func (m *mockCapture) Flush(context.Context) error { return nil }
func (m *mockCapture) Close(context.Context) error { return nil }

func (m *mockCapture) Status(_ context.Context, projectID string) (*domain.BufferStatus, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	return &domain.BufferStatus{ProjectID: projectID, StateName: domain.BufferIdle.String(), Stored: 3}, nil
}
