package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

func TestServer_handleListDrawings(t *testing.T) {
	ctx := context.Background()

	t.Run("flattens groups in order", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{tree: sampleTree()}})
		require.NoError(t, err)

		_, output, err := server.handleListDrawings(ctx, nil, ListDrawingsInput{ProjectID: "42"})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.Equal(t, 3, output.Total)
		require.Len(t, output.Drawings, 3)
		assert.Equal(t, "A-101", output.Drawings[0].Number)
		assert.Equal(t, "Architectural", output.Drawings[0].Discipline)
		assert.NotEmpty(t, output.Drawings[0].URL)
		assert.Equal(t, "S-201", output.Drawings[2].Number)
		assert.Equal(t, "Structural", output.Drawings[2].Discipline)
	})

	t.Run("limit caps rows but not total", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{tree: sampleTree()}})
		require.NoError(t, err)

		_, output, err := server.handleListDrawings(ctx, nil, ListDrawingsInput{ProjectID: "42", Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 3, output.Total)
	})

	t.Run("empty catalog returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		_, output, err := server.handleListDrawings(ctx, nil, ListDrawingsInput{ProjectID: "9"})

		require.NoError(t, err)
		assert.NotNil(t, output.Drawings)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("returns error on catalog failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{err: errors.New("store down")}})
		require.NoError(t, err)

		_, _, err = server.handleListDrawings(ctx, nil, ListDrawingsInput{ProjectID: "42"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "store down")
	})
}

func TestServer_handleListDisciplines(t *testing.T) {
	ctx := context.Background()

	t.Run("returns disciplines", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{
			disciplines: []domain.Discipline{{ID: "7", Name: "Architectural", Index: 0}},
		}})
		require.NoError(t, err)

		_, output, err := server.handleListDisciplines(ctx, nil, ListDisciplinesInput{ProjectID: "42"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "Architectural", output.Disciplines[0].Name)
	})

	t.Run("nil becomes empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		_, output, err := server.handleListDisciplines(ctx, nil, ListDisciplinesInput{ProjectID: "42"})

		require.NoError(t, err)
		assert.NotNil(t, output.Disciplines)
		assert.Equal(t, 0, output.Count)
	})
}

func TestServer_handleFindDrawing(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves discipline from tree", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{
			tree:    sampleTree(),
			drawing: &domain.Drawing{ID: "1", Number: "A-101"},
		}})
		require.NoError(t, err)

		_, output, err := server.handleFindDrawing(ctx, nil, FindDrawingInput{ProjectID: "42", Number: "a-101"})

		require.NoError(t, err)
		assert.Equal(t, "A-101", output.Number)
		assert.Equal(t, domain.NoTitle, output.Title)
		assert.Equal(t, "Architectural", output.Discipline)
		assert.NotEmpty(t, output.URL)
	})

	t.Run("tree failure keeps inline discipline", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{
			treeErr: errors.New("decode"),
			drawing: &domain.Drawing{ID: "1", Number: "A-101", Title: "Plan", DisciplineName: "Arch"},
		}})
		require.NoError(t, err)

		_, output, err := server.handleFindDrawing(ctx, nil, FindDrawingInput{ProjectID: "42", Number: "A-101"})

		require.NoError(t, err)
		assert.Equal(t, "Arch", output.Discipline)
		assert.Empty(t, output.URL)
	})

	t.Run("not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		_, _, err = server.handleFindDrawing(ctx, nil, FindDrawingInput{ProjectID: "42", Number: "Z-1"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
