package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

func TestExtractProjectID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{"valid tree URI", "plantap://projects/42/tree", "/tree", "42"},
		{"valid favorites URI", "plantap://projects/42/favorites", "/favorites", "42"},
		{"invalid prefix", "file://projects/42/tree", "/tree", ""},
		{"missing suffix", "plantap://projects/42", "/tree", ""},
		{"nested path", "plantap://projects/42/x/tree", "/tree", ""},
		{"empty URI", "", "/tree", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProjectID(tt.uri, tt.suffix))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleProjectsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil list becomes empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("plantap://projects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.JSONEq(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns projects", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{projects: []string{"42", "7"}}})
		require.NoError(t, err)

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("plantap://projects"))

		require.NoError(t, err)
		assert.JSONEq(t, `["42","7"]`, result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("propagates errors", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{err: errors.New("boom")}})
		require.NoError(t, err)

		_, err = server.handleProjectsResource(ctx, makeReadResourceRequest("plantap://projects"))

		assert.Error(t, err)
	})
}

func TestServer_handleTreeResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tree", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{tree: sampleTree()}})
		require.NoError(t, err)

		uri := "plantap://projects/42/tree"
		result, err := server.handleTreeResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)

		var tree domain.Tree
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &tree))
		assert.Equal(t, 3, tree.Total)
		assert.Len(t, tree.Groups, 2)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		_, err = server.handleTreeResource(ctx, makeReadResourceRequest("plantap://projects/tree"))

		assert.Error(t, err)
	})
}

func TestServer_handleFavoritesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil favorites service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: &mockCatalogService{}})
		require.NoError(t, err)

		_, err = server.handleFavoritesResource(ctx, makeReadResourceRequest("plantap://projects/42/favorites"))

		assert.Error(t, err)
	})

	t.Run("returns folders", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Catalog: &mockCatalogService{},
			Favorites: &mockFavoritesService{folders: []domain.FavoriteFolder{
				{ID: "f-1", Name: "Site", Drawings: []string{"A-101"}},
			}},
		})
		require.NoError(t, err)

		result, err := server.handleFavoritesResource(ctx, makeReadResourceRequest("plantap://projects/42/favorites"))

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"f-1","name":"Site","drawings":["A-101"]}]`, result.Contents[0].Text)
	})
}
