package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for plantap resources.
	uriScheme = "plantap://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "projects",
		Name:        "projects",
		Description: "Projects with a captured drawing catalog",
		MIMEType:    "application/json",
	}, s.handleProjectsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/tree",
		Name:        "project-tree",
		Description: "Drawings of a project grouped by discipline",
		MIMEType:    "application/json",
	}, s.handleTreeResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "projects/{projectId}/favorites",
		Name:        "project-favorites",
		Description: "Favorite drawing folders of a project",
		MIMEType:    "application/json",
	}, s.handleFavoritesResource)
}

func (s *Server) handleProjectsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	projects, err := s.ports.Catalog.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if projects == nil {
		projects = []string{}
	}
	return jsonResult(req.Params.URI, projects)
}

// handleTreeResource returns the grouped catalog of a project.
func (s *Server) handleTreeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// plantap://projects/{projectId}/tree
	projectID := extractProjectID(req.Params.URI, "/tree")
	if projectID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tree, err := s.ports.Catalog.Tree(ctx, projectID, "")
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}
	return jsonResult(req.Params.URI, tree)
}

func (s *Server) handleFavoritesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Favorites == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	projectID := extractProjectID(req.Params.URI, "/favorites")
	if projectID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	folders, err := s.ports.Favorites.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return jsonResult(req.Params.URI, folders)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractProjectID extracts the project ID from a URI like
// plantap://projects/{projectId}<suffix>.
func extractProjectID(uri, suffix string) string {
	const prefix = uriScheme + "projects/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
