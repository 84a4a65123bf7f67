package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// ListDrawingsInput is the input schema for the list_drawings tool.
type ListDrawingsInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project whose catalog to list"`
	Query     string `json:"query,omitempty" jsonschema:"optional case-insensitive filter on drawing number or title"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of drawings to return (default 100)"`
}

// ListDrawingsOutput is the output schema for the list_drawings tool.
type ListDrawingsOutput struct {
	Drawings []DrawingOutput `json:"drawings"`
	Count    int             `json:"count"`
	Total    int             `json:"total"`
}

// DrawingOutput represents a single drawing row.
type DrawingOutput struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Title      string `json:"title"`
	Discipline string `json:"discipline"`
	URL        string `json:"url,omitempty"`
}

// ListDisciplinesInput is the input schema for the list_disciplines tool.
type ListDisciplinesInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project whose disciplines to list"`
}

// ListDisciplinesOutput is the output schema for the list_disciplines tool.
type ListDisciplinesOutput struct {
	Disciplines []domain.Discipline `json:"disciplines"`
	Count       int                 `json:"count"`
}

// FindDrawingInput is the input schema for the find_drawing tool.
type FindDrawingInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project to search"`
	Number    string `json:"number" jsonschema:"the drawing number, e.g. A-101"`
}

const defaultDrawingLimit = 100

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_drawings",
		Description: "List the captured drawings of a project, in discipline order",
	}, s.handleListDrawings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_disciplines",
		Description: "List the disciplines of a project in display order",
	}, s.handleListDisciplines)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_drawing",
		Description: "Look up one drawing by its number",
	}, s.handleFindDrawing)
}

// handleListDrawings flattens the grouped tree into rows.
func (s *Server) handleListDrawings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDrawingsInput,
) (*mcp.CallToolResult, ListDrawingsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultDrawingLimit
	}

	tree, err := s.ports.Catalog.Tree(ctx, input.ProjectID, input.Query)
	if err != nil {
		return nil, ListDrawingsOutput{}, err
	}

	output := ListDrawingsOutput{
		Drawings: []DrawingOutput{},
		Total:    tree.Total,
	}
	for _, group := range tree.Groups {
		for _, item := range group.Items {
			if len(output.Drawings) == limit {
				break
			}
			output.Drawings = append(output.Drawings, DrawingOutput{
				ID:         item.ID,
				Number:     item.Number,
				Title:      item.Title,
				Discipline: group.Name,
				URL:        item.URL,
			})
		}
	}
	output.Count = len(output.Drawings)

	return nil, output, nil
}

func (s *Server) handleListDisciplines(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDisciplinesInput,
) (*mcp.CallToolResult, ListDisciplinesOutput, error) {
	list, err := s.ports.Catalog.Disciplines(ctx, input.ProjectID)
	if err != nil {
		return nil, ListDisciplinesOutput{}, err
	}
	if list == nil {
		list = []domain.Discipline{}
	}
	return nil, ListDisciplinesOutput{Disciplines: list, Count: len(list)}, nil
}

// handleFindDrawing looks the drawing up, then places it in the tree to
// report its resolved discipline and link.
func (s *Server) handleFindDrawing(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindDrawingInput,
) (*mcp.CallToolResult, DrawingOutput, error) {
	d, err := s.ports.Catalog.Find(ctx, input.ProjectID, input.Number)
	if err != nil {
		return nil, DrawingOutput{}, fmt.Errorf("finding %s: %w", input.Number, err)
	}
	output := DrawingOutput{
		ID:         d.ID,
		Number:     d.Number,
		Title:      d.DisplayTitle(),
		Discipline: d.InlineDisciplineName(),
	}

	tree, err := s.ports.Catalog.Tree(ctx, input.ProjectID, d.Number)
	if err != nil {
		return nil, output, nil
	}
	for _, group := range tree.Groups {
		for _, item := range group.Items {
			if item.ID == d.ID {
				output.Discipline = group.Name
				output.URL = item.URL
			}
		}
	}
	return nil, output, nil
}
