package domain

import "time"

// RenderKind tells the presentation layer which view to show.
type RenderKind string

// Render kinds.
const (
	RenderLoading RenderKind = "LOADING"
	RenderEmpty   RenderKind = "EMPTY"
	RenderData    RenderKind = "DATA"
)

// RenderState is what the core hands to the presentation layer.
// Only DATA states carry drawings.
type RenderState struct {
	Kind        RenderKind    `json:"kind"`
	ProjectID   string        `json:"projectId,omitempty"`
	AreaID      string        `json:"areaId,omitempty"`
	Timestamp   time.Time     `json:"timestamp,omitzero"`
	Drawings    []Drawing     `json:"drawings,omitempty"`
	Disciplines DisciplineMap `json:"disciplines,omitempty"`
}

// LoadingState returns a LOADING state for a project.
func LoadingState(projectID string) RenderState {
	return RenderState{Kind: RenderLoading, ProjectID: projectID}
}

// EmptyState returns an EMPTY state for a project.
func EmptyState(projectID string) RenderState {
	return RenderState{Kind: RenderEmpty, ProjectID: projectID}
}

// DataState returns a DATA state built from a stored cache and discipline map.
func DataState(projectID string, cache *ProjectCache, disciplines DisciplineMap) RenderState {
	return RenderState{
		Kind:        RenderData,
		ProjectID:   projectID,
		AreaID:      cache.DrawingAreaID,
		Timestamp:   cache.Timestamp,
		Drawings:    cache.Drawings,
		Disciplines: disciplines,
	}
}

// Tree is the grouped, ordered catalog of a project.
type Tree struct {
	ProjectID string    `json:"projectId" yaml:"projectId"`
	AreaID    string    `json:"areaId,omitempty" yaml:"areaId,omitempty"`
	Updated   time.Time `json:"updated,omitzero" yaml:"updated,omitempty"`
	Groups    []Group   `json:"groups" yaml:"groups"`
	Total     int       `json:"total" yaml:"total"`
}

// Group is one discipline bucket of the tree.
type Group struct {
	Name  string `json:"name" yaml:"name"`
	Index int    `json:"index" yaml:"index"`
	Items []Item `json:"items" yaml:"items"`
}

// Item is one drawing row of the tree.
type Item struct {
	ID     string `json:"id" yaml:"id"`
	Number string `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}
