// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/plantap/internal/core/domain"
)

// StateRendered carries a render state pushed by the capture pipeline.
type StateRendered struct {
	State domain.RenderState
}

// StateLoaded carries the stored state read on start or refresh.
type StateLoaded struct {
	State domain.RenderState
	Err   error
}

// StatusLoaded carries the capture pipeline status of the project.
type StatusLoaded struct {
	Status *domain.BufferStatus
	Err    error
}

// FilterChanged is sent when the filter text changes.
type FilterChanged struct {
	Filter string
}

// DrawingOpened is sent after a drawing was recorded as recent.
type DrawingOpened struct {
	Item    domain.Item
	Recents []string
	Err     error
}

// SelectionChanged is sent when the list cursor lands on another drawing.
type SelectionChanged struct {
	Item domain.Item
}

// Mode identifies what keystrokes currently drive.
type Mode int

const (
	// ModeBrowse moves through the tree.
	ModeBrowse Mode = iota
	// ModeFilter types into the filter input.
	ModeFilter
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
