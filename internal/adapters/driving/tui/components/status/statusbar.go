// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/plantap/internal/core/domain"
)

// State represents what the catalog view is showing.
type State string

const (
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
	StateError   State = "error"
	StateFilter  State = "filter"
)

// Bar displays the catalog state, buffer progress and key hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	count   int
	buffer  *domain.BufferStatus
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateLoading,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string

	switch s.state {
	case StateLoading:
		parts = append(parts, s.styles.Muted.Render("Loading drawings..."))
	case StateEmpty:
		parts = append(parts, s.styles.Warning.Render("No drawings captured yet"))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render("Error: "+s.message))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateReady, StateFilter:
		parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d drawings", s.count)))
		if s.message != "" {
			parts = append(parts, s.styles.Success.Render(s.message))
		}
	}

	if s.buffer != nil && (s.buffer.Pending > 0 || s.buffer.Flushing) {
		parts = append(parts, s.styles.Muted.Render(
			fmt.Sprintf("buffer %s (%d)", s.buffer.StateName, s.buffer.Pending)))
	}
	return strings.Join(parts, "  ")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateFilter {
		bindings = s.keymap.FilterHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCount sets the number of drawings shown.
func (s *Bar) SetCount(count int) {
	s.count = count
}

// Count returns the number of drawings shown.
func (s *Bar) Count() int {
	return s.count
}

// SetBuffer sets the capture buffer status. Nil hides it.
func (s *Bar) SetBuffer(status *domain.BufferStatus) {
	s.buffer = status
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
