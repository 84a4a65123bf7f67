// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of the catalog view.
type Theme struct {
	// Primary is the main accent colour, used for the header.
	Primary lipgloss.Color

	// Discipline colours group headings.
	Discipline lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for counts, titles of unselected rows and hints.
	Muted lipgloss.Color

	// Success marks a settled pipeline.
	Success lipgloss.Color

	// Warning marks pending or flushing buffers.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Discipline: lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Header is the project line at the top.
	Header lipgloss.Style

	// Group is a discipline heading.
	Group lipgloss.Style

	// Number is a drawing number.
	Number lipgloss.Style

	// Normal is regular text.
	Normal lipgloss.Style

	// Muted is less important text.
	Muted lipgloss.Style

	// Selected is the highlighted row.
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// InputField wraps the filter input.
	InputField lipgloss.Style

	// StatusBar is the bottom line.
	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Group: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Discipline),

		Number: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
