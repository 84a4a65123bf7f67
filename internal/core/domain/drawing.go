package domain

import "strings"

// NoTitle is shown for drawings captured without a title.
const NoTitle = "No Title"

// Drawing is one blueprint record in a project's stored collection.
// Records are append-mostly: the first capture of an id wins.
type Drawing struct {
	// ID is the host system's identifier, kept in its literal textual form.
	ID string `json:"id"`

	// Number is the human-facing drawing number (e.g. "A-101").
	Number string `json:"num"`

	// Title is the free-text description as captured (may be empty).
	Title string `json:"title,omitempty"`

	// Discipline references the drawing's discipline, by id, inline name or both.
	Discipline DisciplineRef `json:"discipline,omitzero"`

	// DisciplineName is an inline discipline name carried by the record itself.
	DisciplineName string `json:"discipline_name,omitempty"`
}

// DisciplineRef points at a discipline either by identifier or by inline name.
type DisciplineRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the reference carries nothing.
func (r DisciplineRef) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// Valid reports whether the drawing can be stored: it needs an id to
// deduplicate on and a number to sort and display by.
func (d Drawing) Valid() bool {
	return d.ID != "" && strings.TrimSpace(d.Number) != ""
}

// DisplayTitle returns the title or the placeholder when none was captured.
func (d Drawing) DisplayTitle() string {
	if strings.TrimSpace(d.Title) == "" {
		return NoTitle
	}
	return d.Title
}

// InlineDisciplineName returns the discipline name the record carries itself.
func (d Drawing) InlineDisciplineName() string {
	if d.DisciplineName != "" {
		return d.DisciplineName
	}
	return d.Discipline.Name
}
