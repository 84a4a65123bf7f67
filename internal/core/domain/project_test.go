package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProjectContext(t *testing.T) {
	tests := []struct {
		url  string
		want ProjectContext
	}{
		{
			"https://app.procore.com/companies/3/projects/42/tools/drawings/areas/9",
			ProjectContext{CompanyID: "3", ProjectID: "42", DrawingAreaID: "9"},
		},
		{
			"https://app.procore.com/42/project/drawing_areas/9/drawing_log",
			ProjectContext{ProjectID: "42", DrawingAreaID: "9"},
		},
		{
			"https://app.procore.com/rest/v1.0/projects/7/drawings",
			ProjectContext{ProjectID: "7"},
		},
		{
			"https://app.procore.com/companies/3/home",
			ProjectContext{CompanyID: "3"},
		},
		{"", ProjectContext{}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := ParseProjectContext(tt.url)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.ProjectID != "", got.HasProject())
		})
	}
}

func TestProjectKey(t *testing.T) {
	assert.Equal(t, "plantap:42:drawings", ProjectKey("42", PurposeDrawings))
	assert.Equal(t, "plantap:42:disciplines", ProjectKey("42", PurposeDisciplines))
	assert.Equal(t, "plantap:prefs", PreferencesKey)
}

func TestDrawingURL(t *testing.T) {
	assert.Equal(t,
		"https://app.procore.com/42/project/drawing_areas/9/drawing_log/view_fullscreen/100",
		DrawingURL("https://app.procore.com/", "42", "9", "100"))

	assert.Empty(t, DrawingURL("", "42", "9", "100"))
	assert.Empty(t, DrawingURL("https://app.procore.com", "", "9", "100"))
	assert.Empty(t, DrawingURL("https://app.procore.com", "42", "", "100"))
	assert.Empty(t, DrawingURL("https://app.procore.com", "42", "9", ""))
}

func TestProjectCache_IDs(t *testing.T) {
	cache := ProjectCache{Drawings: []Drawing{{ID: "1"}, {ID: "2"}}}

	ids := cache.IDs()

	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "1")
}

func TestDrawing(t *testing.T) {
	assert.True(t, Drawing{ID: "1", Number: "A"}.Valid())
	assert.False(t, Drawing{ID: "1", Number: " "}.Valid())
	assert.False(t, Drawing{Number: "A"}.Valid())

	assert.Equal(t, NoTitle, Drawing{Title: "  "}.DisplayTitle())
	assert.Equal(t, "Plan", Drawing{Title: "Plan"}.DisplayTitle())

	assert.Equal(t, "Mech", Drawing{DisciplineName: "Mech", Discipline: DisciplineRef{Name: "Other"}}.InlineDisciplineName())
	assert.Equal(t, "Other", Drawing{Discipline: DisciplineRef{Name: "Other"}}.InlineDisciplineName())
	assert.True(t, DisciplineRef{}.IsZero())
}
