package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevance_Match(t *testing.T) {
	r := NewRelevance("procore.com")

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"drawing log", "https://app.procore.com/rest/v1.0/projects/42/drawing_log", true},
		{"drawing revisions", "https://app.procore.com/rest/v1.1/drawing_revisions?project_id=42", true},
		{"drawings collection", "https://api.procore.com/rest/v1.0/drawing_areas/9/drawings", true},
		{"discipline list", "https://app.procore.com/rest/v1.0/projects/42/drawing_disciplines", true},
		{"groups", "https://app.procore.com/42/project/drawing_log/groups", true},
		{"case insensitive", "https://APP.Procore.com/Projects/42/DRAWING_LOG", true},
		{"apex host", "https://procore.com/drawings", true},
		{"foreign host", "https://example.com/drawings", false},
		{"host suffix trick", "https://notprocore.com/drawings", false},
		{"host in path only", "https://evil.example/procore.com/drawings", false},
		{"irrelevant endpoint", "https://app.procore.com/rest/v1.0/me", false},
		{"static image", "https://app.procore.com/drawings/thumb.png", false},
		{"static with query", "https://app.procore.com/drawings/sheet.pdf?v=3", false},
		{"font", "https://app.procore.com/assets/discipline.woff2", false},
		{"source map", "https://app.procore.com/assets/drawings.js.map", false},
		{"unparseable", "://bad url", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Match(tt.url))
		})
	}
}

func TestRelevance_EmptyHostMatchesNothing(t *testing.T) {
	assert.False(t, NewRelevance("").Match("https://app.procore.com/drawings"))
}

func TestRelevance_LeadingDot(t *testing.T) {
	assert.True(t, NewRelevance(".procore.com").Match("https://app.procore.com/drawings"))
}
