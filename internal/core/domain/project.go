package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ProjectContext scopes all captured and persisted state.
// It is derived from the URL of the page that issued a request.
type ProjectContext struct {
	CompanyID     string `json:"companyId,omitempty"`
	ProjectID     string `json:"projectId,omitempty"`
	DrawingAreaID string `json:"drawingAreaId,omitempty"`
}

// HasProject reports whether the context can be attributed to a project.
func (c ProjectContext) HasProject() bool {
	return c.ProjectID != ""
}

var (
	projectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`projects/(\d+)`),
		regexp.MustCompile(`/(\d+)/project`),
	}
	areaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`areas/(\d+)`),
		regexp.MustCompile(`drawing_areas/(\d+)`),
	}
	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`companies/(\d+)`),
	}
)

// ParseProjectContext extracts the project scope from a page URL.
// Unmatched parts are left empty; an empty ProjectID means "not on a project page".
func ParseProjectContext(pageURL string) ProjectContext {
	return ProjectContext{
		CompanyID:     firstMatch(companyPatterns, pageURL),
		ProjectID:     firstMatch(projectPatterns, pageURL),
		DrawingAreaID: firstMatch(areaPatterns, pageURL),
	}
}

func firstMatch(patterns []*regexp.Regexp, s string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// ProjectCache is the persisted drawing collection of one project.
type ProjectCache struct {
	Timestamp     time.Time `json:"timestamp"`
	CompanyID     string    `json:"companyId,omitempty"`
	DrawingAreaID string    `json:"drawingAreaId,omitempty"`
	Drawings      []Drawing `json:"drawings"`
}

// IDs returns the set of drawing ids already stored.
func (c *ProjectCache) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Drawings))
	for _, d := range c.Drawings {
		ids[d.ID] = struct{}{}
	}
	return ids
}

// KeyPrefix namespaces every key plantap writes.
const KeyPrefix = "plantap"

// Key purposes.
const (
	PurposeDrawings    = "drawings"
	PurposeDisciplines = "disciplines"
	PurposeFavorites   = "favorites"
	PurposeRecents     = "recents"
)

// ProjectKey returns the storage key for one purpose of one project.
func ProjectKey(projectID, purpose string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, projectID, purpose)
}

// PreferencesKey is the storage key of the global preferences.
const PreferencesKey = KeyPrefix + ":prefs"

// DrawingURL builds the host application's deep link for a drawing.
// It returns "" when the base, project or area is unknown.
func DrawingURL(base, projectID, areaID, drawingID string) string {
	if base == "" || projectID == "" || areaID == "" || drawingID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/project/drawing_areas/%s/drawing_log/view_fullscreen/%s",
		strings.TrimRight(base, "/"), url.PathEscape(projectID),
		url.PathEscape(areaID), url.PathEscape(drawingID))
}
