package tap

import (
	"net/url"
	"regexp"
	"strings"
)

// staticAsset matches paths of files that never carry catalog data.
var staticAsset = regexp.MustCompile(`\.(png|jpe?g|gif|svg|ico|css|js|map|pdf|zip|woff2?|ttf|eot)$`)

// relevantMarkers are the URL substrings of endpoints that carry drawings or
// discipline data. Anything else is ignored.
var relevantMarkers = []string{
	"drawing_log",
	"drawing_revisions",
	"/drawings",
	"groups",
	"discipline",
}

// Relevance decides which response URLs are worth parsing.
type Relevance struct {
	host string
}

// NewRelevance matches URLs on host and its subdomains.
func NewRelevance(host string) Relevance {
	return Relevance{host: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(host), "."))}
}

// Match reports whether rawURL should be captured.
func (r Relevance) Match(rawURL string) bool {
	if r.host == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != r.host && !strings.HasSuffix(host, "."+r.host) {
		return false
	}
	if staticAsset.MatchString(strings.ToLower(u.Path)) {
		return false
	}

	lower := strings.ToLower(rawURL)
	for _, marker := range relevantMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
