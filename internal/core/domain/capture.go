package domain

import (
	"net/url"
	"strings"
	"time"
)

// CaptureMessageType is the discriminator every capture envelope must carry.
const CaptureMessageType = "PLANTAP_CAPTURE"

// CaptureEnvelope carries one parsed response from the tap to the core.
type CaptureEnvelope struct {
	Type           string         `json:"type"`
	Origin         string         `json:"origin"`
	Payload        *Value         `json:"payload"`
	ProjectContext ProjectContext `json:"projectContext"`
	SourceURL      string         `json:"sourceURL"`
	CapturedAt     time.Time      `json:"capturedAt"`
}

// NewCaptureEnvelope builds a tagged envelope stamped with the current time.
func NewCaptureEnvelope(origin string, payload *Value, pc ProjectContext, sourceURL string) CaptureEnvelope {
	return CaptureEnvelope{
		Type:           CaptureMessageType,
		Origin:         origin,
		Payload:        payload,
		ProjectContext: pc,
		SourceURL:      sourceURL,
		CapturedAt:     time.Now().UTC(),
	}
}

// Origin returns the scheme://host[:port] part of a URL, lower-cased,
// or "" if the URL has no host.
func Origin(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + strings.ToLower(u.Host)
}

// SameOrigin reports whether two origins or URLs share an origin.
func SameOrigin(a, b string) bool {
	oa, ob := Origin(a), Origin(b)
	return oa != "" && oa == ob
}
