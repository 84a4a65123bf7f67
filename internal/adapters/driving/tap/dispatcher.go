package tap

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driven"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Observation is one complete response body seen by a primitive.
type Observation struct {
	// URL is the absolute URL the response was fetched from.
	URL string

	// PageURL is the page that issued the request (Referer), or URL.
	PageURL string

	// Header is the response header as sent to the host.
	Header http.Header

	// Body is the copied body, still content-encoded.
	Body []byte
}

// Observer is the capability both primitives report to.
type Observer interface {
	// Wants reports whether a response should be copied at all.
	Wants(rawURL string, header http.Header) bool

	// MaxBodyBytes is the copy ceiling; larger bodies are skipped.
	MaxBodyBytes() int64

	// Observe receives a complete body. It must not block.
	Observe(obs Observation)
}

// Ensure Dispatcher implements the interface.
var _ Observer = (*Dispatcher)(nil)

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// RelevantHost limits capture to this host and its subdomains.
	RelevantHost string

	// Origin is stamped on every envelope.
	Origin string

	// MaxBodyBytes is the largest body parsed.
	MaxBodyBytes int64

	// ParsesPerSecond bounds parse work; bursts up to the same number pass.
	ParsesPerSecond float64
}

// maxParseWait is how long an observation may queue for parse budget
// before it is dropped.
const maxParseWait = 5 * time.Second

// Dispatcher gates observed responses, parses them and publishes envelopes.
// Every failure is swallowed: the tap never affects the host.
type Dispatcher struct {
	relevance Relevance
	bus       driven.CaptureBus
	origin    string
	maxBytes  int64
	limiter   *rate.Limiter

	inflight sync.WaitGroup
	dropped  atomic.Int64
}

// NewDispatcher creates a dispatcher publishing to bus.
func NewDispatcher(bus driven.CaptureBus, opts DispatcherOptions) *Dispatcher {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = domain.DefaultMaxBodyBytes
	}
	if opts.ParsesPerSecond <= 0 {
		opts.ParsesPerSecond = domain.DefaultParsesPerSecond
	}
	burst := int(opts.ParsesPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Dispatcher{
		relevance: NewRelevance(opts.RelevantHost),
		bus:       bus,
		origin:    opts.Origin,
		maxBytes:  opts.MaxBodyBytes,
		limiter:   rate.NewLimiter(rate.Limit(opts.ParsesPerSecond), burst),
	}
}

// MaxBodyBytes returns the copy ceiling.
func (d *Dispatcher) MaxBodyBytes() int64 {
	return d.maxBytes
}

// Wants applies the URL, content type and declared length gates.
func (d *Dispatcher) Wants(rawURL string, header http.Header) bool {
	if !d.relevance.Match(rawURL) {
		return false
	}
	if !isJSON(header.Get("Content-Type")) {
		return false
	}
	if cl := header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n > d.maxBytes {
			return false
		}
	}
	return true
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Observe parses and publishes in the background. When the parse budget is
// spent the observation queues for up to maxParseWait, then is dropped.
func (d *Dispatcher) Observe(obs Observation) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("tap: recovered while dispatching %s: %v", obs.URL, r)
			}
		}()
		if !d.reserve() {
			n := d.dropped.Add(1)
			logger.Warn("tap: parse budget exhausted, dropped %s (%d dropped so far)", obs.URL, n)
			return
		}
		d.dispatch(obs)
	}()
}

func (d *Dispatcher) reserve() bool {
	if d.limiter.Allow() {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), maxParseWait)
	defer cancel()
	return d.limiter.Wait(ctx) == nil
}

// Dropped returns how many observations were dropped for lack of parse budget.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Wait blocks until every background dispatch has finished.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *Dispatcher) dispatch(obs Observation) {
	body, err := decode(obs.Body, obs.Header.Get("Content-Encoding"), d.maxBytes)
	if errors.Is(err, errUnsupportedEncoding) {
		logger.Warn("tap: cannot decode %s: %q encoding", obs.URL, obs.Header.Get("Content-Encoding"))
		return
	}
	if err != nil {
		logger.Debug("tap: cannot decode %s: %v", obs.URL, err)
		return
	}
	payload, err := domain.ParsePayload(body)
	if err != nil {
		logger.Debug("tap: ignoring %s: %v", obs.URL, err)
		return
	}

	pageURL := obs.PageURL
	if pageURL == "" {
		pageURL = obs.URL
	}
	env := domain.NewCaptureEnvelope(d.origin, payload, domain.ParseProjectContext(pageURL), obs.URL)
	if err := d.bus.Publish(context.Background(), env); err != nil {
		logger.Debug("tap: publish failed for %s: %v", obs.URL, err)
		return
	}
	logger.Debug("tap: captured %s (%d bytes)", obs.URL, len(body))
}

// decode undoes gzip or deflate content encoding, bounded by limit.
func decode(body []byte, encoding string, limit int64) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return readLimited(zr, limit)
	case "deflate":
		// HTTP deflate is zlib-wrapped, but some servers send raw DEFLATE.
		if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
			defer zr.Close()
			return readLimited(zr, limit)
		}
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		return readLimited(fr, limit)
	default:
		return nil, errUnsupportedEncoding
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, errTooLarge
	}
	return out, nil
}
