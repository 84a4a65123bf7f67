package proxy

import (
	"bytes"
	"compress/zlib"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/plantap/internal/adapters/driven/bus"
	"github.com/custodia-labs/plantap/internal/adapters/driving/tap"
	"github.com/custodia-labs/plantap/internal/core/domain"
)

const drawingsDoc = `{"data":[{"id":1,"number":"A-101","title":"Plan"}]}`

type recordingObserver struct {
	mu   sync.Mutex
	seen []tap.Observation
}

func (o *recordingObserver) Wants(string, http.Header) bool { return true }
func (o *recordingObserver) MaxBodyBytes() int64              { return 1 << 20 }
func (o *recordingObserver) Observe(obs tap.Observation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, obs)
}

func (o *recordingObserver) observations() []tap.Observation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]tap.Observation(nil), o.seen...)
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Seen-Host", r.Host)
		w.Header().Set("X-Seen-Path", r.URL.Path)
		_, _ = io.WriteString(w, drawingsDoc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_RejectsBadUpstream(t *testing.T) {
	tests := []string{"", "app.procore.com", "ftp://app.procore.com", "https://"}
	for _, upstream := range tests {
		t.Run(upstream, func(t *testing.T) {
			_, err := New(Options{Upstream: upstream})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestServer_ForwardsAndTaps(t *testing.T) {
	upstream := newUpstream(t)
	observer := &recordingObserver{}
	s, err := New(Options{Upstream: upstream.URL, Observer: observer})
	require.NoError(t, err)

	front := httptest.NewServer(s.Handler())
	defer front.Close()

	req, err := http.NewRequest(http.MethodGet, front.URL+"/rest/v1.0/projects/42/drawing_log", nil)
	require.NoError(t, err)
	req.Header.Set("Referer", front.URL+"/companies/3/projects/42/tools/drawings")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	upstreamURL, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, drawingsDoc, string(body))
	assert.Equal(t, upstreamURL.Host, resp.Header.Get("X-Seen-Host"))
	assert.Equal(t, "/rest/v1.0/projects/42/drawing_log", resp.Header.Get("X-Seen-Path"))

	seen := observer.observations()
	require.Len(t, seen, 1)
	assert.Equal(t, upstream.URL+"/rest/v1.0/projects/42/drawing_log", seen[0].URL)
	assert.Contains(t, seen[0].PageURL, "/projects/42/")
	assert.Equal(t, drawingsDoc, string(seen[0].Body))
}

func TestServer_WithoutObserver(t *testing.T) {
	upstream := newUpstream(t)
	s, err := New(Options{Upstream: upstream.URL})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drawings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, drawingsDoc, rec.Body.String())
}

func TestServer_UpstreamDown(t *testing.T) {
	upstream := newUpstream(t)
	addr := upstream.URL
	upstream.Close()

	s, err := New(Options{Upstream: addr, Observer: &recordingObserver{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drawings", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	upstream := newUpstream(t)
	s, err := New(Options{Upstream: upstream.URL, ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/drawings")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

const chromeAcceptEncoding = "gzip, deflate, br, zstd"

// offeredEncoding records the last Accept-Encoding an upstream saw.
type offeredEncoding struct {
	mu    sync.Mutex
	value string
}

func (o *offeredEncoding) set(v string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = v
}

func (o *offeredEncoding) get() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// newNegotiatingUpstream prefers the densest encoding the request offers.
func newNegotiatingUpstream(t *testing.T, offered *offeredEncoding) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ae := r.Header.Get("Accept-Encoding")
		offered.set(ae)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(ae, "br"):
			w.Header().Set("Content-Encoding", "br")
			_, _ = w.Write([]byte{0x1b, 0x00, 0x00})
		case strings.Contains(ae, "deflate"):
			w.Header().Set("Content-Encoding", "deflate")
			var buf bytes.Buffer
			zw := zlib.NewWriter(&buf)
			_, _ = zw.Write([]byte(drawingsDoc))
			_ = zw.Close()
			_, _ = w.Write(buf.Bytes())
		default:
			_, _ = io.WriteString(w, drawingsDoc)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_BrowserAcceptEncodingStillCaptures(t *testing.T) {
	offered := &offeredEncoding{}
	upstream := newNegotiatingUpstream(t, offered)
	upstreamURL, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	var mu sync.Mutex
	var envelopes []domain.CaptureEnvelope
	collect := bus.Direct(func(_ context.Context, env domain.CaptureEnvelope) error {
		mu.Lock()
		defer mu.Unlock()
		envelopes = append(envelopes, env)
		return nil
	})
	dispatcher := tap.NewDispatcher(collect, tap.DispatcherOptions{
		RelevantHost: upstreamURL.Hostname(),
		Origin:       upstream.URL,
	})

	s, err := New(Options{Upstream: upstream.URL, Observer: dispatcher})
	require.NoError(t, err)
	front := httptest.NewServer(s.Handler())
	defer front.Close()

	req, err := http.NewRequest(http.MethodGet, front.URL+"/rest/v1.0/projects/42/drawing_log", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", chromeAcceptEncoding)
	req.Header.Set("Referer", front.URL+"/companies/3/projects/42/tools/drawings")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_, err = io.Copy(io.Discard, resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	dispatcher.Wait()

	assert.Equal(t, "gzip, deflate", offered.get())
	assert.Equal(t, "deflate", resp.Header.Get("Content-Encoding"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, envelopes, 1)
	assert.Equal(t, "42", envelopes[0].ProjectContext.ProjectID)
	assert.Equal(t, 1, envelopes[0].Payload.Len())
}

func TestServer_AcceptEncodingUntouchedWithoutObserver(t *testing.T) {
	offered := &offeredEncoding{}
	upstream := newNegotiatingUpstream(t, offered)
	s, err := New(Options{Upstream: upstream.URL})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/drawings", nil)
	req.Header.Set("Accept-Encoding", chromeAcceptEncoding)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, chromeAcceptEncoding, offered.get())
	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
}

func TestNarrowAcceptEncoding(t *testing.T) {
	tests := []struct {
		name    string
		offered []string
		want    string
	}{
		{"browser", []string{chromeAcceptEncoding}, "gzip, deflate"},
		{"gzip only", []string{"gzip"}, "gzip"},
		{"brotli only", []string{"br"}, "identity"},
		{"wildcard", []string{"*"}, "gzip, deflate"},
		{"refused gzip", []string{"gzip;q=0, deflate;q=0.5, br"}, "deflate"},
		{"refused with zeros", []string{"gzip; q=0.000, br"}, "identity"},
		{"several lines", []string{"br", "GZIP"}, "gzip"},
		{"none offered", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, v := range tt.offered {
				h.Add("Accept-Encoding", v)
			}

			narrowAcceptEncoding(h)

			assert.Equal(t, tt.want, h.Get("Accept-Encoding"))
		})
	}
}
