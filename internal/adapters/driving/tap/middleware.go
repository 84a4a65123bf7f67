package tap

import (
	"bufio"
	"net"
	"net/http"
	"net/url"

	"github.com/custodia-labs/plantap/internal/logger"
)

// Middleware decorates a handler that serves upstream responses (the reverse
// proxy). Writes reach the client unchanged; relevant bodies are copied and
// observed after the handler returns.
//
// upstream is the origin the handler forwards to. It rebuilds the absolute
// URL of each request, since the proxy itself is reached on a local address.
func Middleware(observer Observer, upstream *url.URL) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &captureWriter{
				ResponseWriter: w,
				observer:       observer,
				rawURL:         upstreamURL(upstream, r),
				limit:          observer.MaxBodyBytes(),
			}
			next.ServeHTTP(cw, r)
			cw.complete(r.Referer())
		})
	}
}

// upstreamURL returns the request's URL as the upstream would see it.
func upstreamURL(upstream *url.URL, r *http.Request) string {
	u := *r.URL
	if upstream != nil {
		u.Scheme = upstream.Scheme
		u.Host = upstream.Host
	}
	return u.String()
}

// captureWriter forwards every call to the wrapped writer first.
type captureWriter struct {
	http.ResponseWriter
	observer Observer
	rawURL   string
	limit    int64

	decided   bool
	capturing bool
	status    int
	buf       []byte
}

// WriteHeader forwards the status and decides whether to capture.
func (w *captureWriter) WriteHeader(status int) {
	w.ResponseWriter.WriteHeader(status)
	w.decide(status)
}

// Write forwards the bytes and copies them when capturing.
func (w *captureWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.decide(http.StatusOK)
	if w.capturing && n > 0 {
		if int64(len(w.buf)+n) > w.limit {
			w.capturing = false
			w.buf = nil
		} else {
			w.buf = append(w.buf, p[:n]...)
		}
	}
	return n, err
}

func (w *captureWriter) decide(status int) {
	if w.decided {
		return
	}
	w.decided = true
	w.status = status
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tap: recovered while inspecting %s: %v", w.rawURL, r)
			w.capturing = false
		}
	}()
	w.capturing = status >= 200 && status < 300 && w.observer.Wants(w.rawURL, w.Header())
}

func (w *captureWriter) complete(referer string) {
	if !w.capturing || len(w.buf) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tap: recovered in observer: %v", r)
		}
	}()
	w.observer.Observe(Observation{
		URL:     w.rawURL,
		PageURL: referer,
		Header:  w.Header().Clone(),
		Body:    w.buf,
	})
}

// Flush forwards to the wrapped writer when it can flush.
func (w *captureWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack forwards to the wrapped writer, for upgraded connections.
func (w *captureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	w.capturing = false
	return h.Hijack()
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *captureWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
