package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/plantap/internal/adapters/driving/tap"
	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/logger"
)

// DefaultShutdownTimeout bounds how long in-flight requests may finish.
const DefaultShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Listen is the local address, e.g. "127.0.0.1:8765".
	Listen string

	// Upstream is the host being proxied, e.g. "https://app.procore.com".
	Upstream string

	// Observer receives tapped responses. Nil disables tapping.
	Observer tap.Observer

	// Transport performs upstream requests. Nil means http.DefaultTransport.
	Transport http.RoundTripper

	ShutdownTimeout time.Duration
}

// Server is a tapped reverse proxy.
type Server struct {
	opts     Options
	upstream *url.URL
	handler  http.Handler
}

// New validates options and builds the proxy handler.
func New(opts Options) (*Server, error) {
	upstream, err := url.Parse(opts.Upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: upstream %q: %w", domain.ErrInvalidInput, opts.Upstream, err)
	}
	if upstream.Scheme != "http" && upstream.Scheme != "https" || upstream.Host == "" {
		return nil, fmt.Errorf("%w: upstream must be an absolute http(s) URL, got %q", domain.ErrInvalidInput, opts.Upstream)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(upstream)
			r.SetXForwarded()
			r.Out.Host = upstream.Host
			if opts.Observer != nil {
				narrowAcceptEncoding(r.Out.Header)
			}
		},
		Transport: opts.Transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("proxy: %s %s: %v", r.Method, r.URL.Path, err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	var handler http.Handler = rp
	if opts.Observer != nil {
		handler = tap.Middleware(opts.Observer, upstream)(rp)
	}

	return &Server{opts: opts, upstream: upstream, handler: handler}, nil
}

// Handler returns the tapped proxy handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Upstream returns the proxied origin.
func (s *Server) Upstream() *url.URL {
	return s.upstream
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("proxy: http://%s -> %s", ln.Addr(), s.upstream)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown proxy: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// narrowAcceptEncoding limits what the upstream may compress with to what the
// tap can decode. Browsers also offer br and zstd.
func narrowAcceptEncoding(h http.Header) {
	offered := h.Values("Accept-Encoding")
	if len(offered) == 0 {
		return
	}
	var keep []string
	for _, coding := range []string{"gzip", "deflate"} {
		if accepts(offered, coding) {
			keep = append(keep, coding)
		}
	}
	if len(keep) == 0 {
		h.Set("Accept-Encoding", "identity")
		return
	}
	h.Set("Accept-Encoding", strings.Join(keep, ", "))
}

// accepts reports whether an Accept-Encoding list allows coding, directly or
// through "*", with a non-zero quality.
func accepts(offered []string, coding string) bool {
	for _, line := range offered {
		for _, part := range strings.Split(line, ",") {
			name, params, _ := strings.Cut(part, ";")
			name = strings.ToLower(strings.TrimSpace(name))
			if name != coding && name != "*" {
				continue
			}
			if v, ok := strings.CutPrefix(strings.TrimSpace(strings.ToLower(params)), "q="); ok {
				if q, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && q == 0 {
					continue
				}
			}
			return true
		}
	}
	return false
}
