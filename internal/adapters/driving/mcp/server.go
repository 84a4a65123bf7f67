package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/plantap/internal/logger"
)

// Version is reported to clients during initialisation.
const Version = "0.1.0"

const instructions = `plantap holds drawing catalogs captured from a construction-management
web app. Read plantap://projects to discover project ids, then call
list_drawings or find_drawing with one of them. Drawing numbers are matched
case-insensitively.`

// shutdownTimeout bounds the HTTP transport's graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server exposes captured catalogs over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a server backed by ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "plantap", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves JSON-RPC over stdio until ctx is cancelled or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Listen opens addr for RunHTTP. Port 0 picks a free port.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

// RunHTTP serves streamable HTTP on ln until ctx is cancelled.
// A cancelled context is a clean shutdown and returns nil.
func (s *Server) RunHTTP(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("mcp: serving http on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down mcp server: %w", err)
	}
	return nil
}
