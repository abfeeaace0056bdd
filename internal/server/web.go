package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultWebReadHeaderTimeout bounds reading request headers.
	DefaultWebReadHeaderTimeout = 10 * time.Second

	// DefaultWebWriteTimeout bounds writing a response. Sheets calls are
	// limited to 30s each and a page needs at most a few of them.
	DefaultWebWriteTimeout = 90 * time.Second

	// DefaultWebIdleTimeout is the keep-alive timeout.
	DefaultWebIdleTimeout = 120 * time.Second
)

// WebServer serves the task web UI.
type WebServer struct {
	httpServer *http.Server
	health     *HealthChecker
}

// NewWebServer creates a server for handler on addr. Health endpoints must
// already be registered on handler; health is only used to flag shutdown.
func NewWebServer(addr string, handler http.Handler, health *HealthChecker) *WebServer {
	return &WebServer{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: DefaultWebReadHeaderTimeout,
			WriteTimeout:      DefaultWebWriteTimeout,
			IdleTimeout:       DefaultWebIdleTimeout,
		},
		health: health,
	}
}

// Addr returns the configured listen address.
func (s *WebServer) Addr() string {
	return s.httpServer.Addr
}

// Serve accepts connections on l until Shutdown is called. It returns nil
// after a graceful shutdown.
func (s *WebServer) Serve(l net.Listener) error {
	slog.Info("starting web server", "addr", l.Addr().String())
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves until Shutdown.
func (s *WebServer) Start() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown marks the server as draining and gracefully stops it.
func (s *WebServer) Shutdown(ctx context.Context) error {
	if s.health != nil {
		s.health.SetShuttingDown()
	}
	slog.Info("shutting down web server")
	return s.httpServer.Shutdown(ctx)
}
