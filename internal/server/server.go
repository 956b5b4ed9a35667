package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
)

const maxHeaderBytes = 1 << 20 // 1 MB

// Options are the HTTP server timeouts. Zero values fall back to the defaults below.
type Options struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

var defaultOptions = Options{
	ReadHeaderTimeout: 10 * time.Second,
	WriteTimeout:      10 * time.Second,
	IdleTimeout:       60 * time.Second,
}

func (o Options) withDefaults() Options {
	if o.ReadHeaderTimeout <= 0 {
		o.ReadHeaderTimeout = defaultOptions.ReadHeaderTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultOptions.WriteTimeout
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = defaultOptions.IdleTimeout
	}
	return o
}

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	opts Options

	mu         sync.Mutex
	httpServer *http.Server
}

func New(opts Options) *Server {
	return &Server{opts: opts.withDefaults()}
}

// normalizeAddr accepts "8080" or ":8080" and defaults to :8080.
func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	switch {
	case port == "":
		return ":8080"
	case strings.Contains(port, ":"):
		return port
	default:
		return ":" + port
	}
}

// Run blocks serving handler on port until Shutdown is called.
// http.ErrServerClosed is not reported as an error.
func (s *Server) Run(port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              normalizeAddr(port),
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       s.opts.IdleTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
