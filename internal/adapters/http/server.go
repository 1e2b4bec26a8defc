package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// ErrServerClosed is returned by Start after Shutdown.
var ErrServerClosed = errors.New("map bridge: server closed")

// Server runs the bridge app on a loopback listener in a background
// goroutine. It starts at most once; Shutdown is final.
type Server struct {
	app  *fiber.App
	host string

	mu     sync.Mutex
	ln     net.Listener
	port   int
	done   chan struct{}
	closed bool
}

// NewServer wraps app. host should be a loopback address.
func NewServer(app *fiber.App, host string) *Server {
	return &Server{app: app, host: host}
}

// FreePort asks the OS for a currently unused TCP port on host. Another
// process may take it before it is bound again, hence Launch's retries.
func FreePort(host string) (int, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, fmt.Errorf("find free port: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		return 0, fmt.Errorf("release free port: %w", err)
	}
	return port, nil
}

// Start binds host:port and begins serving. Bind errors are returned
// before any goroutine starts. Calling Start while running is a no-op.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.ln != nil {
		return nil
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	s.ln = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.done = make(chan struct{})

	go func(ln net.Listener, done chan struct{}) {
		defer close(done)
		if err := s.app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Error("map bridge stopped", "error", err)
		}
	}(ln, s.done)

	slog.Info("map bridge started", "url", s.mapURL())
	return nil
}

// Launch starts the server on a fresh free port, retrying the whole
// sequence up to attempts times. It returns the bound port.
func (s *Server) Launch(attempts int) (int, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		port, err := FreePort(s.host)
		if err == nil {
			err = s.Start(port)
		}
		if err == nil {
			return s.Port(), nil
		}
		if errors.Is(err, ErrServerClosed) {
			return 0, err
		}
		lastErr = err
		slog.Warn("map bridge start failed", "attempt", i+1, "error", err)
	}
	return 0, fmt.Errorf("start map bridge after %d attempts: %w", attempts, lastErr)
}

// Port returns the bound port, or 0 when not running.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return 0
	}
	return s.port
}

// MapURL returns the address of the map page, or "" when not running.
func (s *Server) MapURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.mapURL()
}

func (s *Server) mapURL() string {
	return "http://" + net.JoinHostPort(s.host, strconv.Itoa(s.port)) + "/" + MapPageName
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln, done := s.ln, s.done
	s.ln = nil
	s.closed = true
	s.mu.Unlock()

	if ln == nil {
		return nil
	}

	err := s.app.ShutdownWithContext(ctx)
	// The accept loop may not have registered the listener yet.
	_ = ln.Close()

	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	slog.Info("map bridge stopped")
	return err
}
