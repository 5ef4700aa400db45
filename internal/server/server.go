package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rickgao/stock-stream/internal/broadcast"
	"github.com/rickgao/stock-stream/internal/cache"
	"github.com/rickgao/stock-stream/internal/connection"
)

// Config holds stream server configuration.
type Config struct {
	Host   string
	Port   int
	Client connection.ClientConfig
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:   "localhost",
		Port:   8765,
		Client: connection.DefaultClientConfig(),
	}
}

// Server owns the listening socket and the broadcast scheduler and
// controls them as one unit. The owner holds the only instance; Start
// and Stop are idempotent and safe to call from any goroutine.
type Server struct {
	cfg       Config
	registry  *connection.Registry
	store     *cache.Store
	scheduler *broadcast.Scheduler
	logger    *slog.Logger
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	running bool
	ln      net.Listener
	httpSrv *http.Server

	wg sync.WaitGroup // Per-connection handlers
}

// New creates a new Server.
func New(cfg Config, registry *connection.Registry, store *cache.Store, scheduler *broadcast.Scheduler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		scheduler: scheduler,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Start binds the listening socket, begins accepting connections, and
// starts the broadcast scheduler. Calling Start while already running
// logs and returns without side effects. A bind failure is fatal: it is
// surfaced to the caller and the scheduler is not started.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("stream server already running")
		return nil
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.ln = ln
	s.httpSrv = &http.Server{Handler: mux}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("serve error", "error", err)
		}
	}()

	if err := s.scheduler.Start(ctx); err != nil {
		s.httpSrv.Close()
		return fmt.Errorf("start scheduler: %w", err)
	}

	s.running = true
	s.logger.Info("stream server started", "addr", ln.Addr().String())

	return nil
}

// Stop stops accepting new connections, shuts the scheduler down
// (waiting for its in-flight cycle), then closes all open connections.
// Calling Stop when not running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.logger.Info("stream server not running")
		return nil
	}
	s.running = false
	httpSrv := s.httpSrv
	s.mu.Unlock()

	s.logger.Info("stopping stream server")

	// Close the listener; in-flight WebSocket sessions are hijacked
	// connections and are torn down explicitly below.
	if err := httpSrv.Shutdown(ctx); err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		s.logger.Warn("http shutdown error", "error", err)
	}

	if err := s.scheduler.Stop(ctx); err != nil {
		s.logger.Warn("scheduler stop error", "error", err)
	}

	for _, c := range s.registry.Connections() {
		c.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("handler shutdown timed out")
	}

	s.logger.Info("stream server stopped")
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}
