// Package server exposes a world's tile state over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lawnchairsociety/worldforge/internal/config"
	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/terrain"
	"github.com/lawnchairsociety/worldforge/internal/tilestore"
)

// Backend is the world the server fronts. *world.Manager implements it.
type Backend interface {
	Tiles() ([][]terrain.Tile, error)
	TileState(x, y int) (terrain.Tile, error)
	UpdateTileState(x, y int, p tilestore.Patch) (terrain.Tile, error)
	UpdateTileStates(updates []tilestore.Update) (int, error)
	ApplyFarming(x, y int) (terrain.Tile, error)
	ApplyBuilding(x, y int, building string) (terrain.Tile, error)
	ApplyErosion(x, y int, intensity float64) (terrain.Tile, error)
	ApplyAgeEffects(x, y int, years float64) (terrain.Tile, error)
	StartFire(x, y int) (terrain.Tile, error)
	ExtinguishFire(x, y int) (terrain.Tile, error)
	Statistics() (tilestore.Statistics, error)
	Summary() terrain.Summary
	WorldID() string
}

type Server struct {
	cfg     config.ServerConfig
	backend Backend
	mux     *http.ServeMux

	mu         sync.Mutex
	httpServer *http.Server
	clients    map[*WebSocketClient]struct{}

	connLimiter  *ConnLimiter
	rateLimiter  *RequestRateLimiter
	shutdown     chan struct{}
	shutdownOnce sync.Once
	StartTime    time.Time
}

// New creates a server for backend. Nothing listens until ListenAndServe.
func New(cfg config.ServerConfig, backend Backend) *Server {
	s := &Server{
		cfg:         cfg,
		backend:     backend,
		mux:         http.NewServeMux(),
		clients:     make(map[*WebSocketClient]struct{}),
		connLimiter: NewConnLimiter(cfg.Connections),
		rateLimiter: NewRequestRateLimiter(cfg.RateLimit),
		shutdown:    make(chan struct{}),
		StartTime:   time.Now(),
	}
	s.routes()
	return s
}

// Handler returns the server's routes for embedding or testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.mu.Lock()
	select {
	case <-s.shutdown:
		s.mu.Unlock()
		return http.ErrServerClosed
	default:
	}
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	logger.Info("Tile server listening", "address", s.cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes every WebSocket client.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		close(s.shutdown)
		srv := s.httpServer
		clients := make([]*WebSocketClient, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		s.rateLimiter.Stop()

		for _, c := range clients {
			c.Close()
		}

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		logger.Info("Tile server shutdown complete", "clients_closed", len(clients))
	})
	return err
}

// GetUptime returns how long the server has been running.
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) addClient(c *WebSocketClient) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.shutdown:
		return false
	default:
	}
	s.clients[c] = struct{}{}
	return true
}

func (s *Server) removeClient(c *WebSocketClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, c)
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if clientIP := strings.TrimSpace(strings.Split(xff, ",")[0]); clientIP != "" {
			return clientIP
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// extractIP extracts the IP address from a remote address string (ip:port format).
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
