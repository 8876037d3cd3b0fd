package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/protocol"
)

func (s *Server) routes() {
	api := func(h http.HandlerFunc) http.Handler {
		return gzhttp.GzipHandler(s.limited(h))
	}

	s.mux.Handle("GET /api/tile", api(s.handleGetTile))
	s.mux.Handle("GET /api/tiles", api(s.handleGetTiles))
	s.mux.Handle("GET /api/statistics", api(s.handleStatistics))
	s.mux.Handle("GET /api/summary", api(s.handleSummary))
	s.mux.Handle("POST /api/request", api(s.handleRequest))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
}

// limited rejects locked-out clients before h runs.
func (s *Server) limited(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getRealIP(r)
		if locked, remaining := s.rateLimiter.IsLocked(ip); locked {
			w.Header().Set("Retry-After", strconv.Itoa(int(remaining.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, protocol.Response{
				Error: &protocol.Error{
					Code:    protocol.CodeRateLimited,
					Message: fmt.Sprintf("too many invalid requests, retry in %s", remaining.Round(time.Second)),
				},
			})
			return
		}
		h(w, r)
	}
}

func (s *Server) handleGetTile(w http.ResponseWriter, r *http.Request) {
	req := protocol.Request{Op: protocol.OpGetTile}
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		s.respond(w, r, protocol.Failure(req, protocol.CodeBadRequest, "x and y must be integers"))
		return
	}
	req.X, req.Y = x, y
	s.respond(w, r, s.Handle(req))
}

func (s *Server) handleGetTiles(w http.ResponseWriter, r *http.Request) {
	tiles, err := s.backend.Tiles()
	if err != nil {
		s.respond(w, r, s.fail(protocol.Request{Op: "tiles"}, protocol.Response{Op: "tiles"}, err))
		return
	}
	writeJSON(w, http.StatusOK, tiles)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.Handle(protocol.Request{Op: protocol.OpStatistics}))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.Handle(protocol.Request{Op: protocol.OpSummary}))
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.WebSocket.MaxMessageSize))
	if err != nil {
		s.respond(w, r, protocol.Failure(protocol.Request{}, protocol.CodeBadRequest, "request body too large"))
		return
	}
	req, err := protocol.DecodeRequest(body)
	if err != nil {
		s.respond(w, r, s.fail(req, protocol.Response{ID: req.ID, Op: req.Op}, err))
		return
	}
	s.respond(w, r, s.Handle(req))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	clients, ips := s.connLimiter.GetStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"uptime_seconds": int(s.GetUptime().Seconds()),
		"clients":        clients,
		"client_ips":     ips,
	})
}

// respond writes resp and counts bad requests against the caller.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, resp protocol.Response) {
	if resp.Error != nil && resp.Error.Code == protocol.CodeBadRequest {
		ip := getRealIP(r)
		if locked, d := s.rateLimiter.RecordInvalid(ip); locked {
			logger.Warning("Client locked out for invalid requests", "client_ip", ip, "lockout", d)
		}
	}
	writeJSON(w, statusFor(resp), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Failed to write response", "error", err)
	}
}
