package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/protocol"
)

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if locked, _ := s.rateLimiter.IsLocked(clientIP); locked {
		http.Error(w, "Too many invalid requests. Please try again later.", http.StatusTooManyRequests)
		return
	}

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	go s.handleWebSocketConnection(wsConn, clientIP)
}

// handleWebSocketConnection answers each JSON line the client sends.
func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	client := NewWebSocketClient(wsConn)
	defer func() {
		s.removeClient(client)
		s.connLimiter.Release(clientIP)
		client.Close()
	}()

	if !s.addClient(client) {
		return
	}
	wsConn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
	logger.Info("WebSocket client connected", "client_ip", clientIP)

	for {
		line, err := client.ReadLine()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket read failed", "client_ip", clientIP, "error", err)
			}
			logger.Info("WebSocket client disconnected", "client_ip", clientIP)
			return
		}

		var resp protocol.Response
		req, err := protocol.DecodeRequest([]byte(line))
		if err != nil {
			resp = s.fail(req, protocol.Response{ID: req.ID, Op: req.Op}, err)
		} else {
			resp = s.Handle(req)
		}

		if err := client.WriteJSON(resp); err != nil {
			logger.Debug("WebSocket write failed", "client_ip", clientIP, "error", err)
			return
		}

		if resp.Error == nil || resp.Error.Code != protocol.CodeBadRequest {
			continue
		}
		if locked, d := s.rateLimiter.RecordInvalid(clientIP); locked {
			logger.Warning("Client locked out for invalid requests", "client_ip", clientIP, "lockout", d)
			client.WriteJSON(protocol.Response{Error: &protocol.Error{
				Code:    protocol.CodeRateLimited,
				Message: "too many invalid requests",
			}})
			client.CloseWithReason(websocket.ClosePolicyViolation, "too many invalid requests")
			return
		}
	}
}
