// Package stats broadcasts live frame metrics over a websocket so the
// viewer's performance can be watched from a browser or script.
package stats

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xeokit/xeokit-sdk-sub013/internal/logger"
)

// Frame is one metrics sample sent to every connected client.
type Frame struct {
	FPS           float64 `json:"fps"`
	LodLevel      int     `json:"lodLevel"`
	CulledObjects int     `json:"culledObjects"`
	DrawCalls     int     `json:"drawCalls"`
	Triangles     int     `json:"triangles"`
	Frame         uint64  `json:"frame"`
}

// Server accepts websocket clients on /ws and pushes them every
// published frame. Writes are serialized per connection; a failed
// write drops the client.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	srv      *http.Server

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// New creates a stats server for the given listen address.
func New(addr string) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start listens in the background. Errors other than a clean shutdown
// are logged, not returned; a dead stats feed must not stop the
// viewer.
func (s *Server) Start() {
	s.srv = &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		logger.Log.Info("stats server listening", zap.String("addr", s.addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("stats server failed", zap.Error(err))
		}
	}()
}

// Publish sends a frame to every connected client.
func (s *Server) Publish(f Frame) {
	s.mu.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(s.clients))
	for conn, mu := range s.clients {
		conns[conn] = mu
	}
	s.mu.RUnlock()

	for conn, mu := range conns {
		mu.Lock()
		err := conn.WriteJSON(f)
		mu.Unlock()
		if err != nil {
			s.removeClient(conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close drops all clients and stops the listener.
func (s *Server) Close() {
	s.mu.Lock()
	for conn := range s.clients {
		conn.Close()
	}
	s.clients = make(map[*websocket.Conn]*sync.Mutex)
	s.mu.Unlock()

	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.srv.Shutdown(ctx); err != nil {
			logger.Log.Warn("stats server shutdown", zap.Error(err))
		}
		s.srv = nil
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = &sync.Mutex{}
	s.mu.Unlock()
	logger.Log.Info("stats client connected", zap.String("remote", conn.RemoteAddr().String()))

	defer s.removeClient(conn)
	// Drain incoming messages until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if ok {
		conn.Close()
	}
}
