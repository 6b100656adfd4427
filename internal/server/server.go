// Package server exposes the game core over WebSocket: a registry of live
// games, a JSON message protocol onto the dispatch surface, and event
// fan-out to watching clients.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server is the WebSocket boundary.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   *log.Logger
	service  *GameService
	ctx      context.Context
	cancel   context.CancelFunc

	mu          sync.Mutex
	connections map[*Connection]bool
	httpServer  *http.Server
}

// NewServer creates a server for the given service.
func NewServer(addr string, service *GameService, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Origins are not checked: the server fronts trusted clients.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		service:     service,
		ctx:         ctx,
		cancel:      cancel,
		connections: make(map[*Connection]bool),
	}
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.mu.Lock()
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("starting websocket server", "addr", s.addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down and closes all connections.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.service)
	s.service.register(client)

	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()

	s.logger.Info("client connected", "total", total)
	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		remaining := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "total", remaining)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
