package ws

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewServer(logger *zap.Logger) *Server {
	return &Server{
		hub:    NewHub(logger),
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// ServeWS upgrades the request and registers the socket under userID. The default
// origin check applies: only same-host pages may connect.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("session socket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(userID, conn, s.hub)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
