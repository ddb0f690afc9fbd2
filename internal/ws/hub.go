package ws

import (
	"context"

	"go.uber.org/zap"
)

// Hub tracks open session sockets and routes each event to the sockets of the
// user it names.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case msg := <-h.broadcast:
			delivered := 0
			for c := range h.clients {
				if msg.UserID != "" && c.UserID != msg.UserID {
					continue
				}
				select {
				case c.send <- msg:
					delivered++
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.logger.Debug("session event dispatched",
				zap.String("type", msg.Type),
				zap.String("user_id", msg.UserID),
				zap.Int("sockets", delivered))
		}
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c; a stopped hub has already dropped it.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Dispatch queues msg for delivery. It drops the message when ctx ends first.
func (h *Hub) Dispatch(ctx context.Context, msg Message) {
	select {
	case h.broadcast <- msg:
	case <-ctx.Done():
	}
}
