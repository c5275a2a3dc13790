// Package websocket streams session events to live watchers. Clients
// subscribe per session id; the hub fans every event of that session
// out to all of its open connections.
package websocket

import (
	"github.com/google/uuid"

	"shareholder-qa-sim/internal/pkg/logger"
)

// sessionEvent pairs an outbound payload with the session it belongs to.
type sessionEvent struct {
	sessionID uuid.UUID
	data      []byte
}

type Hub struct {
	// Registered clients, keyed by the session they watch. Owned by the
	// Run goroutine; every mutation and Send close happens there.
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan sessionEvent

	logger logger.ILogger
}

func NewHub(logger logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan sessionEvent, 64),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			if h.remove(client) {
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.SessionID})
			}

		case evt := <-h.broadcast:
			watchers := append([]*Client(nil), h.clients[evt.sessionID]...)
			for _, client := range watchers {
				select {
				case client.Send <- evt.data:
				default:
					h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"session_id": evt.sessionID})
					h.remove(client)
				}
			}
		}
	}
}

// remove drops a client from its session's watcher list and closes its
// Send channel. Run-goroutine only; a client already dropped by a full
// broadcast buffer makes the later unregister from readPump a no-op.
func (h *Hub) remove(client *Client) bool {
	watchers := h.clients[client.SessionID]
	for i, c := range watchers {
		if c == client {
			h.clients[client.SessionID] = append(watchers[:i], watchers[i+1:]...)
			close(client.Send)
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			return true
		}
	}
	return false
}

// Broadcast implements service.Broadcaster. Delivery is handed to the
// Run goroutine, the only writer allowed to close client channels.
func (h *Hub) Broadcast(sessionID uuid.UUID, data []byte) {
	h.broadcast <- sessionEvent{sessionID: sessionID, data: data}
}
