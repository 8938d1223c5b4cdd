// Package livefeed pushes itinerary lifecycle events to the owner's open
// WebSocket connections.
package livefeed

import (
	"sync"

	json "github.com/goccy/go-json"

	"tripwise/logging"
	"tripwise/metrics"
	"tripwise/mq"
)

type Client struct {
	Send   chan []byte
	UserID string
}

type broadcastMsg struct {
	UserID string
	Data   []byte
}

// Hub fans messages out to every client registered for a user.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 64),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.UserID] == nil {
				h.rooms[c.UserID] = make(map[*Client]bool)
			}
			h.rooms[c.UserID][c] = true
			h.mu.Unlock()
			metrics.LiveConnections.Inc()

		case c := <-h.unregister:
			h.remove(c)

		case m := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for c := range h.rooms[m.UserID] {
				select {
				case c.Send <- m.Data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}

		case <-h.quit:
			h.mu.Lock()
			for uid, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
					metrics.LiveConnections.Dec()
				}
				delete(h.rooms, uid)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.rooms[c.UserID]
	if !conns[c] {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.rooms, c.UserID)
	}
	close(c.Send)
	metrics.LiveConnections.Dec()
}

// Stop ends Run and closes every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Publish queues data for every connection of userID.
func (h *Hub) Publish(userID string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{UserID: userID, Data: data}:
	case <-h.quit:
	}
}

// Connections reports how many clients userID has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Forward relays lifecycle events from the message bus to their owners.
func (h *Hub) Forward(ev mq.Event) {
	if ev.UserID == "" {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logging.Warn().Err(err).Str("type", ev.Type).Msg("livefeed: encode event")
		return
	}
	h.Publish(ev.UserID, data)
}

