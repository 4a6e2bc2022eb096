// Package feed broadcasts committed operation events to websocket
// subscribers.
package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solana-staking-vault/internal/domain"
	"solana-staking-vault/internal/observability"
)

// HubConfig configures hub behavior.
type HubConfig struct {
	// SendBuffer is the per-client buffered event count; a client whose
	// buffer is full is evicted rather than allowed to stall the hub.
	SendBuffer int
	// WriteTimeout is timeout for writing a frame to a client.
	WriteTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// PongTimeout is how long to wait for a pong before dropping a client.
	PongTimeout time.Duration
}

// DefaultHubConfig returns default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		SendBuffer:   64,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}

// Hub fans operation events out to connected websocket clients.
// Publish never blocks on a slow client.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewHub creates a hub. A nil config uses defaults.
func NewHub(config *HubConfig, logger *log.Logger) *Hub {
	cfg := DefaultHubConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Feed is read-only and carries no credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish implements staking.EventSink.
func (h *Hub) Publish(e *domain.OperationEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.logger.Printf("[feed] marshal event %s: %v", e.EventID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
			observability.DefaultMetrics.FeedEventsSent.Inc()
		default:
			// Slow client: evict instead of blocking the hub.
			h.dropLocked(c)
			observability.DefaultMetrics.FeedClientsEvicted.Inc()
		}
	}
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[feed] upgrade: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, h.config.SendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	observability.DefaultMetrics.FeedClients.Inc()

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop delivers buffered events and keeps the connection alive
// with pings.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(h.config.WriteTimeout))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.drop(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop discards inbound frames; it exists to process control
// messages and detect disconnects.
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

// drop removes a client and closes its connection.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.done)
	c.conn.Close()
	observability.DefaultMetrics.FeedClients.Dec()
}

// Close disconnects every client and stops accepting new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
