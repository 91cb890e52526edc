package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"brigade/internal/models"
	"brigade/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // kitchen displays connect from the local network
	},
}

// QueueUpdate is the message pushed to chef displays whenever the order
// queue changes.
type QueueUpdate struct {
	Type   string         `json:"type"`
	Orders []models.Order `json:"orders"`
}

// QueueHub tracks connected chef displays and fans queue updates out to them.
type QueueHub struct {
	mu      sync.Mutex
	clients map[*queueClient]bool
	log     *logrus.Logger
}

// NewQueueHub creates an empty hub.
func NewQueueHub(log *logrus.Logger) *QueueHub {
	return &QueueHub{
		clients: make(map[*queueClient]bool),
		log:     log,
	}
}

type queueClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Broadcast sends one update to every connected display. Slow clients drop
// the message rather than blocking the caller.
func (h *QueueHub) Broadcast(update QueueUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		h.log.WithError(err).Error("marshaling queue update failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.log.Warn("queue display buffer full, dropping update")
		}
	}
}

func (h *QueueHub) register(client *queueClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *QueueHub) unregister(client *queueClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.send)
	}
}

// handleKitchenSocket upgrades a chef display connection, sends a queue
// snapshot, and keeps the connection fed until it closes.
func (s *Server) handleKitchenSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Error("websocket upgrade failed")
		return
	}

	client := &queueClient{
		conn: conn,
		send: make(chan []byte, 16),
	}
	s.hub.register(client)

	// Snapshot so a freshly connected display isn't blank until the next change.
	if orders, err := s.store.QueryOrders(c.Request.Context(), store.OrderFilter{OpenOnly: true}); err == nil {
		if data, err := json.Marshal(QueueUpdate{Type: "queue", Orders: orders}); err == nil {
			client.send <- data
		}
	}

	go client.writePump(s.hub)
	go client.readPump(s.hub)
}

// readPump drains inbound frames (displays never send data we act on) and
// keeps the read deadline fresh through pongs.
func (c *queueClient) readPump(h *QueueHub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Warn("queue display connection error")
			}
			break
		}
	}
}

// writePump pushes queued updates to the display and pings it periodically.
func (c *queueClient) writePump(h *QueueHub) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
