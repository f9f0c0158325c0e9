// Package realtime pushes live events (new requests, SOS alerts, status changes)
// to connected dispatcher dashboards over websockets, fanned out across instances
// through Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event names pushed to dashboards.
const (
	EventRequestCreated    = "request.created"
	EventRequestSOS        = "request.sos"
	EventRequestStatus     = "request.status"
	EventAssignmentCreated = "assignment.created"
)

// Message is the envelope written to websocket clients.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
	At    time.Time   `json:"at"`
}

// Hub tracks connected dashboard clients and broadcasts events to them.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*websocket.Conn]struct{}
	pubsub *PubSub
	logger *zap.Logger
}

// NewHub creates a hub. When pubsub is non-nil, broadcasts travel through Redis so
// every instance delivers to its own clients; otherwise delivery is local only.
func NewHub(logger *zap.Logger, pubsub *PubSub) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		conns:  make(map[*websocket.Conn]struct{}),
		pubsub: pubsub,
		logger: logger,
	}
	if pubsub != nil {
		if err := pubsub.Subscribe(h.deliver); err != nil {
			logger.Warn("event subscription failed, falling back to local broadcast", zap.Error(err))
			h.pubsub = nil
		}
	}
	return h
}

// Broadcast publishes an event to all connected dashboards. Failures are logged
// and dropped; a dashboard push never blocks the operation that triggered it.
func (h *Hub) Broadcast(event string, data interface{}) {
	if h.pubsub != nil {
		if err := h.pubsub.Publish(context.Background(), event, data); err != nil {
			h.logger.Warn("event publish failed", zap.Error(err), zap.String("event", event))
		}
		return
	}
	raw, err := json.Marshal(Message{Event: event, Data: data, At: time.Now()})
	if err != nil {
		return
	}
	h.deliverRaw(raw)
}

// deliver fans a pubsub message out to local connections.
func (h *Hub) deliver(event string, payload []byte) {
	raw, err := json.Marshal(Message{Event: event, Data: json.RawMessage(payload), At: time.Now()})
	if err != nil {
		return
	}
	h.deliverRaw(raw)
}

func (h *Hub) deliverRaw(raw []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns {
		_ = conn.WriteMessage(websocket.TextMessage, raw)
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// ClientCount returns the number of locally connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenValidator checks the token passed in the websocket query string.
type TokenValidator func(token string) (userID, role string, err error)

// ServeWs upgrades GET /ws connections. The feed is read-only for clients; inbound
// frames are discarded.
func ServeWs(hub *Hub, logger *zap.Logger, validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		userID, role, err := validate(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		hub.add(conn)
		logger.Info("dashboard connected", zap.String("user_id", userID), zap.String("role", role))

		go func() {
			defer hub.remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
