package ws

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/prosperva/gridstate/internal/domain/store"
	"github.com/prosperva/gridstate/internal/infrastructure/logging"
	"github.com/prosperva/gridstate/internal/infrastructure/monitoring"
	"github.com/prosperva/gridstate/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are enforced by the CORS layer
	},
}

// Hub fans grid-state change events out to the WebSocket subscribers of
// each session, so collaborating views can mirror mutations they did not
// make themselves. Implements store.Publisher.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]map[*conn]struct{} // sessionID -> connections
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// conn serializes writes to one WebSocket connection.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(messageType, data)
}

// NewHub creates a new event hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		conns:  make(map[string]map[*conn]struct{}),
		logger: logger,
	}
}

// WithMetrics adds metrics tracking to the hub.
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and subscribes it to the session
// named by the `session` query parameter.
func (h *Hub) HandleConnection(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session query parameter is required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	subscriber := &conn{ws: ws}
	h.register(sessionID, subscriber)
	defer h.unregister(sessionID, subscriber)

	h.send(subscriber, map[string]interface{}{
		"type":    "system",
		"message": "subscribed",
		"session": sessionID,
	})

	for {
		var msg types.WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "ping":
			h.send(subscriber, map[string]interface{}{"type": "pong"})
		default:
			h.send(subscriber, map[string]interface{}{
				"type":  "error",
				"error": "unknown message type",
			})
		}
	}
}

// Publish delivers a store event to every subscriber of the session.
func (h *Hub) Publish(sessionID string, event store.Event) {
	h.mu.RLock()
	subscribers := make([]*conn, 0, len(h.conns[sessionID]))
	for subscriber := range h.conns[sessionID] {
		subscribers = append(subscribers, subscriber)
	}
	h.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	data, err := sonic.Marshal(event)
	if err != nil {
		h.logger.Warn("Failed to encode event", zap.Error(err))
		return
	}

	for _, subscriber := range subscribers {
		if err := subscriber.write(websocket.TextMessage, data); err != nil {
			h.logger.Debug("Dropping dead subscriber", zap.String("session_id", sessionID), zap.Error(err))
			h.unregister(sessionID, subscriber)
		}
	}

	if h.metrics != nil {
		h.metrics.IncWSEvent(event.Type)
	}
}

func (h *Hub) register(sessionID string, subscriber *conn) {
	h.mu.Lock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*conn]struct{})
	}
	h.conns[sessionID][subscriber] = struct{}{}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
}

func (h *Hub) unregister(sessionID string, subscriber *conn) {
	h.mu.Lock()
	set, ok := h.conns[sessionID]
	if ok {
		if _, present := set[subscriber]; present {
			delete(set, subscriber)
			if len(set) == 0 {
				delete(h.conns, sessionID)
			}
			h.mu.Unlock()
			subscriber.ws.Close()
			if h.metrics != nil {
				h.metrics.DecWSConnections()
			}
			return
		}
	}
	h.mu.Unlock()
}

func (h *Hub) send(subscriber *conn, payload map[string]interface{}) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return
	}
	if err := subscriber.write(websocket.TextMessage, data); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
	}
}
