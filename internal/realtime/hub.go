package realtime

import (
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/logger"
	"github.com/skill-eureka/backend/internal/models"
)

// Event is an ephemeral push sent over a principal's websocket. Delivery is
// best-effort; missed events are recovered from the notifications endpoint.
type Event struct {
	Type   string            `json:"type"`
	Sender string            `json:"sender"`
	Data   map[string]string `json:"data,omitempty"`
}

// client wraps one connection with a write lock. gorilla/websocket allows
// at most one writer on a connection at a time, and Push is called from
// request goroutines and the fan-out worker concurrently.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (cl *client) write(payload []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks connected websocket clients keyed by principal ID. A principal
// may hold several connections (multiple tabs).
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades the request and keeps the connection registered until
// the peer goes away. Requires JWTAuthMiddleware upstream.
func (h *Hub) HandleWS(c echo.Context) error {
	claims, ok := c.Get("principal").(*models.JwtCustomClaims)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn}
	h.register(claims.PrincipalID, cl)
	go h.readLoop(claims.PrincipalID, cl)
	return nil
}

func (h *Hub) register(principalID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[principalID] == nil {
		h.clients[principalID] = make(map[*client]struct{})
	}
	h.clients[principalID][cl] = struct{}{}
}

func (h *Hub) unregister(principalID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[principalID]; ok {
		delete(clients, cl)
		if len(clients) == 0 {
			delete(h.clients, principalID)
		}
	}
	cl.conn.Close()
}

// readLoop drains the connection so pings and close frames are handled.
func (h *Hub) readLoop(principalID string, cl *client) {
	defer h.unregister(principalID, cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Push sends an event to every connection of the principal. Write failures
// drop the connection; they never propagate to the caller.
func (h *Hub) Push(principalID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.L().Error("marshal realtime event", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients[principalID]))
	for cl := range h.clients[principalID] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			logger.L().Debug("drop stale websocket", "principal", principalID)
			h.unregister(principalID, cl)
		}
	}
}

// ConnectionCount reports the number of live connections for a principal.
func (h *Hub) ConnectionCount(principalID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[principalID])
}
