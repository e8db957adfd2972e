package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"sterna-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscribeFunc yields raw event payloads for one session until ctx ends.
type subscribeFunc func(ctx context.Context, sessionID string) <-chan string

// Hub relays session events published on Redis to every websocket open on
// that session. One Redis subscription is held per session with listeners.
type Hub struct {
	mu          sync.RWMutex
	connections map[string][]*websocket.Conn
	cancelFuncs map[string]context.CancelFunc
	subscribe   subscribeFunc
	logger      *slog.Logger
}

func NewHub(redisClient *redis.Client, logger *slog.Logger) *Hub {
	return newHub(redisSubscriber(redisClient), logger)
}

func newHub(subscribe subscribeFunc, logger *slog.Logger) *Hub {
	return &Hub{
		connections: make(map[string][]*websocket.Conn),
		cancelFuncs: make(map[string]context.CancelFunc),
		subscribe:   subscribe,
		logger:      logger,
	}
}

func redisSubscriber(client *redis.Client) subscribeFunc {
	return func(ctx context.Context, sessionID string) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			pubsub := client.Subscribe(ctx, services.SessionChannel(sessionID))
			defer pubsub.Close()

			ch := pubsub.Channel()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- msg.Payload:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
		return out
	}
}

// HandleWebSocket handles GET /sessions/{sessionId}/ws. Clients only listen;
// anything they send is discarded.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}

	h.registerConnection(sessionID, conn)

	go func() {
		defer h.unregisterConnection(sessionID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) registerConnection(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], conn)

	if len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.relay(ctx, sessionID)
	}

	h.logger.Debug("websocket connected", "session_id", sessionID, "total", len(h.connections[sessionID]))
}

func (h *Hub) unregisterConnection(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	conns := h.connections[sessionID]
	for i, c := range conns {
		if c == conn {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.logger.Debug("websocket disconnected", "session_id", sessionID)
}

func (h *Hub) relay(ctx context.Context, sessionID string) {
	for payload := range h.subscribe(ctx, sessionID) {
		h.broadcast(sessionID, []byte(payload))
	}
}

func (h *Hub) broadcast(sessionID string, data []byte) {
	// Write lock: gorilla connections allow only one concurrent writer.
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.connections[sessionID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("websocket write failed", "session_id", sessionID, "error", err)
		}
	}
}

// Close drops every subscription and connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, cancel := range h.cancelFuncs {
		cancel()
		delete(h.cancelFuncs, sessionID)
	}
	for sessionID, conns := range h.connections {
		for _, c := range conns {
			c.Close()
		}
		delete(h.connections, sessionID)
	}
}
