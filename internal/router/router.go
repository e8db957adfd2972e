package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"sterna-backend/internal/handlers"
	"sterna-backend/internal/metrics"
	"sterna-backend/internal/middleware"
	"sterna-backend/internal/websocket"
)

// New builds the HTTP surface. wsHub may be nil, in which case live session
// updates are not served.
func New(
	chatHandler *handlers.ChatHandler,
	wsHub *websocket.Hub,
	m *metrics.Metrics,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Post("/messages", chatHandler.SendMessage)

	r.Route("/sessions/{sessionId}", func(r chi.Router) {
		r.Get("/messages", chatHandler.ListMessages)
		r.Delete("/messages", chatHandler.ClearMessages)

		if wsHub != nil {
			r.Get("/ws", wsHub.HandleWebSocket)
		}
	})

	return r
}
