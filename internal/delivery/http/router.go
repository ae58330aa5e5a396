package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "committeehub/docs"
	"committeehub/internal/delivery/http/controllers"
	"committeehub/internal/delivery/http/middleware"
	"committeehub/internal/delivery/socket"
)

// NewRouter initializes the HTTP router with all application routes, wrapped in CORS and request logging.
func NewRouter(logger *slog.Logger, allowedOrigins []string, committeeController *controllers.CommitteeController, hub *socket.Hub, upgrader *websocket.Upgrader) http.Handler {
	mux := http.NewServeMux()

	// Event channel
	mux.HandleFunc("GET /ws", hub.ServeWS(upgrader))

	// Read-only committee API
	mux.HandleFunc("GET /committees", committeeController.ListCommittees)
	mux.HandleFunc("GET /committees/{id}", committeeController.GetCommittee)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
