package httpserver

import (
	"net/http"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sweetshop/internal/auth"
	"sweetshop/internal/httpx"
	"sweetshop/internal/inventory"
	"sweetshop/internal/observability"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	inventorySvc *inventory.Service,
) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth
	mux.Handle("POST /api/auth/register", &auth.RegisterHandler{Service: authSvc, Logger: logger})
	mux.Handle("POST /api/auth/login", &auth.LoginHandler{Service: authSvc, Logger: logger})

	// Sweets
	sweets := &inventory.Handler{Service: inventorySvc, Logger: logger}
	user := auth.RequireAuthenticated
	admin := func(h http.HandlerFunc) http.HandlerFunc { return auth.RequireRole(h, auth.RoleAdmin) }

	mux.HandleFunc("GET /api/sweets", user(sweets.List))
	mux.HandleFunc("GET /api/sweets/search", user(sweets.Search))
	mux.HandleFunc("GET /api/sweets/{id}", user(sweets.Get))
	mux.HandleFunc("POST /api/sweets/{id}/purchase", user(sweets.Purchase))
	mux.HandleFunc("POST /api/sweets", admin(sweets.Create))
	mux.HandleFunc("PUT /api/sweets/{id}", admin(sweets.Update))
	mux.HandleFunc("DELETE /api/sweets/{id}", admin(sweets.Delete))
	mux.HandleFunc("POST /api/sweets/{id}/restock", admin(sweets.Restock))

	var h http.Handler = mux
	h = auth.Middleware(authSvc, logger)(h)
	h = withRequestLogging(logger, h)
	h = observability.MetricsMiddleware(h)
	h = withRecovery(logger, h)
	h = withRequestID(h)
	// CORS wrapper (for the browser UI).
	return withCORS(h)
}
