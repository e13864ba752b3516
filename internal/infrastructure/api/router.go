package api

import (
	"net/http"
	"time"

	"shopify-orders-gateway/internal/infrastructure/metrics"
	gatewaymiddleware "shopify-orders-gateway/internal/infrastructure/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries the handlers and settings the router wires together.
type RouterConfig struct {
	Auth        *AuthHandler
	Orders      *OrdersHandler
	Shops       *ShopsHandler
	Webhooks    *WebhookHandler
	BearerToken string
	Logger      zerolog.Logger
}

// NewRouter assembles the HTTP surface. OAuth and webhook endpoints are
// public because Shopify calls them; everything under /v1 sits behind the
// bearer gate.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(gatewaymiddleware.RequestLoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(gatewaymiddleware.SecurityHeadersMiddleware())
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Handle("/metrics", metrics.Handler())

	// Swagger documentation - public
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // The URL pointing to API definition
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth", cfg.Auth.Begin)
	r.Get("/auth/callback", cfg.Auth.Callback)

	// Webhook endpoint, verified by signature rather than bearer token
	r.Post("/webhooks/shopify", cfg.Webhooks.Receive)

	// Authenticated API
	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(gatewaymiddleware.BearerAuthMiddleware(cfg.BearerToken, cfg.Logger))
		v1.Get("/orders", cfg.Orders.List)
		v1.Get("/orders/{orderID}", cfg.Orders.GetByID)
		v1.Get("/shops", cfg.Shops.List)
		v1.Delete("/shops/{shop}", cfg.Shops.Delete)
	})

	return r
}
