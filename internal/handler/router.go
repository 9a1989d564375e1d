package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/facturafacil/facturafacil/internal/middleware"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Logger *slog.Logger

	Health    *HealthHandler
	Metrics   *MetricsHandler
	Auth      *AuthHandler
	Clients   *ClientHandler
	Invoices  *InvoiceHandler
	Dashboard *DashboardHandler

	Sessions  middleware.SessionAuthenticator
	RateLimit middleware.RateLimitConfig
	CORS      middleware.CORSConfig
	Security  middleware.SecurityConfig

	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	// Probes and metrics (no auth required)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)

	authCfg := middleware.AuthConfig{
		Logger:   cfg.Logger,
		Sessions: cfg.Sessions,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", cfg.Auth.Register)
		r.With(middleware.RateLimitLogin(cfg.RateLimit)).Post("/auth/login", cfg.Auth.Login)

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.CaptureUser)
			r.Use(middleware.RateLimitAPI(cfg.RateLimit))

			r.Post("/auth/logout", cfg.Auth.Logout)
			r.Get("/auth/me", cfg.Auth.Me)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", cfg.Clients.List)
				r.Post("/", cfg.Clients.Create)
				r.Get("/{id}", cfg.Clients.Get)
				r.Put("/{id}", cfg.Clients.Update)
				r.Delete("/{id}", cfg.Clients.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", cfg.Invoices.List)
				r.Post("/", cfg.Invoices.Create)
				r.Get("/next-number", cfg.Invoices.NextNumber)
				r.Get("/export.csv", cfg.Invoices.ExportCSV)
				r.Get("/{id}", cfg.Invoices.Get)
				r.Put("/{id}", cfg.Invoices.Update)
				r.Delete("/{id}", cfg.Invoices.Delete)
				r.Get("/{id}/pdf", cfg.Invoices.PDF)
			})

			r.Get("/invoice-statuses", cfg.Invoices.Statuses)
			r.Get("/dashboard", cfg.Dashboard.Summary)
		})
	})

	// 404 and 405 handlers
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
