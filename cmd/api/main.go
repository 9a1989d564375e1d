// Package main is the entrypoint for the FacturaFácil API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/facturafacil/facturafacil/internal/cache"
	"github.com/facturafacil/facturafacil/internal/config"
	"github.com/facturafacil/facturafacil/internal/export"
	"github.com/facturafacil/facturafacil/internal/handler"
	"github.com/facturafacil/facturafacil/internal/metrics"
	"github.com/facturafacil/facturafacil/internal/middleware"
	"github.com/facturafacil/facturafacil/internal/repository"
	"github.com/facturafacil/facturafacil/internal/server"
	"github.com/facturafacil/facturafacil/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	if cfg.AutoMigrate {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	authService := service.NewAuthService(repo, cacheClient, cfg.SessionTTL, metricsRecorder, logger)
	clientService := service.NewClientService(repo, metricsRecorder)
	invoiceService := service.NewInvoiceService(repo, metricsRecorder)
	dashboardService := service.NewDashboardService(repo, metricsRecorder)

	// Setup router
	router := handler.NewRouter(handler.RouterConfig{
		Logger:    logger,
		Health:    handler.NewHealthHandler(repo, cacheClient, logger),
		Metrics:   handler.NewMetricsHandler(metricsRecorder),
		Auth:      handler.NewAuthHandler(authService, logger, cfg.SessionCookieSecure),
		Clients:   handler.NewClientHandler(clientService, logger),
		Invoices:  handler.NewInvoiceHandler(invoiceService, export.NewPDFRenderer(cfg.CurrencySymbol), metricsRecorder, logger),
		Dashboard: handler.NewDashboardHandler(dashboardService, logger),
		Sessions:  authService,
		RateLimit: middleware.RateLimitConfig{
			Logger:       logger,
			Limiter:      cacheClient,
			Metrics:      metricsRecorder,
			APIEnabled:   cfg.RateLimitAPIEnabled,
			APIRPM:       cfg.RateLimitAPIRPM,
			APIBurst:     cfg.RateLimitAPIBurst,
			LoginEnabled: cfg.RateLimitLoginEnabled,
			LoginRPS:     cfg.RateLimitLoginRPS,
			LoginBurst:   cfg.RateLimitLoginBurst,
		},
		CORS:               corsConfig(cfg),
		Security:           middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create and run server
	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Hooks run last-registered first: Redis closes before PostgreSQL.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// corsConfig applies the configured origins to the default CORS policy.
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); origins != nil {
		cors.AllowedOrigins = origins
	}
	return cors
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
