package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-advisor/internal/api/http"
	"github.com/i474232898/weather-advisor/internal/config"
	"github.com/i474232898/weather-advisor/internal/register"
	"github.com/i474232898/weather-advisor/internal/scheduler"
	"github.com/i474232898/weather-advisor/internal/store"
	"github.com/i474232898/weather-advisor/internal/weather"
	"github.com/i474232898/weather-advisor/internal/weather/providers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatalf("weather-advisor: %v", err)
	}
}

// run wires the service and serves until ctx is cancelled or the listener
// fails. Every failure after startup returns here so deferred cleanup runs.
func run(ctx context.Context) error {
	// Load configuration (.env, config.yaml, environment).
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if cfg.OWM.APIKey == "" {
		logger.Warn("no OpenWeatherMap API key configured; weather lookups will fail")
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.Upstream.Timeout,
	}

	owm := providers.NewOpenWeatherClient(httpClient, providers.OpenWeatherConfig{
		APIKey:       cfg.OWM.APIKey,
		GeocodingURL: cfg.OWM.GeocodingURL,
		CurrentURL:   cfg.OWM.CurrentURL,
		OneCallURL:   cfg.OWM.OneCallURL,
		Breaker: providers.BreakerConfig{
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            cfg.Breaker.Interval,
			Timeout:             cfg.Breaker.Timeout,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		},
	})

	// Core pipeline: geocode, classify, fetch, normalize, advise.
	service := weather.NewService(weather.NewGeocoder(owm, logger), owm, logger)

	registerStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s register store: %w", cfg.Store.Driver, err)
	}
	defer closeStore()
	registers := register.NewService(registerStore, logger)

	// Periodic upstream probe feeding /health.
	probe := scheduler.New(service, cfg.Probe.City, cfg.Probe.Interval, logger)
	if err := probe.Start(); err != nil {
		return fmt.Errorf("failed to start probe: %w", err)
	}
	defer probe.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-advisor",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          httpapi.NewErrorHandler(logger),
	})

	// Global middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:" + httpapi.RequestIDKey + "} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Weather:        service,
		Registers:      registers,
		Probe:          probe,
		RequestTimeout: cfg.Upstream.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	// Start server with graceful shutdown
	listenErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ServerAddr())
		listenErr <- app.Listen(cfg.ServerAddr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (register.Store, func(), error) {
	if cfg.Store.Driver == config.StoreSQLite {
		s, err := store.OpenSQLite(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return store.NewMemoryStore(), func() {}, nil
}
