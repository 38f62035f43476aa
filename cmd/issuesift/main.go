package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/issuesift/issuesift/internal/app"
	"github.com/issuesift/issuesift/internal/platform/config"
	"github.com/issuesift/issuesift/internal/platform/observability"
	"github.com/issuesift/issuesift/internal/platform/worker"
)

func main() {
	// Setup logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set log level
	setLogLevel(cfg.LogLevel)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// Assemble the crawler
	a, err := app.New(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create crawler")
	}
	defer a.Close()

	// Start health server
	var readiness observability.Pinger

	if db := a.DB(); db != nil {
		readiness = db
	}

	healthServer := observability.NewServer(readiness, cfg.HealthPort, &logger)

	go func() {
		logger.Info().Int("port", cfg.HealthPort).Msg("Starting health server")

		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Health server error")
		}
	}()

	// Run the crawl, once or on a schedule
	if cfg.CrawlInterval > 0 {
		err = worker.Loop(ctx, worker.Config{
			Name:       "crawl",
			Interval:   cfg.CrawlInterval,
			RunOnStart: true,
			Logger:     &logger,
			OnTick: func(ctx context.Context) {
				if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("Crawl run failed")
				}
			},
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("Worker loop error")
		}
	} else if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("Crawler error")
	}

	logger.Info().Msg("Crawler stopped")
}

// setLogLevel sets the global log level based on the configuration.
func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
