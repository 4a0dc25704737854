// Package main is the entry point for the portfolio dashboard service.
// It maintains a live valuation of the held portfolio by polling a market
// data source, derives portfolio-level metrics and allocations, and serves
// the derived state over HTTP to the browser dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/clients/yahoo"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/config"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/events"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/holdings"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/metrics"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/modules/performance"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/scheduler"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/internal/server"
	"github.com/DorianoDrzajic/portfolio-metrics-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting portfolio dashboard")

	// Market data client and valuation pipeline
	quoteClient := yahoo.NewClient(cfg.QuoteBaseURL, cfg.QuoteTimeout, log)
	reconciler := holdings.NewReconciler(quoteClient, cfg.HistoryLookbackDays, log)
	cache := holdings.NewCache(reconciler, holdings.ReferencePortfolio(), cfg.FreshnessWindow, log)

	metricsService := metrics.NewService(log)
	perfBuilder := performance.NewBuilder(cfg.SMAPeriod, log)
	eventBus := events.NewBus()

	// Periodic refresh, one consumer per view cadence
	sched := scheduler.New(log)

	refreshTimeout := cfg.QuoteTimeout * 2
	if _, err := sched.Every(cfg.RefreshInterval, holdings.NewRefreshJob(cache, eventBus, refreshTimeout, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register portfolio refresh job")
	}
	if _, err := sched.Every(cfg.PerformanceRefreshInterval, performance.NewRefreshJob(cache, perfBuilder, eventBus, refreshTimeout, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register performance refresh job")
	}

	sched.Start()

	// Prime the cache so the first page load does not wait on the full
	// fan-out inside a request.
	go func() {
		if err := sched.RunNow(holdings.NewRefreshJob(cache, eventBus, refreshTimeout, log)); err != nil {
			log.Warn().Err(err).Msg("Initial refresh degraded, serving reference data")
		}
	}()

	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Cache:    cache,
		Metrics:  metricsService,
		Builder:  perfBuilder,
		EventBus: eventBus,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
