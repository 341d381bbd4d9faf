package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stock-analytics/internal/analytics"
	"github.com/andresuchdata/stock-analytics/internal/api"
	"github.com/andresuchdata/stock-analytics/internal/cache"
	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/andresuchdata/stock-analytics/internal/service"
	"github.com/andresuchdata/stock-analytics/internal/source"
	"github.com/andresuchdata/stock-analytics/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Log.Format, cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize snapshot source
	repo, closeSource, err := source.Open(cfg.Analytics.Source, cfg, source.Options{})
	if err != nil {
		logger.Log.Fatal().Err(err).Str("source", cfg.Analytics.Source).Msg("Failed to open snapshot source")
	}
	defer closeSource()

	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Snapshot cache unavailable, continuing without it")
		snapshotCache = cache.NewNoopSnapshotCache()
	}

	// Initialize services
	stockService := service.NewStockAnalyticsService(repo, snapshotCache, analytics.Options{
		Workers:      cfg.Analytics.Workers,
		NameFallback: cfg.Analytics.NameFallback,
	})

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{StockAnalyticsService: stockService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("source", cfg.Analytics.Source).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
