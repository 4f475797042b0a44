package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/contre95/maichart/src/features/config"
	"github.com/contre95/maichart/src/features/hosting"
	"github.com/contre95/maichart/src/features/logging"
	"github.com/contre95/maichart/src/features/metrics"
	"github.com/contre95/maichart/src/features/songs"
	"github.com/contre95/maichart/src/features/stats"
	"github.com/contre95/maichart/src/infra/source"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	m := metrics.New()

	// Create the catalog store
	catalogCfg := cfgManager.Get().Catalog
	store := source.NewStore(catalogCfg.Path, source.Options{
		RejectDuplicateIDs: catalogCfg.RejectDuplicateIDs,
		Observer:           m,
	})
	if catalogCfg.Preload {
		if err := store.Load(); err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
	}

	songsService := songs.NewService(store)
	statsService := stats.NewService(store, songsService)

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, songsService, statsService, m)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
