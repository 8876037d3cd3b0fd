// Command worldd generates a world and serves its tile state over HTTP and
// WebSocket until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/worldforge/internal/config"
	"github.com/lawnchairsociety/worldforge/internal/database"
	"github.com/lawnchairsociety/worldforge/internal/logger"
	"github.com/lawnchairsociety/worldforge/internal/server"
	"github.com/lawnchairsociety/worldforge/internal/world"
)

func main() {
	configFile := flag.String("config", "data/worldforge.yaml", "Path to config YAML file")
	listen := flag.String("listen", "", "Override the listen address")
	seed := flag.Int64("seed", 0, "Override the world seed")
	readOnly := flag.Bool("readonly", false, "Reject every tile mutation")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*configFile)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Starting worldforge server")

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
	}
	if *listen != "" {
		cfg.Server.ListenAddr = *listen
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *readOnly {
		cfg.Server.ReadOnly = true
	}

	m := world.NewManager(cfg.World)
	if cfg.Server.ReadOnly {
		m.SetReadOnly(true)
		logger.Info("Server running in READ-ONLY MODE - tile mutations are rejected")
	}

	if cfg.Archive.Enabled {
		db, err := database.OpenWithConfig(cfg.Archive.Config)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer db.Close()
		m.SetArchive(db)
		logger.Info("World archive enabled", "driver", db.Dialect().DriverName())
	}

	if cfg.Journal.Enabled {
		m.SetJournal(cfg.Journal.Dir, cfg.Journal.Prefix)
		logger.Info("Mutation journal enabled", "dir", cfg.Journal.Dir)
	}

	if err := m.Start(); err != nil {
		log.Fatalf("Failed to start world: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.Error("Failed to close journal", "error", err)
		}
	}()

	switch origins := cfg.Server.WebSocket.AllowedOrigins; {
	case len(origins) == 0:
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	case len(origins) == 1 && origins[0] == "*":
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	default:
		logger.Info("WebSocket CORS policy", "allowed_origins", origins)
	}

	srv := server.New(cfg.Server, m)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutting down server", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped", "uptime", srv.GetUptime().Round(time.Second))
}
