package main

import (
	"fmt"
	"os"

	"github.com/matheus05dev/mindforge-front-sub001/internal/config"
	"github.com/matheus05dev/mindforge-front-sub001/internal/logger"
	"github.com/matheus05dev/mindforge-front-sub001/internal/server"
	"github.com/matheus05dev/mindforge-front-sub001/internal/session"
	"github.com/matheus05dev/mindforge-front-sub001/internal/storage"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	backend, err := storage.New(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session storage")
	}

	store := session.NewStore(log)

	// Create server
	srv, err := server.New(cfg, log, store, backend, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Msg("Starting MindForge web front...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
