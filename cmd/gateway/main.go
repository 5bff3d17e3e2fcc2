package main

import (
	"log"
	"os"

	"github.com/syntaxstudio/gateway/internal/api"
	"github.com/syntaxstudio/gateway/internal/config"
	"github.com/syntaxstudio/gateway/internal/engine"
	"github.com/syntaxstudio/gateway/internal/judge0"
	"github.com/syntaxstudio/gateway/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	logger.Info("gateway: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"endpoints", len(cfg.Endpoints),
	)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	registry := judge0.NewRegistry(cfg.Endpoints)
	client := judge0.NewClient(registry, cfg.Credentials, judge0.ClientOptions{
		MaxPollAttempts: cfg.PollMaxAttempts,
		PollInterval:    cfg.PollInterval,
	}, logger)
	eng := engine.NewEngine(db, client, logger)

	srv := api.NewServer(cfg.ListenAddr, db, client, eng, logger)

	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
