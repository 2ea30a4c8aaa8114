package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pricedrop/notifier"
	"github.com/pricedrop/notifier/internal/adapters/sqlite"
	"github.com/pricedrop/notifier/internal/config"
	"github.com/pricedrop/notifier/internal/db"
	"github.com/pricedrop/notifier/internal/events"
	"github.com/pricedrop/notifier/internal/registry"
	"github.com/pricedrop/notifier/internal/server"
	"github.com/pricedrop/notifier/internal/server/routes"
)

const version = "2.0.0"

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return
	}

	var store registry.Store = registry.NewMemoryStore()
	if cfg.Database.Path != "" {
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			slog.Error("Failed to open database", "error", err)
			return
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database", "error", err)
			}
		}()
		store = sqlite.NewStore(database)
		slog.Info("Using SQLite-backed registry", "path", cfg.Database.Path)
	} else if !cfg.IsLocalDevelopment() {
		slog.Warn("PDW_DB_PATH not set, subscriptions are kept in memory only")
	}

	publisher := events.NewPublisher(cfg.EventSink.URL, cfg.EventSink.Secret, cfg.EventSink.Timeout, log)
	var recorded registry.RecordedFunc
	if publisher != nil {
		recorded = publisher.Recorded
		slog.Info("Publishing subscription events", "sink", cfg.EventSink.URL)
	}
	service := registry.NewService(store, recorded)

	srv := server.New(log, notifier.PublicFS)
	srv.RegisterRouter(routes.NewHealthRoutes(version))
	srv.RegisterRouter(routes.NewSubscriptionRoutes(service))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port)
	slog.Error("Closing server", "error", srv.Start(addr))
}
