package main

import (
	"net/http"
	"os"

	"cafe-site/pkg/config"
	"cafe-site/pkg/handlers"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/services"
	"cafe-site/pkg/session"
)

func main() {
	log := logging.NewLogger("serve")

	// Load configuration
	cfg, err := config.Load(os.Getenv("CAFE_CONFIG"))
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	// Initialize services
	services.InitService(cfg)

	sessions := session.NewStore(cfg.SessionTTL, session.Options{
		PageSize:     cfg.PageSize,
		NewsPageSize: cfg.NewsPageSize,
	})
	server := handlers.NewServer(cfg, services.Default(), sessions)

	// Start server
	cfg.PrintServerStartMessage()
	if err := http.ListenAndServe(cfg.ServerAddress(), server); err != nil {
		log.WithError(err).Error("Server error")
		os.Exit(1)
	}
}
