package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"cafe-site/pkg/config"
	"cafe-site/pkg/handlers"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/services"
	"cafe-site/pkg/session"
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server serving the page, its static assets and the state API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			services.InitService(cfg)
			return serveWebsite(cfg)
		},
	}
}

// serveWebsite runs the web server until it fails
func serveWebsite(cfg *config.Config) error {
	log := logging.NewLogger("cli")

	// Fail early on a broken data file instead of on the first visitor
	if _, err := services.GetSite(); err != nil {
		return err
	}

	sessions := session.NewStore(cfg.SessionTTL, sessionOptions(cfg))
	server := handlers.NewServer(cfg, services.Default(), sessions)

	cfg.PrintServerStartMessage()
	if err := http.ListenAndServe(cfg.ServerAddress(), server); err != nil {
		log.WithError(err).Error("Server error")
		return err
	}
	return nil
}
