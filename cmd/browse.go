package cmd

import (
	"github.com/spf13/cobra"

	"cafe-site/pkg/kiosk"
	"cafe-site/pkg/services"
	"cafe-site/pkg/session"
)

// newBrowseCmd creates a new command for browsing the page in the terminal
func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the page in the terminal",
		Long:  `Browse the menu, gallery and announcements in an interactive terminal view, for the in-store kiosk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			services.InitService(cfg)

			site, err := services.GetSite()
			if err != nil {
				return err
			}
			return kiosk.Run(session.New("kiosk", site, sessionOptions(cfg)))
		},
	}
}
