package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cafe-site/pkg/models"
	"cafe-site/pkg/services"
)

// newExportCmd creates a new command for exporting site data
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format]",
		Short: "Export site data",
		Long:  `Export the menu, gallery, announcements and packages in the specified format. Supported formats: json, yaml.`,
		Args:  cobra.MaximumNArgs(1),
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

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			return exportData(cmd.OutOrStdout(), site, format)
		},
	}
}

// exportData writes the site data in the specified format
func exportData(w io.Writer, site models.Site, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(site, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(site)
	default:
		return fmt.Errorf("unsupported export format %q, supported formats: json, yaml", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling site data: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
