package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"cafe-site/pkg/config"
	"cafe-site/pkg/logging"
	"cafe-site/pkg/session"
)

// Configuration flags
var (
	configPath string
	bucketName string
	portNumber string
	dataFile   string
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cafe-site",
		Short: "Cafe Site serves the Cafe O'Clock single page site",
		Long: `Cafe Site is a command line application that serves the Cafe O'Clock page:
a paginated menu filter, a gallery lightbox, the announcements board and event packages.
The gallery can be read from Google Cloud Storage.`,
		SilenceUsage: true,
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the gallery bucket (overrides CAFE_BUCKET_NAME)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the port (overrides CAFE_PORT)")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "data", "d", "", "Set the site data file (overrides CAFE_DATA_FILE)")

	// Add commands to root
	rootCmd.AddCommand(newListCategoriesCmd())
	rootCmd.AddCommand(newShowMenuCmd())
	rootCmd.AddCommand(newShowGalleryCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newGenerateThumbnailsCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags and
// configures logging from it
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	if bucketName != "" {
		os.Setenv(config.EnvPrefix+"BUCKET_NAME", bucketName)
	}

	if portNumber != "" {
		os.Setenv(config.EnvPrefix+"PORT", portNumber)
	}

	if dataFile != "" {
		os.Setenv(config.EnvPrefix+"DATA_FILE", dataFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{PageSize: cfg.PageSize, NewsPageSize: cfg.NewsPageSize}
}
