package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cafe-site/pkg/services"
)

// Command options
var (
	outputDir       string
	forceRegenerate bool
	frameTimeMs     int   // Time in milliseconds where to extract the frame
	maxSizeMB       int64 // Maximum video size in MB to process
)

// newGenerateThumbnailsCmd creates a new command for generating posters for gallery videos
func newGenerateThumbnailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-thumbnails",
		Short: "Generate posters for gallery videos without one",
		Long:  `Generate poster images for the videos in the gallery bucket that don't have one yet. Requires ffmpeg.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			services.InitService(cfg)

			fmt.Fprintf(cmd.OutOrStdout(), "Scanning gs://%s/%s for videos without posters...\n", cfg.BucketName, cfg.GalleryPrefix)
			report, err := services.Default().GenerateThumbnails(cmd.Context(), services.ThumbnailOptions{
				OutputDir: outputDir,
				TimeMs:    frameTimeMs,
				MaxSizeMB: maxSizeMB,
				Force:     forceRegenerate,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nSummary:\n")
			fmt.Fprintf(out, "  Total videos: %d\n", report.Videos)
			fmt.Fprintf(out, "  Videos without posters: %d\n", report.Missing)
			fmt.Fprintf(out, "  Posters generated: %d\n", report.Generated)
			fmt.Fprintf(out, "  Skipped (too large): %d\n", report.Skipped)
			fmt.Fprintf(out, "  Failed: %d\n", report.Failed)
			return nil
		},
	}

	// Add command-specific flags
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory to store temporary files (defaults to a temp dir)")
	cmd.Flags().BoolVarP(&forceRegenerate, "force", "f", false, "Force regeneration of all posters, even if they exist")
	cmd.Flags().IntVarP(&frameTimeMs, "time", "t", 1000, "Time in milliseconds where to extract the poster frame")
	cmd.Flags().Int64VarP(&maxSizeMB, "max-size", "m", 1024, "Maximum video size in MB to process (0 means no limit)")

	return cmd
}
