package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"cafe-site/pkg/models"
	"cafe-site/pkg/services"
)

// newShowGalleryCmd creates a new command for showing gallery entries
func newShowGalleryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-gallery [index]",
		Short: "Show the gallery entries",
		Long:  `List every gallery entry, or show details about the entry at the given index.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			services.InitService(cfg)

			if len(args) == 0 {
				site, err := services.GetSite()
				if err != nil {
					return err
				}
				listGallery(cmd.OutOrStdout(), site.Gallery)
				return nil
			}

			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			entry, err := services.Default().Entry(index)
			if err != nil {
				return err
			}
			showEntry(cmd.OutOrStdout(), entry)
			return nil
		},
	}
}

// listGallery displays all gallery entries in page order
func listGallery(w io.Writer, entries []models.GalleryEntry) {
	fmt.Fprintln(w, "Gallery:")
	fmt.Fprintln(w, "========")

	for _, entry := range entries {
		fmt.Fprintf(w, "%d. %s (%s)\n", entry.Index, entry.Title, entry.Kind)
	}

	fmt.Fprintf(w, "\nTotal: %d entries\n", len(entries))
}

// showEntry displays details about one gallery entry
func showEntry(w io.Writer, entry models.GalleryEntry) {
	fmt.Fprintf(w, "Entry: %s\n", entry.Title)
	fmt.Fprintf(w, "Index: %d\n", entry.Index)
	fmt.Fprintf(w, "Kind: %s\n", entry.Kind)
	if entry.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", entry.Description)
	}
	fmt.Fprintf(w, "URL: %s\n", entry.Url)
	if entry.Thumbnail != nil {
		fmt.Fprintf(w, "Thumbnail: %s\n", *entry.Thumbnail)
	}
}
