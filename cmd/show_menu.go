package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cafe-site/pkg/menu"
	"cafe-site/pkg/models"
	"cafe-site/pkg/services"
)

// newShowMenuCmd creates a new command for printing one page of the filtered menu
func newShowMenuCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "show-menu [category]",
		Short: "Show the menu as the page would",
		Long: `Show the menu items visible for a category filter, after expanding the
given number of pages. Without a category all items are shown.`,
		Args: cobra.MaximumNArgs(1),
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

			category := models.AllCategories
			if len(args) > 0 {
				category = args[0]
			}
			showMenu(cmd.OutOrStdout(), site, category, pages, cfg.PageSize)
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "Number of pages to show")

	return cmd
}

// showMenu prints the items visible after selecting category and expanding
// to the requested number of pages
func showMenu(w io.Writer, site models.Site, category string, pages, pageSize int) {
	filter := menu.NewFilter(site.Menu, pageSize)
	filter.SelectCategory(category)
	for i := 1; i < pages; i++ {
		filter.Expand()
	}
	v := filter.ComputeVisibility()

	fmt.Fprintf(w, "Category: %s\n", category)
	fmt.Fprintln(w, "================")

	for i, item := range v.VisibleItems {
		fmt.Fprintf(w, "%2d. %-30s %s\n", i+1, item.Name, item.Price)
		if item.Description != "" {
			fmt.Fprintf(w, "    %s\n", item.Description)
		}
	}

	if len(v.VisibleItems) == 0 {
		fmt.Fprintln(w, "No items")
	}
	if v.ControlVisible {
		fmt.Fprintf(w, "\n[%s] %s\n", v.ControlLabel(), v.CountLabel())
	}
}
