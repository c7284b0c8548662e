package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cafe-site/pkg/models"
	"cafe-site/pkg/services"
)

// newListCategoriesCmd creates a new command for listing menu categories
func newListCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all menu categories",
		Long:  `List all menu categories with the number of items in each.`,
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
			listCategories(cmd.OutOrStdout(), site)
			return nil
		},
	}
}

// listCategories displays all categories and their item counts
func listCategories(w io.Writer, site models.Site) {
	counts := site.CountByCategory()

	fmt.Fprintln(w, "Menu Categories:")
	fmt.Fprintln(w, "================")

	for _, category := range site.Categories {
		fmt.Fprintf(w, "%s (%s)\n", category.Label, category.Name)
		fmt.Fprintf(w, "  Items: %d\n", counts[category.Name])
		fmt.Fprintln(w)
	}

	if n := counts[models.Uncategorized]; n > 0 {
		fmt.Fprintf(w, "Uncategorized items (only shown under All): %d\n\n", n)
	}

	fmt.Fprintf(w, "Total: %d categories, %d items\n", len(site.Categories), len(site.Menu))
}
