package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoryCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage expense categories",
	}
	cmd.AddCommand(newCategoryListCommand(app))
	cmd.AddCommand(newCategoryAddCommand(app))
	return cmd
}

func newCategoryListCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return err
			}

			categories, err := c.Categories(cmd.Context())
			app.syncSession(c)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSCOPE")
			for _, cat := range categories {
				scope := "global"
				if cat.CreatedBy != nil {
					scope = "mine"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Name, scope)
			}
			return w.Flush()
		},
	}
}

func newCategoryAddCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a personal category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return err
			}

			category, err := c.CreateCategory(cmd.Context(), args[0])
			app.syncSession(c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created category %q (id %d).\n", category.Name, category.ID)
			return nil
		},
	}
}
