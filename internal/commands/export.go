package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(app *appContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all expenses as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return err
			}

			if output == "-" {
				err = c.ExportCSV(cmd.Context(), cmd.OutOrStdout())
				app.syncSession(c)
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()

			err = c.ExportCSV(cmd.Context(), f)
			app.syncSession(c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "expenses.csv", "output file, - for stdout")

	return cmd
}
