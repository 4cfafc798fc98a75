package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/charts"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

// maxChartCategories caps the bars rendered in categories.png.
const maxChartCategories = 8

func newDashboardCommand(app *appContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarize spending and render charts",
		Long: `Fetches all expenses, aggregates them locally and prints per-category
and per-month totals. Category and daily-trend charts are written as PNGs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.apiClient()
			if err != nil {
				return err
			}

			expenses, err := c.Expenses(cmd.Context())
			app.syncSession(c)
			if err != nil {
				return err
			}

			summary := core.Summarize(expenses, time.Now())
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Expenses: %d, total %s, average %s\n\n",
				summary.Count, summary.Total.String(), summary.Average.String())

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tAMOUNT")
			for _, c := range summary.ByCategory {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Amount.String())
			}
			fmt.Fprintln(w, "\nMONTH\tAMOUNT")
			for _, m := range summary.ByMonth {
				fmt.Fprintf(w, "%s\t%s\n", m.Label, m.Amount.String())
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create chart directory: %w", err)
			}
			// The chart gets crowded past a handful of bars; the table
			// above still lists every category.
			if err := writeChart(filepath.Join(outDir, "categories.png"), func() ([]byte, error) {
				return charts.CategoryChart(core.TopCategories(expenses, maxChartCategories))
			}); err != nil {
				return err
			}
			if err := writeChart(filepath.Join(outDir, "daily.png"), func() ([]byte, error) {
				return charts.DailyTrendChart(summary.LastDays)
			}); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nCharts written to %s.\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for the rendered charts")

	return cmd
}

func writeChart(path string, render func() ([]byte, error)) error {
	data, err := render()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
