package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/client"
	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

func newExpenseCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expenses",
	}
	cmd.AddCommand(newExpenseListCommand(app))
	cmd.AddCommand(newExpenseAddCommand(app))
	cmd.AddCommand(newExpenseUpdateCommand(app))
	cmd.AddCommand(newExpenseDeleteCommand(app))
	return cmd
}

func newExpenseListCommand(app *appContext) *cobra.Command {
	var (
		month, year int
		search      string
		category    string
		fromStr     string
		toStr       string
		sortBy      string
		desc        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses with local search, filter and sort",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (month == 0) != (year == 0) {
				return fmt.Errorf("--month and --year must be given together")
			}

			filter := core.Filter{Query: search, Category: category}
			if fromStr != "" {
				from, err := core.ParseDate(fromStr)
				if err != nil {
					return fmt.Errorf("invalid --from date %q: %w", fromStr, err)
				}
				filter.From = from
			}
			if toStr != "" {
				to, err := core.ParseDate(toStr)
				if err != nil {
					return fmt.Errorf("invalid --to date %q: %w", toStr, err)
				}
				filter.To = to
			}
			switch core.SortField(sortBy) {
			case core.SortByDate, core.SortByAmount, core.SortByTitle:
			default:
				return fmt.Errorf("invalid --sort field %q (date, amount or title)", sortBy)
			}

			c, err := app.apiClient()
			if err != nil {
				return err
			}

			var expenses []core.Expense
			if month != 0 {
				expenses, err = c.ExpensesForMonth(cmd.Context(), year, month)
			} else {
				expenses, err = c.Expenses(cmd.Context())
			}
			app.syncSession(c)
			if err != nil {
				return err
			}

			// Search, filter and sort happen locally over the fetched list.
			expenses = filter.Apply(expenses)
			expenses = core.SortExpenses(expenses, core.SortField(sortBy), desc)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTITLE\tAMOUNT\tCATEGORY")
			for _, e := range expenses {
				category := e.CategoryName
				if category == "" {
					category = core.Uncategorized
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					e.ID, e.Date.String(), e.Title, e.Amount.String(), category)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 (requires --year)")
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (requires --month)")
	cmd.Flags().StringVar(&search, "search", "", "title substring match, case-insensitive")
	cmd.Flags().StringVar(&category, "category", "", "category name (Uncategorized matches none)")
	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date YYYY-MM-DD")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "sort field: date, amount or title")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")

	return cmd
}

func newExpenseAddCommand(app *appContext) *cobra.Command {
	var (
		title      string
		amountStr  string
		categoryID int64
		dateStr    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := core.ParseDecimalToCents(amountStr)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amountStr, err)
			}
			date, err := core.ParseDate(dateStr)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}

			expense := core.Expense{
				Title:  title,
				Amount: core.Money{Cents: cents},
				Date:   date,
			}
			if categoryID != 0 {
				expense.CategoryID = &categoryID
			}
			if err := expense.Validate(); err != nil {
				return err
			}

			c, err := app.apiClient()
			if err != nil {
				return err
			}

			created, err := c.CreateExpense(cmd.Context(), expense.Title, expense.Amount, expense.CategoryID, expense.Date)
			app.syncSession(c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded expense %d: %s %s on %s.\n",
				created.ID, created.Title, created.Amount.String(), created.Date.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "what the money went to (required)")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount, e.g. 12.50 (required)")
	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "category id (see `tracker category list`)")
	cmd.Flags().StringVar(&dateStr, "date", "", "date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newExpenseUpdateCommand(app *appContext) *cobra.Command {
	var (
		title         string
		amountStr     string
		categoryID    int64
		clearCategory bool
		dateStr       string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			var patch client.ExpensePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("amount") {
				cents, err := core.ParseDecimalToCents(amountStr)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, err)
				}
				patch.Amount = &core.Money{Cents: cents}
			}
			if clearCategory {
				patch.ClearCategory = true
			} else if cmd.Flags().Changed("category-id") {
				patch.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("date") {
				date, err := core.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", dateStr, err)
				}
				patch.Date = &date
			}

			c, err := app.apiClient()
			if err != nil {
				return err
			}

			updated, err := c.UpdateExpense(cmd.Context(), id, patch)
			app.syncSession(c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated expense %d: %s %s on %s.\n",
				updated.ID, updated.Title, updated.Amount.String(), updated.Date.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&amountStr, "amount", "", "new amount, e.g. 12.50")
	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "new category id")
	cmd.Flags().BoolVar(&clearCategory, "clear-category", false, "detach the category")
	cmd.Flags().StringVar(&dateStr, "date", "", "new date YYYY-MM-DD")

	return cmd
}

func newExpenseDeleteCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q", args[0])
			}

			c, err := app.apiClient()
			if err != nil {
				return err
			}

			err = c.DeleteExpense(cmd.Context(), id)
			app.syncSession(c)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense %d.\n", id)
			return nil
		},
	}
}
