// Package export renders expenses to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

// Filename is the attachment name suggested to HTTP clients.
const Filename = "expenses.csv"

var header = []string{"title", "amount", "category", "date"}

// WriteCSV writes the expenses with a header row. Amounts use two decimal
// places, dates YYYY-MM-DD, and fields containing commas or quotes come out
// quoted per RFC 4180.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range expenses {
		category := e.CategoryName
		if category == "" {
			category = core.Uncategorized
		}
		record := []string{e.Title, e.Amount.String(), category, e.Date.String()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
