package core

import (
	"sort"
	"strings"
	"time"
)

// Uncategorized is the display bucket for expenses without a category.
const Uncategorized = "Uncategorized"

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthAmount is an amount aggregated by calendar month.
type MonthAmount struct {
	Key    string // sortable "YYYY-MM"
	Label  string // e.g. "Mar 2024"
	Amount Money
}

// DayAmount is a single day's total in a trailing-days series.
type DayAmount struct {
	Date   Date
	Label  string // weekday, e.g. "Fri"
	Amount Money
}

// Summary collects the derived projections the dashboard renders. It is
// computed locally over an already-fetched expense list; nothing here is
// persisted or recomputed server-side.
type Summary struct {
	Total      Money
	Average    Money
	Count      int
	ByCategory []CategoryAmount
	ByMonth    []MonthAmount
	LastDays   []DayAmount
}

// Summarize builds a Summary over the given expenses. The trailing daily
// series covers the 7 calendar dates ending at now.
func Summarize(expenses []Expense, now time.Time) Summary {
	s := Summary{
		Count:      len(expenses),
		ByCategory: CategoryTotals(expenses),
		ByMonth:    MonthTotals(expenses),
		LastDays:   DailyTotals(expenses, now, 7),
	}
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
	}
	if len(expenses) > 0 {
		s.Average.Cents = s.Total.Cents / int64(len(expenses))
	}
	return s
}

// CategoryTotals groups expenses by category name, highest total first.
// Expenses without a category fall into the Uncategorized bucket.
func CategoryTotals(expenses []Expense) []CategoryAmount {
	totals := make(map[string]int64)
	for _, e := range expenses {
		name := e.CategoryName
		if name == "" {
			name = Uncategorized
		}
		totals[name] += e.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(totals))
	for name, cents := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopCategories returns the n largest category totals.
func TopCategories(expenses []Expense, n int) []CategoryAmount {
	totals := CategoryTotals(expenses)
	if len(totals) > n {
		totals = totals[:n]
	}
	return totals
}

// MonthTotals groups expenses by calendar month, in chronological order.
func MonthTotals(expenses []Expense) []MonthAmount {
	totals := make(map[string]int64)
	labels := make(map[string]string)
	for _, e := range expenses {
		key := e.Date.Format("2006-01")
		totals[key] += e.Amount.Cents
		labels[key] = e.Date.Format("Jan 2006")
	}
	out := make([]MonthAmount, 0, len(totals))
	for key, cents := range totals {
		out = append(out, MonthAmount{Key: key, Label: labels[key], Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DailyTotals computes totals for the trailing days calendar dates ending
// at now, by matching each expense's ISO date against the day. Days with no
// spending appear with a zero amount.
func DailyTotals(expenses []Expense, now time.Time, days int) []DayAmount {
	out := make([]DayAmount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		date := NewDate(day.Year(), int(day.Month()), day.Day())
		prefix := date.String()
		var cents int64
		for _, e := range expenses {
			if e.Date.String() == prefix {
				cents += e.Amount.Cents
			}
		}
		out = append(out, DayAmount{
			Date:   date,
			Label:  day.Format("Mon"),
			Amount: Money{Cents: cents},
		})
	}
	return out
}

// Filter narrows an expense list client-side. Zero values mean "no
// constraint". Query matches a case-insensitive title substring; Category
// matches the joined category name (Uncategorized matches empty).
type Filter struct {
	Query    string
	Category string
	From     Date
	To       Date
}

// Apply returns the expenses matching every set constraint.
func (f Filter) Apply(expenses []Expense) []Expense {
	var out []Expense
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, e := range expenses {
		if query != "" && !strings.Contains(strings.ToLower(e.Title), query) {
			continue
		}
		if f.Category != "" {
			name := e.CategoryName
			if name == "" {
				name = Uncategorized
			}
			if name != f.Category {
				continue
			}
		}
		if !f.From.IsZero() && e.Date.Before(f.From.Time) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To.Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortField selects the key for SortExpenses.
type SortField string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"
	SortByTitle  SortField = "title"
)

// SortExpenses orders a copy of the list by the given field.
func SortExpenses(expenses []Expense, field SortField, descending bool) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	less := func(i, j int) bool {
		switch field {
		case SortByAmount:
			return out[i].Amount.Cents < out[j].Amount.Cents
		case SortByTitle:
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		default:
			return out[i].Date.Before(out[j].Date.Time)
		}
	}
	if descending {
		sort.SliceStable(out, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(out, less)
	}
	return out
}
