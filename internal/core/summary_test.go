package core

import (
	"testing"
	"time"
)

func exp(title string, cents int64, category string, date Date) Expense {
	return Expense{Title: title, Amount: Money{Cents: cents}, CategoryName: category, Date: date}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []Expense{
		exp("Lunch", 1250, "Food", NewDate(2024, 3, 15)),
		exp("Dinner", 3000, "Food", NewDate(2024, 3, 16)),
		exp("Bus", 250, "Transport", NewDate(2024, 3, 16)),
		exp("Mystery", 500, "", NewDate(2024, 3, 17)),
	}

	got := CategoryTotals(expenses)
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(got))
	}
	if got[0].Name != "Food" || got[0].Amount.Cents != 4250 {
		t.Fatalf("expected Food=4250 first, got %s=%d", got[0].Name, got[0].Amount.Cents)
	}
	if got[2].Name != Uncategorized || got[2].Amount.Cents != 500 {
		t.Fatalf("expected %s=500 last, got %s=%d", Uncategorized, got[2].Name, got[2].Amount.Cents)
	}
}

func TestTopCategories(t *testing.T) {
	expenses := []Expense{
		exp("Lunch", 1250, "Food", NewDate(2024, 3, 15)),
		exp("Bus", 250, "Transport", NewDate(2024, 3, 16)),
		exp("Rent", 90000, "Housing", NewDate(2024, 3, 1)),
		exp("Mystery", 500, "", NewDate(2024, 3, 17)),
	}

	got := TopCategories(expenses, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Name != "Housing" || got[1].Name != "Food" {
		t.Fatalf("wrong top buckets: %+v", got)
	}

	// A cap larger than the bucket count returns everything.
	if got := TopCategories(expenses, 10); len(got) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(got))
	}
}

func TestMonthTotalsChronological(t *testing.T) {
	expenses := []Expense{
		exp("a", 100, "", NewDate(2024, 1, 31)),
		exp("b", 200, "", NewDate(2023, 12, 1)),
		exp("c", 300, "", NewDate(2024, 1, 2)),
	}

	got := MonthTotals(expenses)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Key != "2023-12" || got[0].Amount.Cents != 200 {
		t.Fatalf("expected 2023-12=200, got %s=%d", got[0].Key, got[0].Amount.Cents)
	}
	if got[1].Key != "2024-01" || got[1].Amount.Cents != 400 {
		t.Fatalf("expected 2024-01=400, got %s=%d", got[1].Key, got[1].Amount.Cents)
	}
	if got[1].Label != "Jan 2024" {
		t.Fatalf("unexpected label %q", got[1].Label)
	}
}

func TestDailyTotalsTrailingWeek(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	expenses := []Expense{
		exp("today", 100, "", NewDate(2024, 3, 15)),
		exp("also today", 50, "", NewDate(2024, 3, 15)),
		exp("six days ago", 200, "", NewDate(2024, 3, 9)),
		exp("too old", 999, "", NewDate(2024, 3, 8)),
	}

	got := DailyTotals(expenses, now, 7)
	if len(got) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got))
	}
	if got[0].Date.String() != "2024-03-09" || got[0].Amount.Cents != 200 {
		t.Fatalf("expected 2024-03-09=200 first, got %s=%d", got[0].Date, got[0].Amount.Cents)
	}
	if got[6].Date.String() != "2024-03-15" || got[6].Amount.Cents != 150 {
		t.Fatalf("expected 2024-03-15=150 last, got %s=%d", got[6].Date, got[6].Amount.Cents)
	}
	// The 2024-03-08 expense falls outside the window.
	for _, d := range got {
		if d.Amount.Cents == 999 {
			t.Fatalf("expense outside window was counted")
		}
	}
}

func TestFilterApply(t *testing.T) {
	expenses := []Expense{
		exp("Lunch at cafe", 1250, "Food", NewDate(2024, 3, 15)),
		exp("Taxi", 800, "Transport", NewDate(2024, 3, 20)),
		exp("Groceries", 4000, "Food", NewDate(2024, 4, 2)),
	}

	got := Filter{Query: "lunch"}.Apply(expenses)
	if len(got) != 1 || got[0].Title != "Lunch at cafe" {
		t.Fatalf("query filter failed: %+v", got)
	}

	got = Filter{Category: "Food"}.Apply(expenses)
	if len(got) != 2 {
		t.Fatalf("category filter expected 2, got %d", len(got))
	}

	got = Filter{From: NewDate(2024, 3, 16), To: NewDate(2024, 3, 31)}.Apply(expenses)
	if len(got) != 1 || got[0].Title != "Taxi" {
		t.Fatalf("date range filter failed: %+v", got)
	}
}

func TestSortExpenses(t *testing.T) {
	expenses := []Expense{
		exp("b", 300, "", NewDate(2024, 3, 2)),
		exp("a", 100, "", NewDate(2024, 3, 3)),
		exp("c", 200, "", NewDate(2024, 3, 1)),
	}

	byAmount := SortExpenses(expenses, SortByAmount, false)
	if byAmount[0].Amount.Cents != 100 || byAmount[2].Amount.Cents != 300 {
		t.Fatalf("amount sort failed: %+v", byAmount)
	}

	byDateDesc := SortExpenses(expenses, SortByDate, true)
	if byDateDesc[0].Date.String() != "2024-03-03" {
		t.Fatalf("date desc sort failed: %+v", byDateDesc)
	}

	// Input order untouched.
	if expenses[0].Title != "b" {
		t.Fatalf("input mutated")
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	expenses := []Expense{
		exp("Lunch", 1000, "Food", NewDate(2024, 3, 15)),
		exp("Taxi", 500, "Transport", NewDate(2024, 3, 14)),
	}

	s := Summarize(expenses, now)
	if s.Total.Cents != 1500 || s.Average.Cents != 750 || s.Count != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if len(s.ByCategory) != 2 || len(s.LastDays) != 7 {
		t.Fatalf("unexpected projections: %+v", s)
	}

	empty := Summarize(nil, now)
	if empty.Total.Cents != 0 || empty.Average.Cents != 0 {
		t.Fatalf("empty summary not zero: %+v", empty)
	}
}
