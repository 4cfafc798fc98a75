package charts

import (
	"bytes"
	"testing"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestCategoryChart(t *testing.T) {
	data, err := CategoryChart([]core.CategoryAmount{
		{Name: "Food", Amount: core.Money{Cents: 12050}},
		{Name: "Transport", Amount: core.Money{Cents: 3200}},
	})
	if err != nil {
		t.Fatalf("CategoryChart: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestCategoryChartEmpty(t *testing.T) {
	data, err := CategoryChart(nil)
	if err != nil {
		t.Fatalf("CategoryChart(nil): %v", err)
	}
	if data != nil {
		t.Error("empty input should produce no chart")
	}
}

func TestDailyTrendChart(t *testing.T) {
	days := []core.DayAmount{
		{Date: core.NewDate(2026, 8, 25), Label: "Tue", Amount: core.Money{Cents: 500}},
		{Date: core.NewDate(2026, 8, 26), Label: "Wed", Amount: core.Money{Cents: 0}},
		{Date: core.NewDate(2026, 8, 27), Label: "Thu", Amount: core.Money{Cents: 2350}},
	}
	data, err := DailyTrendChart(days)
	if err != nil {
		t.Fatalf("DailyTrendChart: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestDailyTrendChartEmpty(t *testing.T) {
	data, err := DailyTrendChart(nil)
	if err != nil {
		t.Fatalf("DailyTrendChart(nil): %v", err)
	}
	if data != nil {
		t.Error("empty input should produce no chart")
	}
}
