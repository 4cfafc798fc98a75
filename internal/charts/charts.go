// Package charts renders dashboard PNGs from locally aggregated expense data.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

// CategoryChart renders per-category totals as a bar chart. Returns nil
// bytes when there is nothing to draw.
func CategoryChart(categories []core.CategoryAmount) ([]byte, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(categories))
	for _, c := range categories {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s: %s", c.Name, c.Amount.String()),
			Value: float64(c.Amount.Cents) / 100,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(160),
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Spending by category",
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	return buf.Bytes(), nil
}

// DailyTrendChart renders the trailing daily totals as a time series.
func DailyTrendChart(days []core.DayAmount) ([]byte, error) {
	if len(days) == 0 {
		return nil, nil
	}

	xValues := make([]float64, len(days))
	yValues := make([]float64, len(days))
	ticks := make([]chart.Tick, len(days))
	for i, d := range days {
		xValues[i] = float64(i)
		yValues[i] = float64(d.Amount.Cents) / 100
		ticks[i] = chart.Tick{Value: float64(i), Label: d.Label}
	}

	graph := chart.Chart{
		Title:  "Daily spending",
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.2f", v.(float64))
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Spent",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render daily trend chart: %w", err)
	}
	return buf.Bytes(), nil
}
