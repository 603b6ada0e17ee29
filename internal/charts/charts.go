// Package charts renders the dashboard trend and category charts as PNG.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"fintrack/internal/core"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

var (
	incomeColor  = drawing.ColorFromHex("16a34a")
	expenseColor = drawing.ColorFromHex("dc2626")
)

// sliceColors cycles across breakdown slices.
var sliceColors = []drawing.Color{
	drawing.ColorFromHex("2563eb"),
	drawing.ColorFromHex("f59e0b"),
	drawing.ColorFromHex("10b981"),
	drawing.ColorFromHex("ef4444"),
	drawing.ColorFromHex("8b5cf6"),
	drawing.ColorFromHex("ec4899"),
	drawing.ColorFromHex("14b8a6"),
	drawing.ColorFromHex("6b7280"),
}

const (
	trendBarWidth   = 24
	trendBarSpacing = 14
	trendMinWidth   = 800
)

// RenderTrend draws an income bar and an expense bar for each month of
// series, oldest first.
func RenderTrend(series core.MonthlySeries) ([]byte, error) {
	n := len(series.Periods)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 months, got %d", ErrNoData, n)
	}

	bars := make([]chart.Value, 0, 2*n)
	maxY := 0.0
	for i, p := range series.Periods {
		income := series.Income[i].Decimal()
		expense := series.Expenses[i].Decimal()
		maxY = math.Max(maxY, math.Max(income, expense))
		bars = append(bars,
			chart.Value{
				Label: p.ShortLabel(),
				Value: income,
				Style: chart.Style{FillColor: incomeColor, StrokeColor: incomeColor},
			},
			chart.Value{
				Value: expense,
				Style: chart.Style{FillColor: expenseColor, StrokeColor: expenseColor},
			},
		)
	}

	graph := chart.BarChart{
		Title:      "Income vs Expenses",
		Width:      max(trendMinWidth, len(bars)*(trendBarWidth+trendBarSpacing)+160),
		Height:     360,
		BarWidth:   trendBarWidth,
		BarSpacing: trendBarSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.Style{StrokeWidth: 1},
		YAxis: chart.YAxis{
			// An all-zero window would otherwise give the axis no range.
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(maxY*1.1, 1)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return core.FormatCurrency(core.MoneyFromDecimal(f).Cents)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBreakdown draws one pie slice per expense category.
func RenderBreakdown(breakdown []core.CategoryAmount) ([]byte, error) {
	values := make([]chart.Value, 0, len(breakdown))
	for i, ca := range breakdown {
		if ca.Amount.Cents <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: ca.Category.DisplayName(),
			Value: ca.Amount.Decimal(),
			Style: chart.Style{FillColor: sliceColors[i%len(sliceColors)]},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Expenses by Category",
		Width:  480,
		Height: 480,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render breakdown chart: %w", err)
	}
	return buf.Bytes(), nil
}
