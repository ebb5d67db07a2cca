package view

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// ErrNotEnoughPoints is returned when a trend has too few days to draw.
var ErrNotEnoughPoints = errors.New("trend needs at least two points to chart")

const (
	chartWidth  = 1200
	chartHeight = 480
)

// RenderTrendPNG draws daily confirmed cases as a filled series with the
// rolling average over it, and writes the PNG to w.
func RenderTrendPNG(w io.Writer, country string, points []domain.TrendPoint) error {
	if len(points) < 2 {
		return ErrNotEnoughPoints
	}

	dates := make([]time.Time, len(points))
	daily := make([]float64, len(points))
	var avgDates []time.Time
	var avg []float64
	maxY := 1.0
	minY := 0.0
	for i, p := range points {
		dates[i] = p.Date
		daily[i] = float64(p.DailyConfirmed)
		maxY = math.Max(maxY, daily[i])
		minY = math.Min(minY, daily[i])
		if !math.IsNaN(p.RollingAverage) {
			avgDates = append(avgDates, p.Date)
			avg = append(avg, p.RollingAverage)
		}
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Daily Confirmed Cases",
			XValues: dates,
			YValues: daily,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("FFA500"),
				FillColor:   drawing.ColorFromHex("FFA500").WithAlpha(96),
				StrokeWidth: 1,
			},
		},
	}
	// go-chart cannot draw a line through fewer than two points.
	if len(avg) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:    fmt.Sprintf("%d Day Rolling Average: Daily Confirmed", domain.RollingWindow),
			XValues: avgDates,
			YValues: avg,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("FF00FF"),
				StrokeWidth: 3,
			},
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s: Last %d Days", country, len(points)),
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Daily Confirmed Cases",
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render trend chart: %w", err)
	}
	return nil
}
