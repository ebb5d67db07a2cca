// Package view turns domain results into the JSON payloads, GeoJSON layers
// and PNG charts served by the dashboard.
package view

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// Metric colours shared by the cards, KPIs, pie and chart.
const (
	ColorConfirmed      = "orange"
	ColorDeaths         = "#dd1e35"
	ColorRecovered      = "#7CFC00"
	ColorActive         = "#e55467"
	ColorRollingAverage = "#FF00FF"
)

// LastUpdateLayout renders dates as "April 16, 2022".
const LastUpdateLayout = "January 02, 2006"

var metricColors = map[domain.Metric]string{
	domain.MetricConfirmed: ColorConfirmed,
	domain.MetricDeaths:    ColorDeaths,
	domain.MetricRecovered: ColorRecovered,
	domain.MetricActive:    ColorActive,
}

var metricLabels = map[domain.Metric]string{
	domain.MetricConfirmed: "Confirmed",
	domain.MetricDeaths:    "Deaths",
	domain.MetricRecovered: "Recovered",
	domain.MetricActive:    "Active",
}

var cardTitles = map[domain.Metric]string{
	domain.MetricConfirmed: "Global Cases",
	domain.MetricDeaths:    "Global Deaths",
	domain.MetricRecovered: "Global Recovered",
	domain.MetricActive:    "Global Active",
}

// Color returns the display colour for m.
func Color(m domain.Metric) string { return metricColors[m] }

// Label returns the display label for m.
func Label(m domain.Metric) string { return metricLabels[m] }

// Card is one global total tile.
type Card struct {
	Metric    domain.Metric `json:"metric"`
	Title     string        `json:"title"`
	Color     string        `json:"color"`
	Total     int64         `json:"total"`
	New       int64         `json:"new"`
	PctChange *float64      `json:"pct_change"`
	Caption   string        `json:"caption"`
}

// Summary is the global header of the dashboard.
type Summary struct {
	LastUpdate string    `json:"last_update"`
	Date       string    `json:"date"`
	BuiltAt    time.Time `json:"built_at"`
	Cards      []Card    `json:"cards"`
}

// NewSummary builds the global cards.
func NewSummary(g domain.GlobalStats, builtAt time.Time) Summary {
	s := Summary{
		LastUpdate: "Last Update: " + g.LatestDate.Format(LastUpdateLayout),
		Date:       g.LatestDate.Format(time.DateOnly),
		BuiltAt:    builtAt,
		Cards:      make([]Card, 0, len(domain.AllMetrics)),
	}
	for _, m := range domain.AllMetrics {
		pct := g.PctChange.Get(m)
		s.Cards = append(s.Cards, Card{
			Metric:    m,
			Title:     cardTitles[m],
			Color:     metricColors[m],
			Total:     g.Latest.Get(m),
			New:       g.New.Get(m),
			PctChange: Finite(pct),
			Caption:   fmt.Sprintf("New: %s   (%s%%)", humanize.Comma(g.New.Get(m)), FormatPercent(pct)),
		})
	}
	return s
}

// KPI compares today's new count with yesterday's.
type KPI struct {
	Metric    domain.Metric `json:"metric"`
	Title     string        `json:"title"`
	Color     string        `json:"color"`
	Value     int64         `json:"value"`
	Reference int64         `json:"reference"`
	Delta     int64         `json:"delta"`
	PctChange *float64      `json:"pct_change"` // null when the prior count is zero
}

// Pie is the cumulative breakdown for one country.
type Pie struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
	Colors []string `json:"colors"`
}

// TrendPoint is one bar of the daily chart plus its rolling average.
type TrendPoint struct {
	Date           string   `json:"date"`
	Confirmed      int64    `json:"confirmed"`
	Deaths         int64    `json:"deaths"`
	DailyConfirmed int64    `json:"daily_confirmed"`
	DailyDeaths    int64    `json:"daily_deaths"`
	RollingAverage *float64 `json:"rolling_average"`
}

// Trend is the daily series shown under the KPIs.
type Trend struct {
	Title  string       `json:"title"`
	Points []TrendPoint `json:"points"`
}

// LatLng is a map coordinate.
type LatLng struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// MapView positions the map; Center is null when the country has no known
// coordinates.
type MapView struct {
	Zoom   float64 `json:"zoom"`
	Center *LatLng `json:"center"`
}

// Bundle is everything the country panel renders.
type Bundle struct {
	Country           string  `json:"country"`
	CountryLastUpdate string  `json:"country_last_update"`
	KPIs              []KPI   `json:"kpis"`
	Pie               Pie     `json:"pie"`
	Trend             Trend   `json:"trend"`
	Map               MapView `json:"map"`
}

// NewBundle renders a country report.
func NewBundle(r domain.CountryReport) Bundle {
	b := Bundle{
		Country:           r.Country,
		CountryLastUpdate: "New Cases: " + r.LastUpdate.Format(LastUpdateLayout),
		KPIs:              make([]KPI, 0, len(domain.AllMetrics)),
		Pie: Pie{
			Title:  "Total Cases: " + r.Country,
			Labels: make([]string, 0, len(domain.AllMetrics)),
			Values: make([]int64, 0, len(domain.AllMetrics)),
			Colors: make([]string, 0, len(domain.AllMetrics)),
		},
		Trend: NewTrend(r.Country, r.Trend),
		Map:   NewMapView(r.Map),
	}
	for _, m := range domain.AllMetrics {
		b.KPIs = append(b.KPIs, KPI{
			Metric:    m,
			Title:     "New " + metricLabels[m],
			Color:     metricColors[m],
			Value:     r.New.Get(m),
			Reference: r.PriorNew.Get(m),
			Delta:     r.New.Get(m) - r.PriorNew.Get(m),
			PctChange: Finite(domain.PercentChange(r.New.Get(m)-r.PriorNew.Get(m), r.PriorNew.Get(m))),
		})
		b.Pie.Labels = append(b.Pie.Labels, metricLabels[m])
		b.Pie.Values = append(b.Pie.Values, r.Breakdown.Get(m))
		b.Pie.Colors = append(b.Pie.Colors, metricColors[m])
	}
	return b
}

// NewTrend renders the trend points for country.
func NewTrend(country string, points []domain.TrendPoint) Trend {
	t := Trend{
		Title:  fmt.Sprintf("%s: Last %d Days", country, len(points)),
		Points: make([]TrendPoint, len(points)),
	}
	for i, p := range points {
		t.Points[i] = TrendPoint{
			Date:           p.Date.Format(time.DateOnly),
			Confirmed:      p.Confirmed,
			Deaths:         p.Deaths,
			DailyConfirmed: p.DailyConfirmed,
			DailyDeaths:    p.DailyDeaths,
			RollingAverage: Finite(p.RollingAverage),
		}
	}
	return t
}

// NewMapView renders the zoom and centre.
func NewMapView(m domain.MapView) MapView {
	v := MapView{Zoom: m.Zoom}
	if m.Center.Valid() {
		v.Center = &LatLng{Lat: m.Center.Lat, Long: m.Center.Long}
	}
	return v
}

// Finite returns nil for NaN and ±Inf so the value encodes as JSON null.
func Finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// FormatPercent prints a percentage change, spelling out non-finite values.
func FormatPercent(p float64) string {
	switch {
	case math.IsNaN(p):
		return "n/a"
	case math.IsInf(p, 1):
		return "+inf"
	case math.IsInf(p, -1):
		return "-inf"
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}
