package domain

import (
	"math"
	"time"
)

// Metric names one of the case-count columns.
type Metric string

const (
	MetricConfirmed Metric = "confirmed"
	MetricDeaths    Metric = "deaths"
	MetricRecovered Metric = "recovered"
	MetricActive    Metric = "active"
)

// SourceMetrics are the metrics published as separate time-series files.
// Active is derived and never fetched.
var SourceMetrics = []Metric{MetricConfirmed, MetricDeaths, MetricRecovered}

// AllMetrics lists every metric in display order.
var AllMetrics = []Metric{MetricConfirmed, MetricDeaths, MetricRecovered, MetricActive}

// WideRow is one source row: identity columns plus one cumulative value per
// date column of the owning WideTable.
type WideRow struct {
	Region    string
	SubRegion string  // empty when the source cell is blank
	Lat       float64 // NaN when the source cell is blank
	Long      float64 // NaN when the source cell is blank
	Values    []int64
}

// WideTable is a time-series file as published: one column per date.
type WideTable struct {
	Dates []time.Time
	Rows  []WideRow
}

// Observation is a single tidy cell of a wide table.
type Observation struct {
	Region    string
	SubRegion string
	Lat       float64
	Long      float64
	Date      time.Time
	Value     int64
}

// MergedObservation joins the three source metrics for one identity and date.
type MergedObservation struct {
	Region    string
	SubRegion string
	Lat       float64
	Long      float64
	Date      time.Time
	Totals
}

// Totals holds cumulative counts for the four metrics.
type Totals struct {
	Confirmed int64 `json:"confirmed"`
	Deaths    int64 `json:"deaths"`
	Recovered int64 `json:"recovered"`
	Active    int64 `json:"active"`
}

// NewTotals derives Active from the three sourced counts.
func NewTotals(confirmed, deaths, recovered int64) Totals {
	return Totals{
		Confirmed: confirmed,
		Deaths:    deaths,
		Recovered: recovered,
		Active:    confirmed - deaths - recovered,
	}
}

// Add returns the metric-wise sum.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Confirmed: t.Confirmed + o.Confirmed,
		Deaths:    t.Deaths + o.Deaths,
		Recovered: t.Recovered + o.Recovered,
		Active:    t.Active + o.Active,
	}
}

// Sub returns the metric-wise difference t - o.
func (t Totals) Sub(o Totals) Totals {
	return Totals{
		Confirmed: t.Confirmed - o.Confirmed,
		Deaths:    t.Deaths - o.Deaths,
		Recovered: t.Recovered - o.Recovered,
		Active:    t.Active - o.Active,
	}
}

// Get returns the value for m, or 0 for an unknown metric.
func (t Totals) Get(m Metric) int64 {
	switch m {
	case MetricConfirmed:
		return t.Confirmed
	case MetricDeaths:
		return t.Deaths
	case MetricRecovered:
		return t.Recovered
	case MetricActive:
		return t.Active
	default:
		return 0
	}
}

// CountryDay is the unit of analysis: one country on one date.
type CountryDay struct {
	Date    time.Time `json:"date"`
	Country string    `json:"country"`
	Lat     float64   `json:"lat"`
	Long    float64   `json:"long"`
	Totals
}

// Location is a representative coordinate used to centre the map.
type Location struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// Valid reports whether both coordinates are known.
func (l Location) Valid() bool {
	return !math.IsNaN(l.Lat) && !math.IsNaN(l.Long)
}
