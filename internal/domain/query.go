package domain

import (
	"math"
	"time"
)

const (
	// RollingWindow is the trailing window of the daily-confirmed average.
	RollingWindow = 7

	// TrendPoints is how many of the most recent daily points a report keeps.
	TrendPoints = 365
)

// TrendPoint is one day of a country's trend series.
type TrendPoint struct {
	Date           time.Time
	Confirmed      int64
	Deaths         int64
	DailyConfirmed int64
	DailyDeaths    int64
	RollingAverage float64 // NaN until a full window is available
}

// MapView positions the map on the selected country.
type MapView struct {
	Zoom   float64
	Center Location
}

// CountryReport is everything the dashboard renders for one country.
type CountryReport struct {
	Country    string
	LastUpdate time.Time

	Today        CountryDay
	Yesterday    CountryDay
	DayBefore    CountryDay
	New          Totals // today - yesterday
	PriorNew     Totals // yesterday - day before
	Breakdown    Totals // today's cumulative totals, for the pie chart
	Trend        []TrendPoint
	Map          MapView
	HistoryCount int
}

// Query computes the report for one country. It returns an error matching
// ErrUnknownCountry when the country is not in the aggregate, and an
// *InsufficientHistoryError when the country has fewer than
// MinCountryHistory dated rows.
func (s *Snapshot) Query(country string) (CountryReport, error) {
	series, err := s.CountrySeries(country)
	if err != nil {
		return CountryReport{}, err
	}
	if len(series) < MinCountryHistory {
		return CountryReport{}, &InsufficientHistoryError{
			Subject: country,
			Have:    len(series),
			Need:    MinCountryHistory,
		}
	}

	n := len(series)
	today, yesterday, dayBefore := series[n-1], series[n-2], series[n-3]


	return CountryReport{
		Country:      country,
		LastUpdate:   s.LastUpdate(),
		Today:        today,
		Yesterday:    yesterday,
		DayBefore:    dayBefore,
		New:          today.Totals.Sub(yesterday.Totals),
		PriorNew:     yesterday.Totals.Sub(dayBefore.Totals),
		Breakdown:    today.Totals,
		Trend:        TailTrend(BuildTrend(series), TrendPoints),
		Map:          MapView{Zoom: s.Zoom(country), Center: s.centre(country)},
		HistoryCount: n,
	}, nil
}

// BuildTrend derives daily differences and the trailing rolling average of
// daily confirmed cases over a date-ordered country series. The first daily
// difference is 0.
func BuildTrend(series []CountryDay) []TrendPoint {
	points := make([]TrendPoint, len(series))
	daily := make([]float64, len(series))
	for i, d := range series {
		p := TrendPoint{Date: d.Date, Confirmed: d.Confirmed, Deaths: d.Deaths}
		if i > 0 {
			p.DailyConfirmed = d.Confirmed - series[i-1].Confirmed
			p.DailyDeaths = d.Deaths - series[i-1].Deaths
		}
		points[i] = p
		daily[i] = float64(p.DailyConfirmed)
	}
	for i, avg := range RollingMean(daily, RollingWindow) {
		points[i].RollingAverage = avg
	}
	return points
}

// RollingMean returns the trailing simple moving average of values over
// window points. The first window-1 results are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// TailTrend keeps the last n points.
func TailTrend(points []TrendPoint, n int) []TrendPoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
