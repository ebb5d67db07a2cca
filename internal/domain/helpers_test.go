package domain

import (
	"io"
	"log/slog"
	"math"
	"time"
)

var (
	nan      = math.NaN()
	baseDate = time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC)
)

func day(i int) time.Time { return baseDate.AddDate(0, 0, i) }

func dates(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day(i)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countrySeries builds a date-ordered aggregate for one country from
// cumulative confirmed counts; deaths are a tenth of confirmed.
func countrySeries(country string, confirmed ...int64) []CountryDay {
	out := make([]CountryDay, len(confirmed))
	for i, c := range confirmed {
		out[i] = CountryDay{
			Date:    day(i),
			Country: country,
			Lat:     10,
			Long:    20,
			Totals:  NewTotals(c, c/10, 0),
		}
	}
	return out
}
