package domain

import (
	"math"
	"sort"
	"time"
)

type dayCountry struct {
	date    time.Time
	country string
}

type countryAccumulator struct {
	lat, long mean
	totals    Totals
}

// Aggregate groups rows by (date, country): counts are summed and coordinates
// averaged over known values. The result holds one row per pair present in
// the input, ordered by date then country. Pairs with no input rows are
// absent, not zero-filled.
func Aggregate(rows []MergedObservation) []CountryDay {
	groups := make(map[dayCountry]*countryAccumulator)
	for _, o := range rows {
		k := dayCountry{date: o.Date, country: o.Region}
		acc, ok := groups[k]
		if !ok {
			acc = &countryAccumulator{}
			groups[k] = acc
		}
		acc.lat.add(o.Lat)
		acc.long.add(o.Long)
		acc.totals = acc.totals.Add(o.Totals)
	}

	out := make([]CountryDay, 0, len(groups))
	for k, acc := range groups {
		out = append(out, CountryDay{
			Date:    k.date,
			Country: k.country,
			Lat:     acc.lat.value(),
			Long:    acc.long.value(),
			Totals:  acc.totals,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Country < out[j].Country
	})
	return out
}

// DailyTotal is the global cumulative total for one date.
type DailyTotal struct {
	Date time.Time
	Totals
}

// GlobalDaily sums an aggregate across countries, one row per date, ascending.
func GlobalDaily(days []CountryDay) []DailyTotal {
	byDate := make(map[time.Time]Totals)
	for _, d := range days {
		byDate[d.Date] = byDate[d.Date].Add(d.Totals)
	}
	out := make([]DailyTotal, 0, len(byDate))
	for date, totals := range byDate {
		out = append(out, DailyTotal{Date: date, Totals: totals})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Percentages holds a day-over-day percentage change per metric. Values may be
// non-finite; see ComputeGlobal.
type Percentages struct {
	Confirmed float64
	Deaths    float64
	Recovered float64
	Active    float64
}

// Get returns the percentage for m.
func (p Percentages) Get(m Metric) float64 {
	switch m {
	case MetricConfirmed:
		return p.Confirmed
	case MetricDeaths:
		return p.Deaths
	case MetricRecovered:
		return p.Recovered
	case MetricActive:
		return p.Active
	default:
		return math.NaN()
	}
}

// GlobalStats summarises the two most recent dates of the global series.
type GlobalStats struct {
	LatestDate   time.Time
	PreviousDate time.Time
	Latest       Totals
	Previous     Totals
	New          Totals
	PctChange    Percentages
}

// ComputeGlobal derives global totals, deltas and percentage changes for the
// latest date. Only the recovered percentage is guarded against a zero
// previous total (it is then 0); the other metrics divide unguarded and can
// yield ±Inf or NaN.
func ComputeGlobal(days []CountryDay) (GlobalStats, error) {
	daily := GlobalDaily(days)
	if len(daily) < 2 {
		return GlobalStats{}, &InsufficientHistoryError{Subject: "global series", Have: len(daily), Need: 2}
	}
	latest, previous := daily[len(daily)-1], daily[len(daily)-2]
	delta := latest.Totals.Sub(previous.Totals)

	pct := Percentages{
		Confirmed: PercentChange(delta.Confirmed, previous.Confirmed),
		Deaths:    PercentChange(delta.Deaths, previous.Deaths),
		Active:    PercentChange(delta.Active, previous.Active),
	}
	if previous.Recovered != 0 {
		pct.Recovered = PercentChange(delta.Recovered, previous.Recovered)
	}

	return GlobalStats{
		LatestDate:   latest.Date,
		PreviousDate: previous.Date,
		Latest:       latest.Totals,
		Previous:     previous.Totals,
		New:          delta,
		PctChange:    pct,
	}, nil
}

// PercentChange returns delta/previous*100 rounded half-to-even to two
// decimals. A zero previous value is not guarded.
func PercentChange(delta, previous int64) float64 {
	return roundTo2(float64(delta) / float64(previous) * 100)
}

func roundTo2(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.RoundToEven(v*100) / 100
}

// LatestRows returns the aggregate rows on the most recent date.
func LatestRows(days []CountryDay) []CountryDay {
	if len(days) == 0 {
		return nil
	}
	last := days[0].Date
	for _, d := range days {
		if d.Date.After(last) {
			last = d.Date
		}
	}
	var out []CountryDay
	for _, d := range days {
		if d.Date.Equal(last) {
			out = append(out, d)
		}
	}
	return out
}
