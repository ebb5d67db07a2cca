package domain

import (
	"math"
	"strconv"
	"time"
)

// joinKey identifies an observation across the three metric tables.
// Coordinates are compared by their formatted value so that two missing
// coordinates match each other.
type joinKey struct {
	region    string
	subRegion string
	lat       string
	long      string
	date      time.Time
}

func keyOf(o Observation) joinKey {
	return joinKey{
		region:    o.Region,
		subRegion: o.SubRegion,
		lat:       formatCoord(o.Lat),
		long:      formatCoord(o.Long),
		date:      o.Date,
	}
}

func formatCoord(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// index maps join keys to values, keeping the first occurrence of a key.
func index(obs []Observation) map[joinKey]int64 {
	m := make(map[joinKey]int64, len(obs))
	for _, o := range obs {
		k := keyOf(o)
		if _, ok := m[k]; !ok {
			m[k] = o.Value
		}
	}
	return m
}

// Merge left-joins deaths and recovered onto confirmed. Every confirmed row
// appears exactly once in the output, in input order. Deaths or recovered rows
// without a confirmed counterpart are dropped. A missing right-hand value
// counts as zero.
func Merge(confirmed, deaths, recovered []Observation) []MergedObservation {
	deathsByKey := index(deaths)
	recoveredByKey := index(recovered)

	out := make([]MergedObservation, 0, len(confirmed))
	for _, c := range confirmed {
		k := keyOf(c)
		out = append(out, MergedObservation{
			Region:    c.Region,
			SubRegion: c.SubRegion,
			Lat:       c.Lat,
			Long:      c.Long,
			Date:      c.Date,
			Totals:    NewTotals(c.Value, deathsByKey[k], recoveredByKey[k]),
		})
	}
	return out
}
