package domain

import "math"

// Normalize resolves each row to a single country key. A row with a
// sub-region listed in PromoteSubRegions, or belonging to one of the
// PromoteParents, takes its sub-region as country; the alias table is then
// applied. Rows matching neither rule pass through unchanged. The input slice
// is not modified.
func Normalize(rows []MergedObservation, rules Rules) []MergedObservation {
	out := make([]MergedObservation, len(rows))
	for i, o := range rows {
		if rules.promotes(o) {
			o.Region = o.SubRegion
		}
		if alias, ok := rules.Aliases[o.Region]; ok {
			o.Region = alias
		}
		out[i] = o
	}
	return out
}

// Impute fills missing coordinates for the given countries with the mean of
// that country's known values, latitude and longitude independently. It must
// run after Normalize so that means are taken over final country labels. A
// country with no known coordinate keeps NaN. The input slice is not modified.
func Impute(rows []MergedObservation, countries []string) []MergedObservation {
	out := make([]MergedObservation, len(rows))
	copy(out, rows)

	for _, country := range countries {
		var lat, long mean
		for _, o := range out {
			if o.Region != country {
				continue
			}
			lat.add(o.Lat)
			long.add(o.Long)
		}
		latMean, longMean := lat.value(), long.value()
		for i := range out {
			if out[i].Region != country {
				continue
			}
			if math.IsNaN(out[i].Lat) {
				out[i].Lat = latMean
			}
			if math.IsNaN(out[i].Long) {
				out[i].Long = longMean
			}
		}
	}
	return out
}

// mean accumulates an arithmetic mean that skips NaN inputs.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

// value returns NaN for an empty accumulator.
func (m *mean) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}
