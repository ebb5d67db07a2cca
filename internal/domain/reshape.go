package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the accepted date-column header formats, tried in order.
// The JHU files use US month/day/two-digit-year headers.
var dateLayouts = []string{"1/2/06", "2006-01-02"}

// ParseDateHeader parses a wide-table date column header.
func ParseDateHeader(header string) (time.Time, error) {
	h := strings.TrimSpace(header)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, h); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, header)
}

// Melt unpivots a wide table into tidy observations: one per row and date
// column, row-major, with date order preserved.
func Melt(table WideTable) []Observation {
	out := make([]Observation, 0, len(table.Rows)*len(table.Dates))
	for _, row := range table.Rows {
		for i, date := range table.Dates {
			var v int64
			if i < len(row.Values) {
				v = row.Values[i]
			}
			out = append(out, Observation{
				Region:    row.Region,
				SubRegion: row.SubRegion,
				Lat:       row.Lat,
				Long:      row.Long,
				Date:      date,
				Value:     v,
			})
		}
	}
	return out
}
