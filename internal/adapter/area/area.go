// Package area loads the country land-area reference table used to pick a
// map zoom level.
package area

import (
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

const (
	countryColumn = "country"
	areaColumn    = "areasqmi"
)

// Load reads a CSV with a country column and an areasqmi column (square
// miles). Rows with a blank country or a missing area are skipped. When a
// country appears more than once the first row wins.
func Load(r io.Reader) (domain.AreaTable, error) {
	df := dataframe.ReadCSV(r, dataframe.WithTypes(map[string]series.Type{
		countryColumn: series.String,
		areaColumn:    series.Float,
	}))
	if df.Err != nil {
		return nil, fmt.Errorf("read area table: %w", df.Err)
	}

	names := df.Names()
	for _, col := range []string{countryColumn, areaColumn} {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("%w: area table has no %q column (have %v)", domain.ErrSchema, col, names)
		}
	}

	countries := df.Col(countryColumn).Records()
	areas := df.Col(areaColumn).Float()

	table := make(domain.AreaTable, len(countries))
	for i, c := range countries {
		c = strings.TrimSpace(c)
		a := areas[i]
		if c == "" || math.IsNaN(a) {
			continue
		}
		if _, dup := table[c]; dup {
			continue
		}
		table[c] = a
	}
	return table, nil
}

// LoadFile reads the area table at path.
func LoadFile(path string) (domain.AreaTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open area table: %w", err)
	}
	defer f.Close()
	return Load(f)
}
