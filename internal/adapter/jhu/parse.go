package jhu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// identityColumns are the leading columns of every time-series file, in order.
// Each position accepts a small set of spellings seen across JHU releases.
var identityColumns = [][]string{
	{"Province/State", "Province_State"},
	{"Country/Region", "Country_Region"},
	{"Lat"},
	{"Long", "Long_"},
}

// ParseWideTable reads a JHU global time-series CSV. The header must start
// with the four identity columns followed only by date columns. Blank count
// cells read as zero; blank coordinates read as NaN.
func ParseWideTable(r io.Reader) (domain.WideTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.WideTable{}, fmt.Errorf("%w: empty file", domain.ErrSchema)
	}
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("read header: %w", err)
	}
	if err := checkIdentityColumns(header); err != nil {
		return domain.WideTable{}, err
	}

	table := domain.WideTable{}
	for _, h := range header[len(identityColumns):] {
		d, err := domain.ParseDateHeader(h)
		if err != nil {
			return domain.WideTable{}, err
		}
		table.Dates = append(table.Dates, d)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.WideTable{}, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(rec) != len(header) {
			return domain.WideTable{}, fmt.Errorf("%w: line %d has %d fields, header has %d",
				domain.ErrSchema, line, len(rec), len(header))
		}
		row, err := parseRow(rec, len(table.Dates))
		if err != nil {
			return domain.WideTable{}, fmt.Errorf("line %d: %w", line, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func checkIdentityColumns(header []string) error {
	if len(header) < len(identityColumns) {
		return fmt.Errorf("%w: %d columns, need at least %d", domain.ErrSchema, len(header), len(identityColumns))
	}
	for i, accepted := range identityColumns {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if !matchesAny(got, accepted) {
			return fmt.Errorf("%w: column %d is %q, want %q", domain.ErrSchema, i+1, got, accepted[0])
		}
	}
	return nil
}

func matchesAny(s string, accepted []string) bool {
	for _, a := range accepted {
		if strings.EqualFold(s, a) {
			return true
		}
	}
	return false
}

func parseRow(rec []string, nDates int) (domain.WideRow, error) {
	lat, err := parseCoordinate(rec[2])
	if err != nil {
		return domain.WideRow{}, fmt.Errorf("lat: %w", err)
	}
	long, err := parseCoordinate(rec[3])
	if err != nil {
		return domain.WideRow{}, fmt.Errorf("long: %w", err)
	}

	row := domain.WideRow{
		SubRegion: strings.TrimSpace(rec[0]),
		Region:    strings.TrimSpace(rec[1]),
		Lat:       lat,
		Long:      long,
		Values:    make([]int64, nDates),
	}
	for i, cell := range rec[len(identityColumns):] {
		v, err := parseCount(cell)
		if err != nil {
			return domain.WideRow{}, fmt.Errorf("column %d: %w", len(identityColumns)+i+1, err)
		}
		row.Values[i] = v
	}
	return row, nil
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseCount accepts integer or float cells; some releases write "12.0".
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int64(math.Round(f)), nil
}
