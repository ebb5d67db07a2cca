package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wide(rows ...WideRow) WideTable {
	return WideTable{Dates: dates(3), Rows: rows}
}

func TestBuildSnapshot(t *testing.T) {
	builtAt := time.Date(2022, time.April, 17, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(builtAt))
	t.Cleanup(func() { SetClock(nil) })

	src := SourceTables{
		Confirmed: wide(
			WideRow{Region: "US", Lat: 40, Long: -100, Values: []int64{100, 150, 210}},
			WideRow{Region: "Canada", SubRegion: "Ontario", Lat: 50, Long: -85, Values: []int64{10, 12, 15}},
			WideRow{Region: "Canada", SubRegion: "Repatriated Travellers", Lat: nan, Long: nan, Values: []int64{1, 1, 1}},
			WideRow{Region: "Canada", SubRegion: "Diamond Princess", Lat: nan, Long: nan, Values: []int64{0, 0, 0}},
			WideRow{Region: "United Kingdom", SubRegion: "Bermuda", Lat: 32.3, Long: -64.8, Values: []int64{2, 2, 3}},
			WideRow{Region: "United Kingdom", Lat: 55.4, Long: -3.4, Values: []int64{50, 60, 70}},
		),
		Deaths: wide(
			WideRow{Region: "US", Lat: 40, Long: -100, Values: []int64{1, 2, 3}},
			WideRow{Region: "Canada", SubRegion: "Ontario", Lat: 50, Long: -85, Values: []int64{0, 1, 1}},
			WideRow{Region: "United Kingdom", Lat: 55.4, Long: -3.4, Values: []int64{5, 6, 7}},
		),
		Recovered: wide(
			WideRow{Region: "US", Lat: 40, Long: -100, Values: []int64{0, 0, 0}},
			WideRow{Region: "Canada", Lat: 56.1, Long: -106.3, Values: []int64{5, 6, 7}}, // dropped: no confirmed row
		),
	}
	areas := AreaTable{"USA": 3800000, "Canada": 3855103}

	snap, err := BuildSnapshot(src, DefaultRules(), areas)
	require.NoError(t, err)

	assert.Equal(t, builtAt, snap.BuiltAt())
	assert.Equal(t, day(2), snap.LastUpdate())
	assert.Equal(t, []string{"Bermuda", "Canada", "Cruise Ship", "USA", "United Kingdom"}, snap.Countries())
	assert.True(t, snap.HasCountry("USA"))
	assert.False(t, snap.HasCountry("US"))

	g := snap.Global()
	assert.Equal(t, int64(210+15+1+0+3+70), g.Latest.Confirmed)
	assert.Equal(t, int64(3+1+7), g.Latest.Deaths)
	assert.Equal(t, int64(0), g.Latest.Recovered)
	assert.Equal(t, 0.0, g.PctChange.Recovered)

	canada, err := snap.CountrySeries("Canada")
	require.NoError(t, err)
	require.Len(t, canada, 3)
	assert.Equal(t, int64(16), canada[2].Confirmed)
	// Repatriated Travellers imputed to the Ontario coordinates.
	assert.Equal(t, 50.0, canada[2].Lat)
	assert.Equal(t, -85.0, canada[2].Long)

	ship, ok := snap.Location("Cruise Ship")
	require.True(t, ok)
	assert.False(t, ship.Valid())

	require.Len(t, snap.Latest(), 5)

	r, err := snap.Query("USA")
	require.NoError(t, err)
	assert.Equal(t, int64(60), r.New.Confirmed)
	assert.Equal(t, int64(50), r.PriorNew.Confirmed)
	assert.InDelta(t, 3.0, r.Map.Zoom, 1e-9)
}

func TestBuildSnapshot_InvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Aliases["USA"] = "United States"

	_, err := BuildSnapshot(SourceTables{}, rules, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalization rules")
}

func TestBuildSnapshot_TooFewDates(t *testing.T) {
	src := SourceTables{Confirmed: WideTable{
		Dates: dates(1),
		Rows:  []WideRow{{Region: "Chad", Lat: 15, Long: 18, Values: []int64{1}}},
	}}

	_, err := BuildSnapshot(src, DefaultRules(), nil)
	require.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestSnapshot_AccessorsReturnCopies(t *testing.T) {
	snap := newTestSnapshot(t, countrySeries("Belize", 1, 2, 3), nil)

	days := snap.Days()
	days[0].Confirmed = 999
	countries := snap.Countries()
	countries[0] = "Mutated"
	locs := snap.Locations()
	locs["Belize"] = Location{Lat: math.NaN()}

	assert.Equal(t, int64(1), snap.Days()[0].Confirmed)
	assert.Equal(t, []string{"Belize"}, snap.Countries())
	l, _ := snap.Location("Belize")
	assert.True(t, l.Valid())
}

func TestSnapshot_WithLocations(t *testing.T) {
	snap := newTestSnapshot(t, countrySeries("Belize", 1, 2, 3), nil)

	moved := snap.WithLocations(map[string]Location{"Belize": {Lat: 17.2, Long: -88.5}})

	l, _ := moved.Location("Belize")
	assert.Equal(t, Location{Lat: 17.2, Long: -88.5}, l)
	orig, _ := snap.Location("Belize")
	assert.Equal(t, Location{Lat: 10, Long: 20}, orig)
}
