package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

// SourceTables are the three wide tables a snapshot is built from.
type SourceTables struct {
	Confirmed WideTable
	Deaths    WideTable
	Recovered WideTable
}

// Snapshot is the immutable, process-wide result of the startup pipeline.
// All accessors return copies; a Snapshot is safe for concurrent readers.
type Snapshot struct {
	days      []CountryDay
	byCountry map[string][]CountryDay
	countries []string
	global    GlobalStats
	latest    []CountryDay
	locations map[string]Location
	areas     AreaTable
	builtAt   time.Time
}

// BuildSnapshot runs reshape, merge, normalize, impute and aggregate over the
// source tables.
func BuildSnapshot(src SourceTables, rules Rules, areas AreaTable) (*Snapshot, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("normalization rules: %w", err)
	}

	merged := Merge(Melt(src.Confirmed), Melt(src.Deaths), Melt(src.Recovered))
	merged = Normalize(merged, rules)
	merged = Impute(merged, rules.ImputeCountries)

	return NewSnapshot(Aggregate(merged), areas)
}

// NewSnapshot indexes an aggregate produced by Aggregate.
func NewSnapshot(days []CountryDay, areas AreaTable) (*Snapshot, error) {
	global, err := ComputeGlobal(days)
	if err != nil {
		return nil, err
	}

	byCountry := make(map[string][]CountryDay)
	for _, d := range days {
		byCountry[d.Country] = append(byCountry[d.Country], d)
	}
	for _, series := range byCountry {
		slices.SortFunc(series, func(a, b CountryDay) int { return a.Date.Compare(b.Date) })
	}

	latest := LatestRows(days)
	locations := make(map[string]Location, len(latest))
	for _, d := range latest {
		locations[d.Country] = Location{Lat: d.Lat, Long: d.Long}
	}

	if areas == nil {
		areas = AreaTable{}
	}

	return &Snapshot{
		days:      slices.Clone(days),
		byCountry: byCountry,
		countries: slices.Sorted(maps.Keys(byCountry)),
		global:    global,
		latest:    latest,
		locations: locations,
		areas:     maps.Clone(areas),
		builtAt:   clock.Now(),
	}, nil
}

// WithLocations returns a copy of the snapshot whose map centres are
// overridden by the given locations.
func (s *Snapshot) WithLocations(overrides map[string]Location) *Snapshot {
	cp := *s
	cp.locations = maps.Clone(s.locations)
	maps.Copy(cp.locations, overrides)
	return &cp
}

// Days returns the full country-day aggregate, ordered by date then country.
func (s *Snapshot) Days() []CountryDay { return slices.Clone(s.days) }

// Countries returns the sorted country keys.
func (s *Snapshot) Countries() []string { return slices.Clone(s.countries) }

// HasCountry reports whether country is a key of the aggregate.
func (s *Snapshot) HasCountry(country string) bool {
	_, ok := s.byCountry[country]
	return ok
}

// Global returns the global latest-day statistics.
func (s *Snapshot) Global() GlobalStats { return s.global }

// LastUpdate is the most recent date in the aggregate.
func (s *Snapshot) LastUpdate() time.Time { return s.global.LatestDate }

// BuiltAt is when the snapshot was assembled.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Latest returns one row per country on the most recent date.
func (s *Snapshot) Latest() []CountryDay { return slices.Clone(s.latest) }

// Location returns the map centre for a country present on the latest date
// or resolved by geocoding.
func (s *Snapshot) Location(country string) (Location, bool) {
	l, ok := s.locations[country]
	return l, ok
}

// Locations returns the latest-day map centres plus any resolved overrides.
func (s *Snapshot) Locations() map[string]Location { return maps.Clone(s.locations) }

// centre is the map centre Query would report for country.
func (s *Snapshot) centre(country string) Location {
	if loc, ok := s.locations[country]; ok {
		return loc
	}
	series := s.byCountry[country]
	if len(series) == 0 {
		return Location{Lat: math.NaN(), Long: math.NaN()}
	}
	last := series[len(series)-1]
	return Location{Lat: last.Lat, Long: last.Long}
}

// Zoom returns the map zoom level for country.
func (s *Snapshot) Zoom(country string) float64 { return s.areas.Zoom(country) }

// CountrySeries returns a country's rows ordered by date.
func (s *Snapshot) CountrySeries(country string) ([]CountryDay, error) {
	series, ok := s.byCountry[country]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	return slices.Clone(series), nil
}
