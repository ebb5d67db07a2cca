package view

import (
	"math"
	"time"

	geojson "github.com/paulmach/go.geojson"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// MapDirective is the full map panel: where to look and what to plot.
type MapDirective struct {
	Country string                     `json:"country"`
	View    MapView                    `json:"view"`
	Points  *geojson.FeatureCollection `json:"points"`
}

// NewMapDirective plots one point per latest-day country. Each feature carries
// the country totals and a colour_scale in [0, 1] placing its confirmed count
// between the smallest and largest on the map. Countries without a known
// centre are left off.
func NewMapDirective(country string, m domain.MapView, latest []domain.CountryDay, locations map[string]domain.Location) MapDirective {
	return MapDirective{
		Country: country,
		View:    NewMapView(m),
		Points:  CountryPoints(latest, locations),
	}
}

// CountryPoints builds the GeoJSON layer of latest-day country totals.
func CountryPoints(latest []domain.CountryDay, locations map[string]domain.Location) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(latest) == 0 {
		return fc
	}

	lo, hi := latest[0].Confirmed, latest[0].Confirmed
	for _, d := range latest[1:] {
		lo = min(lo, d.Confirmed)
		hi = max(hi, d.Confirmed)
	}

	for _, d := range latest {
		loc, ok := locations[d.Country]
		if !ok {
			loc = domain.Location{Lat: d.Lat, Long: d.Long}
		}
		if !loc.Valid() {
			continue
		}
		f := geojson.NewPointFeature([]float64{loc.Long, loc.Lat})
		f.SetProperty("country", d.Country)
		f.SetProperty("date", d.Date.Format(time.DateOnly))
		f.SetProperty("confirmed", d.Confirmed)
		f.SetProperty("deaths", d.Deaths)
		f.SetProperty("recovered", d.Recovered)
		f.SetProperty("active", d.Active)
		f.SetProperty("color_scale", colorScale(d.Confirmed, lo, hi))
		fc.AddFeature(f)
	}
	return fc
}

// colorScale is (c - lo) / (hi - lo), or nil when every country has the same
// count.
func colorScale(c, lo, hi int64) *float64 {
	if hi == lo {
		return nil
	}
	v := float64(c-lo) / float64(hi-lo)
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
