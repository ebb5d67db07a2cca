package domain

// Zoom calibration: a country of ~8,900 sq mi (Belize) fills the map at zoom
// 7, one of ~3,800,000 sq mi (USA) at zoom 3. Levels are interpolated
// linearly between the anchors and not clamped outside them.
const (
	DefaultZoom    = 7.0
	smallAreaSqMi  = 8900.0
	smallAreaZoom  = 7.0
	largeAreaSqMi  = 3800000.0
	largeAreaZoom  = 3.0
	zoomPerSqMiles = (largeAreaZoom - smallAreaZoom) / (largeAreaSqMi - smallAreaSqMi)
)

// AreaTable maps a country key to its area in square miles. Keys must use
// the normalized country names.
type AreaTable map[string]float64

// ZoomForArea interpolates a map zoom level from a land area.
func ZoomForArea(area float64) float64 {
	return smallAreaZoom + zoomPerSqMiles*(area-smallAreaSqMi)
}

// Zoom returns the zoom level for country, or DefaultZoom when the country
// has no known area.
func (a AreaTable) Zoom(country string) float64 {
	area, ok := a[country]
	if !ok {
		return DefaultZoom
	}
	return ZoomForArea(area)
}
