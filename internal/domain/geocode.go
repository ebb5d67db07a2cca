package domain

import (
	"context"
	"log/slog"
)

// ResolveMissingCenters forward-geocodes every country whose map centre is
// unknown, which happens when imputation had no coordinates to average. A
// country absent from the latest day is judged by its own latest row. Lookups
// that fail or come back empty leave the centre unknown. With a nil geocoder
// the snapshot is returned as is.
func ResolveMissingCenters(ctx context.Context, snap *Snapshot, geocoder Geocoder, logger *slog.Logger) *Snapshot {
	if geocoder == nil {
		return snap
	}

	resolved := make(map[string]Location)
	for _, country := range snap.Countries() {
		if snap.centre(country).Valid() {
			continue
		}
		result, err := geocoder.ForwardGeocode(ctx, country)
		if err != nil {
			logger.Warn("forward geocoding failed", "country", country, "error", err)
			continue
		}
		if result.Lat == 0 && result.Lon == 0 {
			logger.Warn("forward geocoding returned no result", "country", country)
			continue
		}
		resolved[country] = Location{Lat: result.Lat, Long: result.Lon}
		logger.Debug("resolved map centre",
			"country", country,
			"place", result.PlaceName,
			"confidence", result.Confidence,
		)
	}

	if len(resolved) == 0 {
		return snap
	}
	return snap.WithLocations(resolved)
}
