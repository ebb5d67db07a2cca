//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Chile")
	require.NoError(t, err)

	assert.InDelta(t, -37.0, result.Lat, 10, "lat should be inside Chile")
	assert.InDelta(t, -72.0, result.Lon, 5, "lon should be inside Chile")
	assert.Equal(t, "Chile", result.PlaceName)
	assert.Greater(t, result.Confidence, 0.5)
}

func TestSmoke_ForwardGeocode_Unknown(t *testing.T) {
	c := smokeClient(t)

	// Fuzzy matching may still return a feature; only the absence of an error
	// is asserted.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99")
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	r1, err := cached.ForwardGeocode(context.Background(), "Peru")
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Peru")

	r2, err := cached.ForwardGeocode(context.Background(), "Peru")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
