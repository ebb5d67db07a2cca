package mapbox

import (
	"context"
	"strings"

	"github.com/jellydator/ttlcache/v3"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
)

// CachedGeocoder wraps a Geocoder with a bounded in-memory cache. Least
// recently used entries are evicted once capacity is reached.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *ttlcache.Cache[string, domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner: inner,
		cache: ttlcache.New(
			ttlcache.WithCapacity[string, domain.GeocodingResult](uint64(max(maxEntries, 1))),
		),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, country string) (domain.GeocodingResult, error) {
	key := strings.ToLower(strings.TrimSpace(country))
	if item := c.cache.Get(key); item != nil {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return item.Value(), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ForwardGeocode(ctx, country)
	if err != nil {
		return result, err
	}
	// Empty results stay uncached so a later lookup can retry.
	if result.FormattedAddress != "" {
		c.cache.Set(key, result, ttlcache.NoTTL)
	}
	return result, nil
}

// Len reports the number of cached results.
func (c *CachedGeocoder) Len() int {
	return c.cache.Len()
}
