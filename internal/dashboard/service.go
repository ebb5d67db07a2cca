// Package dashboard answers dashboard queries against the current snapshot.
package dashboard

import (
	"bytes"
	"errors"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
	"github.com/lewisaaronpaul/covid-dashboard/internal/view"
)

// ErrNotReady is returned before the startup pipeline has built a snapshot.
var ErrNotReady = errors.New("snapshot not built yet")

// SnapshotSource provides the current snapshot, or nil before it exists.
type SnapshotSource interface {
	Snapshot() *domain.Snapshot
}

// Service serves summary, country and map queries. Country reports are
// memoised per snapshot and country in a bounded cache; a snapshot never
// changes once built, so entries need no expiry.
type Service struct {
	source  SnapshotSource
	reports *ttlcache.Cache[reportKey, domain.CountryReport]
	logger  *slog.Logger
	metrics *observability.Metrics
}

type reportKey struct {
	snapshot *domain.Snapshot
	country  string
}

// NewService creates a Service holding at most cacheSize country reports.
func NewService(source SnapshotSource, cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source: source,
		reports: ttlcache.New(
			ttlcache.WithCapacity[reportKey, domain.CountryReport](uint64(max(cacheSize, 1))),
		),
		logger:  logger,
		metrics: metrics,
	}
}

func (s *Service) snapshot() (*domain.Snapshot, error) {
	snap := s.source.Snapshot()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// Summary returns the global cards.
func (s *Service) Summary() (view.Summary, error) {
	snap, err := s.snapshot()
	if err != nil {
		return view.Summary{}, err
	}
	return view.NewSummary(snap.Global(), snap.BuiltAt()), nil
}

// Countries returns the sorted country list for the selector.
func (s *Service) Countries() ([]string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Countries(), nil
}

// Report returns the raw country report.
func (s *Service) Report(country string) (domain.CountryReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.CountryReport{}, err
	}

	key := reportKey{snapshot: snap, country: country}
	if item := s.reports.Get(key); item != nil {
		s.metrics.ReportCache.WithLabelValues("hit").Inc()
		return item.Value(), nil
	}
	s.metrics.ReportCache.WithLabelValues("miss").Inc()

	start := time.Now()
	r, err := snap.Query(country)
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Queries.WithLabelValues(queryOutcome(err)).Inc()
		s.logger.Debug("country query failed", "country", country, "error", err)
		return domain.CountryReport{}, err
	}
	s.metrics.Queries.WithLabelValues("ok").Inc()

	s.reports.Set(key, r, ttlcache.NoTTL)
	return r, nil
}

// Country returns the country panel bundle.
func (s *Service) Country(country string) (view.Bundle, error) {
	r, err := s.Report(country)
	if err != nil {
		return view.Bundle{}, err
	}
	return view.NewBundle(r), nil
}

// TrendChart renders the country's trend as PNG.
func (s *Service) TrendChart(country string) ([]byte, error) {
	r, err := s.Report(country)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := view.RenderTrendPNG(&buf, r.Country, r.Trend); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Map returns the map panel centred on country.
func (s *Service) Map(country string) (view.MapDirective, error) {
	snap, err := s.snapshot()
	if err != nil {
		return view.MapDirective{}, err
	}
	r, err := s.Report(country)
	if err != nil {
		return view.MapDirective{}, err
	}
	return view.NewMapDirective(country, r.Map, snap.Latest(), snap.Locations()), nil
}

func queryOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownCountry):
		return "unknown_country"
	case errors.Is(err, domain.ErrInsufficientHistory):
		return "insufficient_history"
	default:
		return "error"
	}
}
