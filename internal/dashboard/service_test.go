package dashboard

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
)

type staticSource struct {
	snap *domain.Snapshot
}

func (s *staticSource) Snapshot() *domain.Snapshot { return s.snap }

var baseDate = time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC)

func series(country string, lat, long float64, confirmed ...int64) []domain.CountryDay {
	out := make([]domain.CountryDay, len(confirmed))
	for i, c := range confirmed {
		out[i] = domain.CountryDay{
			Date:    baseDate.AddDate(0, 0, i),
			Country: country,
			Lat:     lat,
			Long:    long,
			Totals:  domain.NewTotals(c, c/10, 0),
		}
	}
	return out
}

func testSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	days := append(series("Belize", 17.2, -88.5, 100, 150, 210), series("Chile", -35.7, -71.5, 10, 20, 40)...)
	days = append(days, domain.CountryDay{Date: baseDate.AddDate(0, 0, 2), Country: "Tonga", Lat: -21.2, Long: -175.2})
	snap, err := domain.NewSnapshot(days, domain.AreaTable{"Belize": 8900})
	require.NoError(t, err)
	return snap
}

func newTestService(t *testing.T, snap *domain.Snapshot) (*Service, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	return NewService(&staticSource{snap: snap}, 16, slog.New(slog.NewTextHandler(io.Discard, nil)), m), m
}

func TestService_NotReady(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Summary()
	require.ErrorIs(t, err, ErrNotReady)
	_, err = svc.Countries()
	require.ErrorIs(t, err, ErrNotReady)
	_, err = svc.Country("Belize")
	require.ErrorIs(t, err, ErrNotReady)
	_, err = svc.Map("Belize")
	require.ErrorIs(t, err, ErrNotReady)
}

func TestService_Summary(t *testing.T) {
	svc, _ := newTestService(t, testSnapshot(t))

	s, err := svc.Summary()
	require.NoError(t, err)

	assert.Equal(t, "Last Update: April 03, 2022", s.LastUpdate)
	require.Len(t, s.Cards, 4)
	assert.Equal(t, int64(250), s.Cards[0].Total)
	assert.Equal(t, int64(80), s.Cards[0].New)
}

func TestService_Countries(t *testing.T) {
	svc, _ := newTestService(t, testSnapshot(t))

	countries, err := svc.Countries()
	require.NoError(t, err)
	assert.Equal(t, []string{"Belize", "Chile", "Tonga"}, countries)
}

func TestService_Country(t *testing.T) {
	svc, m := newTestService(t, testSnapshot(t))

	b, err := svc.Country("Belize")
	require.NoError(t, err)
	assert.Equal(t, int64(60), b.KPIs[0].Value)
	assert.Equal(t, int64(50), b.KPIs[0].Reference)
	assert.Equal(t, 7.0, b.Map.Zoom)

	_, err = svc.Country("Belize")
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ReportCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReportCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Queries.WithLabelValues("ok")), 0)
}

func TestService_CountryErrors(t *testing.T) {
	svc, m := newTestService(t, testSnapshot(t))

	_, err := svc.Country("Atlantis")
	require.ErrorIs(t, err, domain.ErrUnknownCountry)

	_, err = svc.Country("Tonga")
	require.ErrorIs(t, err, domain.ErrInsufficientHistory)

	// Failures are not cached.
	_, err = svc.Country("Tonga")
	require.ErrorIs(t, err, domain.ErrInsufficientHistory)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Queries.WithLabelValues("unknown_country")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Queries.WithLabelValues("insufficient_history")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.ReportCache.WithLabelValues("hit")), 0)
}

func TestService_TrendChart(t *testing.T) {
	svc, _ := newTestService(t, testSnapshot(t))

	png, err := svc.TrendChart("Chile")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestService_Map(t *testing.T) {
	svc, _ := newTestService(t, testSnapshot(t))

	md, err := svc.Map("Chile")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultZoom, md.View.Zoom)
	require.NotNil(t, md.View.Center)
	assert.Equal(t, -35.7, md.View.Center.Lat)
	assert.Len(t, md.Points.Features, 3)
}
