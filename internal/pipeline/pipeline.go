package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
)

// SeriesFetcher downloads one wide time-series table.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, metric domain.Metric) (domain.WideTable, error)
}

// SnapshotPublisher forwards a built snapshot downstream.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap *domain.Snapshot) error
}

// Reference is the static input of a build.
type Reference struct {
	Rules domain.Rules
	Areas domain.AreaTable
}

// Pipeline builds the process-wide snapshot once at startup.
type Pipeline struct {
	fetcher   SeriesFetcher
	ref       Reference
	geocoder  domain.Geocoder
	publisher SnapshotPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	snapshot atomic.Pointer[domain.Snapshot]
	ready    atomic.Bool
}

// New creates a Pipeline. geocoder and publisher are optional and may be nil.
func New(fetcher SeriesFetcher, ref Reference, geocoder domain.Geocoder, publisher SnapshotPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		ref:       ref,
		geocoder:  geocoder,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a snapshot has been built, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("snapshot has not been built yet")
	}
	return nil
}

// Snapshot returns the current snapshot, or nil before Run succeeds.
func (p *Pipeline) Snapshot() *domain.Snapshot {
	return p.snapshot.Load()
}

// Run fetches the three source tables concurrently, builds the snapshot,
// resolves missing map centres and publishes the latest day. Fetch and build
// failures are returned; geocoding and publishing failures are logged.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("pipeline started")

	src, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	snap, err := domain.BuildSnapshot(src, p.ref.Rules, p.ref.Areas)
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	snap = domain.ResolveMissingCenters(ctx, snap, p.geocoder, p.logger)

	p.snapshot.Store(snap)
	p.ready.Store(true)
	p.metrics.PipelineReady.Set(1)
	p.metrics.Countries.Set(float64(len(snap.Countries())))
	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("snapshot ready",
		"countries", len(snap.Countries()),
		"last_update", snap.LastUpdate().Format(time.DateOnly),
		"duration", time.Since(start),
	)

	p.publish(ctx, snap)
	return nil
}

func (p *Pipeline) fetch(ctx context.Context) (domain.SourceTables, error) {
	tables := make([]domain.WideTable, len(domain.SourceMetrics))

	g, gctx := errgroup.WithContext(ctx)
	for i, metric := range domain.SourceMetrics {
		g.Go(func() error {
			t, err := p.fetcher.FetchSeries(gctx, metric)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", metric, err)
			}
			p.metrics.SourceRows.WithLabelValues(string(metric)).Add(float64(len(t.Rows)))
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.SourceTables{}, err
	}

	return domain.SourceTables{
		Confirmed: tables[0],
		Deaths:    tables[1],
		Recovered: tables[2],
	}, nil
}

func (p *Pipeline) publish(ctx context.Context, snap *domain.Snapshot) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishSnapshot(ctx, snap); err != nil {
		p.metrics.SnapshotPublishErrors.Inc()
		p.logger.Error("publish snapshot failed", "error", err)
		return
	}
	p.metrics.SnapshotMessagesProduced.Add(float64(len(snap.Latest())))
}
