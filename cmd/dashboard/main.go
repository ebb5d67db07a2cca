package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lewisaaronpaul/covid-dashboard/internal/adapter/area"
	httpadapter "github.com/lewisaaronpaul/covid-dashboard/internal/adapter/http"
	"github.com/lewisaaronpaul/covid-dashboard/internal/adapter/jhu"
	kafkaadapter "github.com/lewisaaronpaul/covid-dashboard/internal/adapter/kafka"
	"github.com/lewisaaronpaul/covid-dashboard/internal/adapter/mapbox"
	"github.com/lewisaaronpaul/covid-dashboard/internal/config"
	"github.com/lewisaaronpaul/covid-dashboard/internal/dashboard"
	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
	"github.com/lewisaaronpaul/covid-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		logger.Error("failed to load normalization rules", "error", err)
		os.Exit(1)
	}
	areas, err := area.LoadFile(cfg.AreaFile)
	if err != nil {
		logger.Error("failed to load area table", "path", cfg.AreaFile, "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Snapshot publishing is optional (KAFKA_BROKERS).
	var (
		publisher pipeline.SnapshotPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.PublishEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic)
	}

	fetcher := jhu.NewClient(map[domain.Metric]string{
		domain.MetricConfirmed: cfg.ConfirmedURL,
		domain.MetricDeaths:    cfg.DeathsURL,
		domain.MetricRecovered: cfg.RecoveredURL,
	}, cfg.FetchTimeout, logger)

	p := pipeline.New(fetcher, pipeline.Reference{Rules: rules, Areas: areas}, geocoder, publisher, logger, metrics)
	svc := dashboard.NewService(p, cfg.ReportCacheSize, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server. API routes answer 503 until the snapshot is built.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	exitCode := 0
	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline error", "error", err)
		exitCode = 1
		stop()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
