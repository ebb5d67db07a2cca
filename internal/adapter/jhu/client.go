package jhu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// Client downloads the JHU CSSE global time-series files.
type Client struct {
	urls       map[domain.Metric]string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given per-metric file URLs.
func NewClient(urls map[domain.Metric]string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		urls: urls,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchSeries downloads and parses the time-series file for metric.
func (c *Client) FetchSeries(ctx context.Context, metric domain.Metric) (domain.WideTable, error) {
	u, ok := c.urls[metric]
	if !ok || u == "" {
		return domain.WideTable{}, fmt.Errorf("no source URL for metric %s", metric)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("fetch %s series: %w", metric, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.WideTable{}, fmt.Errorf("fetch %s series: status %d: %s", metric, resp.StatusCode, body)
	}

	table, err := ParseWideTable(resp.Body)
	if err != nil {
		return domain.WideTable{}, fmt.Errorf("parse %s series: %w", metric, err)
	}

	c.logger.Debug("fetched series",
		"metric", metric,
		"rows", len(table.Rows),
		"dates", len(table.Dates),
		"duration", time.Since(start),
	)
	return table, nil
}
