// Package cli implements covidctl, a terminal view of the dashboard that
// builds the snapshot once and prints tables.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lewisaaronpaul/covid-dashboard/internal/adapter/area"
	"github.com/lewisaaronpaul/covid-dashboard/internal/adapter/jhu"
	"github.com/lewisaaronpaul/covid-dashboard/internal/config"
	"github.com/lewisaaronpaul/covid-dashboard/internal/dashboard"
	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/observability"
	"github.com/lewisaaronpaul/covid-dashboard/internal/pipeline"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// Run executes covidctl with os.Args.
func Run() ExitCode {
	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "covidctl",
		Short:        "Terminal view of the COVID-19 dashboard.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "set debug logging level")
	flags.String("data-dir", "", "read the time-series CSVs from this directory instead of downloading them")
	flags.String("area", "data/area.csv", "country area table used for map zoom")
	flags.String("rules", "", "YAML file overriding the region normalization rules")

	rootCmd.AddCommand(
		newSummaryCmd(),
		newCountriesCmd(),
		newReportCmd(),
	)
	return rootCmd
}

// session is a built snapshot plus the query service over it.
type session struct {
	pipeline *pipeline.Pipeline
	service  *dashboard.Service
}

// load runs the startup pipeline with the root flags.
func load(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	dataDir, err := flags.GetString("data-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get data-dir flag: %w", err)
	}
	areaFile, err := flags.GetString("area")
	if err != nil {
		return nil, fmt.Errorf("failed to get area flag: %w", err)
	}
	rulesFile, err := flags.GetString("rules")
	if err != nil {
		return nil, fmt.Errorf("failed to get rules flag: %w", err)
	}

	log := newLogger(cmd.ErrOrStderr(), verbose)

	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		return nil, err
	}
	areas, err := area.LoadFile(areaFile)
	if err != nil {
		return nil, err
	}

	var fetcher pipeline.SeriesFetcher
	if dataDir != "" {
		fetcher = jhu.NewDirFetcher(dataDir)
	} else {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		fetcher = jhu.NewClient(map[domain.Metric]string{
			domain.MetricConfirmed: cfg.ConfirmedURL,
			domain.MetricDeaths:    cfg.DeathsURL,
			domain.MetricRecovered: cfg.RecoveredURL,
		}, cfg.FetchTimeout, log)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	metrics := observability.NewUnregisteredMetrics()
	p := pipeline.New(fetcher, pipeline.Reference{Rules: rules, Areas: areas}, nil, nil, log, metrics)
	if err := p.Run(ctx); err != nil {
		return nil, err
	}
	return &session{
		pipeline: p,
		service:  dashboard.NewService(p, 16, log, metrics),
	}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return observability.NewLoggerTo(w, "text", level)
}
