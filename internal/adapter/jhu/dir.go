package jhu

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// DirFetcher reads time-series files from a local directory. Each metric is
// looked up as <metric>.csv, then under the upstream file name
// time_series_covid19_<metric>_global.csv.
type DirFetcher struct {
	dir string
}

func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{dir: dir}
}

// FetchSeries parses the local file for metric.
func (f *DirFetcher) FetchSeries(_ context.Context, metric domain.Metric) (domain.WideTable, error) {
	for _, name := range []string{
		string(metric) + ".csv",
		fmt.Sprintf("time_series_covid19_%s_global.csv", metric),
	} {
		fh, err := os.Open(filepath.Join(f.dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.WideTable{}, err
		}
		table, err := ParseWideTable(fh)
		fh.Close()
		if err != nil {
			return domain.WideTable{}, fmt.Errorf("parse %s: %w", name, err)
		}
		return table, nil
	}
	return domain.WideTable{}, fmt.Errorf("no %s series file in %s", metric, f.dir)
}
