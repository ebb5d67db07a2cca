package jhu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

func TestDirFetcher_ShortName(t *testing.T) {
	f := NewDirFetcher(filepath.Join("..", "..", "pipeline", "testdata"))

	table, err := f.FetchSeries(context.Background(), domain.MetricConfirmed)
	require.NoError(t, err)

	require.Len(t, table.Dates, 4)
	assert.Equal(t, "Belize", table.Rows[0].Region)
}

func TestDirFetcher_UpstreamName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "time_series_covid19_deaths_global.csv")
	require.NoError(t, os.WriteFile(path, []byte(confirmedCSV), 0o600))

	table, err := NewDirFetcher(dir).FetchSeries(context.Background(), domain.MetricDeaths)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 4)
}

func TestDirFetcher_Missing(t *testing.T) {
	_, err := NewDirFetcher(t.TempDir()).FetchSeries(context.Background(), domain.MetricRecovered)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recovered series file")
}

func TestDirFetcher_SchemaError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "confirmed.csv"), []byte("a,b\n1,2\n"), 0o600))

	_, err := NewDirFetcher(dir).FetchSeries(context.Background(), domain.MetricConfirmed)
	require.ErrorIs(t, err, domain.ErrSchema)
}
