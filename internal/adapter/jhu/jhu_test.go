package jhu

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

const confirmedCSV = `Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,1/24/20
,Afghanistan,33.93911,67.709953,0,0,1
Ontario,Canada,51.2538,-85.3232,2,3.0,5
Repatriated Travellers,Canada,,,0,,1
Jeju,"Korea, South",33.4,126.5,1,1,2
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseWideTable(t *testing.T) {
	table, err := ParseWideTable(strings.NewReader(confirmedCSV))
	require.NoError(t, err)

	require.Len(t, table.Dates, 3)
	assert.Equal(t, time.Date(2020, time.January, 22, 0, 0, 0, 0, time.UTC), table.Dates[0])
	assert.Equal(t, time.Date(2020, time.January, 24, 0, 0, 0, 0, time.UTC), table.Dates[2])

	require.Len(t, table.Rows, 4)
	afg := table.Rows[0]
	assert.Equal(t, "Afghanistan", afg.Region)
	assert.Empty(t, afg.SubRegion)
	assert.InDelta(t, 33.93911, afg.Lat, 1e-9)
	assert.Equal(t, []int64{0, 0, 1}, afg.Values)

	assert.Equal(t, []int64{2, 3, 5}, table.Rows[1].Values, "float cells are accepted")

	rt := table.Rows[2]
	assert.Equal(t, "Repatriated Travellers", rt.SubRegion)
	assert.True(t, math.IsNaN(rt.Lat))
	assert.True(t, math.IsNaN(rt.Long))
	assert.Equal(t, []int64{0, 0, 1}, rt.Values, "blank counts read as zero")

	assert.Equal(t, "Korea, South", table.Rows[3].Region, "quoted fields keep their commas")
}

func TestParseWideTable_MeltsToRowsTimesDates(t *testing.T) {
	table, err := ParseWideTable(strings.NewReader(confirmedCSV))
	require.NoError(t, err)

	assert.Len(t, domain.Melt(table), len(table.Rows)*len(table.Dates))
}

func TestParseWideTable_AlternateHeaderSpellings(t *testing.T) {
	in := "\ufeffProvince_State,Country_Region,Lat,Long_,2020-03-01\n,Chad,15,18,3\n"

	table, err := ParseWideTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC), table.Dates[0])
	assert.Equal(t, "Chad", table.Rows[0].Region)
}

func TestParseWideTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{name: "empty", input: "", wantErr: domain.ErrSchema},
		{name: "too few columns", input: "Province/State,Country/Region\n", wantErr: domain.ErrSchema},
		{name: "wrong identity column", input: "State,Country/Region,Lat,Long,1/22/20\n", wantErr: domain.ErrSchema, wantMsg: `"State"`},
		{name: "malformed date", input: "Province/State,Country/Region,Lat,Long,22 Jan\n", wantErr: domain.ErrMalformedDate, wantMsg: "22 Jan"},
		{name: "short row", input: "Province/State,Country/Region,Lat,Long,1/22/20\n,Chad,15\n", wantErr: domain.ErrSchema, wantMsg: "line 2"},
		{name: "bad count", input: "Province/State,Country/Region,Lat,Long,1/22/20\n,Chad,15,18,many\n", wantMsg: `invalid count "many"`},
		{name: "bad latitude", input: "Province/State,Country/Region,Lat,Long,1/22/20\n,Chad,north,18,1\n", wantMsg: "lat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWideTable(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClient_FetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/confirmed.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, confirmedCSV)
	}))
	defer srv.Close()

	c := NewClient(map[domain.Metric]string{domain.MetricConfirmed: srv.URL + "/confirmed.csv"}, 5*time.Second, discardLogger())

	table, err := c.FetchSeries(context.Background(), domain.MetricConfirmed)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 4)
}

func TestClient_FetchSeries_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(map[domain.Metric]string{domain.MetricDeaths: srv.URL}, 5*time.Second, discardLogger())

	_, err := c.FetchSeries(context.Background(), domain.MetricDeaths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "deaths")
}

func TestClient_FetchSeries_SchemaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>not a csv</html>\n")
	}))
	defer srv.Close()

	c := NewClient(map[domain.Metric]string{domain.MetricRecovered: srv.URL}, 5*time.Second, discardLogger())

	_, err := c.FetchSeries(context.Background(), domain.MetricRecovered)
	require.ErrorIs(t, err, domain.ErrSchema)
}

func TestClient_FetchSeries_UnknownMetric(t *testing.T) {
	c := NewClient(nil, time.Second, discardLogger())

	_, err := c.FetchSeries(context.Background(), domain.MetricActive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source URL")
}

func TestClient_FetchSeries_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, confirmedCSV)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewClient(map[domain.Metric]string{domain.MetricConfirmed: srv.URL}, 5*time.Second, discardLogger())

	_, err := c.FetchSeries(ctx, domain.MetricConfirmed)
	require.ErrorIs(t, err, context.Canceled)
}
