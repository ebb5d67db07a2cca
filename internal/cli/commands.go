package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
	"github.com/lewisaaronpaul/covid-dashboard/internal/view"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print global totals for the latest day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			summary, err := s.service.Summary()
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func newCountriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "Print latest-day totals for every country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := load(cmd)
			if err != nil {
				return err
			}
			printCountries(cmd.OutOrStdout(), s.pipeline.Snapshot().Latest())
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <country>",
		Short: "Print the KPIs and recent trend for one country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := cmd.Flags().GetInt("days")
			if err != nil {
				return fmt.Errorf("failed to get days flag: %w", err)
			}
			pngPath, err := cmd.Flags().GetString("png")
			if err != nil {
				return fmt.Errorf("failed to get png flag: %w", err)
			}

			s, err := load(cmd)
			if err != nil {
				return err
			}
			bundle, err := s.service.Country(args[0])
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), bundle, days)

			if pngPath != "" {
				png, err := s.service.TrendChart(args[0])
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, png, 0o644); err != nil {
					return fmt.Errorf("write trend chart: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Trend chart written to", pngPath)
			}
			return nil
		},
	}
	cmd.Flags().Int("days", 7, "number of most recent trend days to print")
	cmd.Flags().String("png", "", "also render the trend chart to this PNG file")
	return cmd
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader(header)
	return table
}

func printSummary(w io.Writer, s view.Summary) {
	fmt.Fprintln(w, s.LastUpdate)

	table := newTable(w, []string{"Metric", "Total", "New", "Change (%)"})
	for _, c := range s.Cards {
		table.Append([]string{
			c.Title,
			humanize.Comma(c.Total),
			humanize.Comma(c.New),
			percent(c.PctChange),
		})
	}
	table.Render()
}

func printCountries(w io.Writer, latest []domain.CountryDay) {
	table := newTable(w, []string{"Country", "Confirmed", "Deaths", "Recovered", "Active"})
	for _, d := range latest {
		table.Append([]string{
			d.Country,
			humanize.Comma(d.Confirmed),
			humanize.Comma(d.Deaths),
			humanize.Comma(d.Recovered),
			humanize.Comma(d.Active),
		})
	}
	table.Render()
}

func printReport(w io.Writer, b view.Bundle, days int) {
	fmt.Fprintln(w, b.Country)
	fmt.Fprintln(w, b.CountryLastUpdate)

	kpis := newTable(w, []string{"Metric", "Today", "Yesterday", "Delta", "Change (%)"})
	for _, k := range b.KPIs {
		kpis.Append([]string{
			k.Title,
			humanize.Comma(k.Value),
			humanize.Comma(k.Reference),
			signed(k.Delta),
			percent(k.PctChange),
		})
	}
	kpis.Render()

	fmt.Fprintln(w, b.Pie.Title)
	pie := newTable(w, b.Pie.Labels)
	values := make([]string, len(b.Pie.Values))
	for i, v := range b.Pie.Values {
		values[i] = humanize.Comma(v)
	}
	pie.Append(values)
	pie.Render()

	points := b.Trend.Points
	if days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}
	fmt.Fprintln(w, b.Trend.Title)
	trend := newTable(w, []string{"Date", "Daily Cases", "Daily Deaths", "7-Day Average"})
	for _, p := range points {
		avg := "-"
		if p.RollingAverage != nil {
			avg = strconv.FormatFloat(*p.RollingAverage, 'f', 1, 64)
		}
		trend.Append([]string{
			p.Date,
			humanize.Comma(p.DailyConfirmed),
			humanize.Comma(p.DailyDeaths),
			avg,
		})
	}
	trend.Render()
}

func percent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func signed(n int64) string {
	if n > 0 {
		return "+" + humanize.Comma(n)
	}
	return humanize.Comma(n)
}
