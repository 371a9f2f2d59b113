package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andeanbio/biomon/internal/utils"
	"github.com/andeanbio/biomon/pkg/aggregate"
	"github.com/andeanbio/biomon/pkg/report"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the biodiversity dashboard: metrics, rankings, trend and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")
		chartsDir, _ := cmd.Flags().GetString("charts")
		recentLimit, _ := cmd.Flags().GetInt("recent")

		ctx := context.Background()
		posts, species, err := loadData(ctx, offline)
		if err != nil {
			utils.Log.Errorf("Could not load data: %v", err)
		}

		now := time.Now()
		metrics := aggregate.ComputeMetrics(posts, species, now)
		ranking := aggregate.SpeciesRanking(posts, species)
		monthly := aggregate.MonthlySeries(posts)
		topUsers := aggregate.TopUsers(posts)
		recent := aggregate.RecentSightings(posts, species, now, recentLimit)

		fmt.Printf("Sightings: %d   Species: %d   Observers: %d   Locations: %d\n",
			metrics.TotalSightings, metrics.TotalSpecies, metrics.ActiveUsers, metrics.TotalLocations)
		fmt.Printf("Growth: %+.1f%% this week, %+.1f%% this month\n\n", metrics.WeeklyGrowth, metrics.MonthlyGrowth)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

		fmt.Fprintln(w, "TOP SPECIES\tCOUNT\t")
		for _, r := range ranking {
			fmt.Fprintf(w, "%s\t%d\t\n", r.Name, r.Count)
		}
		fmt.Fprintln(w, " \t \t")

		fmt.Fprintln(w, "MONTH\tSIGHTINGS\tSPECIES\t")
		for _, m := range monthly {
			fmt.Fprintf(w, "%s\t%d\t%d\t\n", m.Label, m.Sightings, m.Species)
		}
		fmt.Fprintln(w, " \t \t \t")

		fmt.Fprintln(w, "TOP OBSERVERS\tSIGHTINGS\tSPECIES\t")
		for _, u := range topUsers {
			fmt.Fprintf(w, "%s\t%d\t%d\t\n", u.Name, u.Sightings, u.Species)
		}
		fmt.Fprintln(w, " \t \t \t")

		fmt.Fprintln(w, "RECENT\tLOCATION\tOBSERVER\tWHEN\t")
		for _, r := range recent {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", r.Species, r.Location, r.User, r.TimeAgo)
		}
		w.Flush()

		if chartsDir != "" {
			if err := writeCharts(chartsDir, monthly, ranking); err != nil {
				return err
			}
		}

		return nil
	},
}

func writeCharts(dir string, monthly []aggregate.MonthlyPoint, ranking []aggregate.SpeciesRank) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	charts := []struct {
		name   string
		render func() (*bytes.Buffer, error)
	}{
		{"monthly.png", func() (*bytes.Buffer, error) { return report.MonthlyChart(monthly) }},
		{"species.png", func() (*bytes.Buffer, error) { return report.SpeciesChart(ranking) }},
	}

	for _, c := range charts {
		buf, err := c.render()
		if err == report.ErrNoData {
			utils.Log.Warnf("Skipping %s: no data", c.name)
			continue
		}
		if err != nil {
			return err
		}
		path := filepath.Join(dir, c.name)
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	dashboardCmd.Flags().Bool("offline", false, "Read from the local snapshot instead of the record store")
	dashboardCmd.Flags().String("charts", "", "Directory to write PNG charts into")
	dashboardCmd.Flags().Int("recent", 3, "How many recent sightings to show")
}
