package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltpath/chargelog/internal/cli"
	"github.com/voltpath/chargelog/internal/service"
	"github.com/voltpath/chargelog/internal/stats"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "View charging spend summaries",
		Long: `Summarize your charging spend with per-station and monthly breakdowns.

Examples:
  chargelog stats              # All time
  chargelog stats --year 2026  # One year
  chargelog stats --month 2026-08`,
		RunE: runStats,
	}

	cmd.Flags().IntP("year", "y", 0, "Year to summarize (0 = all time)")
	cmd.Flags().StringP("month", "m", "", "Specific month to summarize (format: 2026-01)")

	_ = viper.BindPFlag("stats.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("stats.month", cmd.Flags().Lookup("month"))

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year := viper.GetInt("stats.year")
	month := viper.GetString("stats.month")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	filter := service.RecordFilter{}
	period := "All Time"
	if month != "" {
		start, parseErr := time.Parse("2006-01", month)
		if parseErr != nil {
			return fmt.Errorf("invalid month format (use YYYY-MM): %w", parseErr)
		}
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		filter.StartDate = &start
		filter.EndDate = &end
		period = month
	} else if year > 0 {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
		end := start.AddDate(1, 0, 0).Add(-time.Second)
		filter.StartDate = &start
		filter.EndDate = &end
		period = fmt.Sprintf("%d", year)
	}

	records, err := store.GetRecords(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}

	summary := stats.Compute(records)
	fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s Charging", cli.ChartIcon, period), formatSummary(summary)))
	return nil
}

func formatSummary(s stats.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total spent:   ¥%.2f\n", s.TotalSpent)
	fmt.Fprintf(&b, "Total energy:  %.1f kWh\n", s.TotalEnergyKWh)
	fmt.Fprintf(&b, "Sessions:      %d\n", s.SessionCount)
	if s.SessionCount > 0 {
		fmt.Fprintf(&b, "Avg per kWh:   ¥%.2f\n", s.AvgCostPerKWh)
		fmt.Fprintf(&b, "Avg per visit: ¥%.2f\n", s.AvgCostPerVisit)
	}
	if s.TotalDiscount > 0 {
		fmt.Fprintf(&b, "Discounts:     ¥%.2f\n", s.TotalDiscount)
	}

	if len(s.ByStation) > 0 {
		fmt.Fprintf(&b, "\n%s Stations\n", cli.StationIcon)
		for _, st := range s.ByStation {
			fmt.Fprintf(&b, "  %-24s ¥%.2f  (%d sessions, %.1f kWh)\n",
				st.Name, st.Spent, st.Sessions, st.EnergyKWh)
		}
	}

	if len(s.ByMonth) > 1 {
		fmt.Fprintf(&b, "\n%s Months\n", cli.ChartIcon)
		for _, mo := range s.ByMonth {
			fmt.Fprintf(&b, "  %s  ¥%.2f  (%d sessions)\n", mo.Month, mo.Spent, mo.Sessions)
		}
	}

	// A single-month view breaks down by week instead
	if len(s.ByMonth) == 1 && len(s.ByWeek) > 1 {
		fmt.Fprintf(&b, "\n%s Weeks\n", cli.ChartIcon)
		for _, wk := range s.ByWeek {
			fmt.Fprintf(&b, "  %s  ¥%.2f  (%d sessions)\n", wk.Week, wk.Spent, wk.Sessions)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
