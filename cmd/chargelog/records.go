package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/voltpath/chargelog/internal/cli"
	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Browse and manage charge records",
		Long:  `Add, list, and delete saved charging session records.`,
	}

	cmd.AddCommand(addRecordCmd())
	cmd.AddCommand(listRecordsCmd())
	cmd.AddCommand(deleteRecordCmd())

	return cmd
}

func addRecordCmd() *cobra.Command {
	var (
		dateStr       string
		station       string
		chargingTime  string
		notes         string
		electricity   float64
		serviceFee    float64
		total         float64
		energy        float64
		discount      float64
		points        float64
		extremeEnergy float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a charge record by hand",
		Long: `Record a charging session without a receipt scan.

Examples:
  chargelog records add --total 57.90 --energy 32.5
  chargelog records add -d 2026-08-30 --station 特斯拉充电站 --total 57.90 --energy 32.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date := time.Now()
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
				}
				date = parsed
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec := model.ChargeRecord{
				Date:             date,
				StationName:      station,
				ChargingTime:     chargingTime,
				Notes:            notes,
				ElectricityFee:   model.Round2(electricity),
				ServiceFee:       model.Round2(serviceFee),
				Total:            model.Round2(total),
				EnergyKWh:        model.Round1(energy),
				Discount:         model.Round3(discount),
				Points:           model.Round3(points),
				ExtremeEnergyKWh: model.Round3(extremeEnergy),
			}
			rec.ID = rec.GenerateHash()

			existing, err := store.GetRecordByID(ctx, rec.ID)
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("failed to check for duplicate: %w", err)
			}
			if existing != nil {
				return fmt.Errorf("a matching record already exists (%s): %w", rec.ID[:12], common.ErrDuplicateEntry)
			}

			if err := store.SaveRecord(ctx, &rec); err != nil {
				return fmt.Errorf("failed to save record: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved record %s", rec.ID[:12])))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Session date (format: 2006-01-02, default: today)")
	cmd.Flags().StringVar(&station, "station", "", "Station name")
	cmd.Flags().StringVar(&chargingTime, "charging-time", "", "Charging duration, freeform")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().Float64Var(&electricity, "electricity", 0, "Electricity fee")
	cmd.Flags().Float64Var(&serviceFee, "service", 0, "Service fee")
	cmd.Flags().Float64Var(&total, "total", 0, "Total amount")
	cmd.Flags().Float64Var(&energy, "energy", 0, "Energy in kWh")
	cmd.Flags().Float64Var(&discount, "discount", 0, "Discount amount")
	cmd.Flags().Float64Var(&points, "points", 0, "Reward points")
	cmd.Flags().Float64Var(&extremeEnergy, "extreme-energy", 0, "Off-peak energy in kWh")
	_ = cmd.MarkFlagRequired("total")
	_ = cmd.MarkFlagRequired("energy")

	return cmd
}

func listRecordsCmd() *cobra.Command {
	var (
		month   string
		station string
		limit   int
		year    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List charge records",
		Long: `Display saved charge records, newest first.

Examples:
  chargelog records list
  chargelog records list --month 2026-08
  chargelog records list --station 特斯拉充电站 --limit 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			filter := service.RecordFilter{Station: station, Limit: limit}
			if month != "" {
				start, parseErr := time.Parse("2006-01", month)
				if parseErr != nil {
					return fmt.Errorf("invalid month format (use YYYY-MM): %w", parseErr)
				}
				end := start.AddDate(0, 1, 0).Add(-time.Second)
				filter.StartDate = &start
				filter.EndDate = &end
			} else if year > 0 {
				start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
				end := start.AddDate(1, 0, 0).Add(-time.Second)
				filter.StartDate = &start
				filter.EndDate = &end
			}

			records, err := store.GetRecords(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to get records: %w", err)
			}

			if len(records) == 0 {
				fmt.Println(cli.InfoStyle.Render("No records found. Run 'chargelog ingest' to add some."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Date"),
				headerStyle.Render("Station"),
				headerStyle.Render("Total"),
				headerStyle.Render("Energy"),
				headerStyle.Render("Service"),
				headerStyle.Render("ID"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 24),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 12))

			for _, rec := range records {
				station := rec.StationName
				if station == "" {
					station = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("(no station)")
				}
				fmt.Fprintf(w, "%s\t%s\t¥%.2f\t%.1f kWh\t¥%.2f\t%s\n",
					rec.Date.Format("2006-01-02"),
					station,
					rec.Total,
					rec.EnergyKWh,
					rec.ServiceFee,
					rec.ID[:12])
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Limit to one year")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Limit to one month (format: 2026-01)")
	cmd.Flags().StringVar(&station, "station", "", "Limit to one station")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records (0 = all)")

	return cmd
}

func deleteRecordCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a charge record",
		Long:  `Delete a saved record by its ID or ID prefix as shown in 'records list'.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idArg := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			// Resolve ID prefixes against the full record set
			id := idArg
			if len(idArg) < 64 {
				records, listErr := store.GetRecords(ctx, service.RecordFilter{})
				if listErr != nil {
					return fmt.Errorf("failed to get records: %w", listErr)
				}
				matches := 0
				for _, rec := range records {
					if strings.HasPrefix(rec.ID, idArg) {
						id = rec.ID
						matches++
					}
				}
				if matches == 0 {
					return fmt.Errorf("no record matches ID %q", idArg)
				}
				if matches > 1 {
					return fmt.Errorf("ID prefix %q is ambiguous (%d matches)", idArg, matches)
				}
			}

			if !force {
				fmt.Printf("Are you sure you want to delete record %s? (y/N): ", id[:12])
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := store.DeleteRecord(ctx, id); err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted record %s", id[:12])))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
