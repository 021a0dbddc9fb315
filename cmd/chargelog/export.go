package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltpath/chargelog/internal/cli"
	"github.com/voltpath/chargelog/internal/config"
	"github.com/voltpath/chargelog/internal/export"
	"github.com/voltpath/chargelog/internal/service"
	"github.com/voltpath/chargelog/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export charge records",
		Long:  `Export saved charge records to CSV or Google Sheets.`,
	}

	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportCSVCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export records to CSV",
		Long: `Write all saved records as CSV, newest first.

Examples:
  chargelog export csv                       # To stdout
  chargelog export csv -o charging-2026.csv  # To a file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.GetRecords(ctx, service.RecordFilter{})
			if err != nil {
				return fmt.Errorf("failed to get records: %w", err)
			}

			w := os.Stdout
			if output != "" {
				f, createErr := os.Create(output) //nolint:gosec // user-supplied output path
				if createErr != nil {
					return fmt.Errorf("failed to create %s: %w", output, createErr)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := export.WriteCSV(w, records); err != nil {
				return fmt.Errorf("failed to export records: %w", err)
			}

			if output != "" {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d records to %s", len(records), output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "Export records to Google Sheets",
		Long: `Write all saved records into a Google Sheets charging report.

Requires Google Sheets credentials. Run 'chargelog auth sheets' first
or configure a service account under sheets.service_account_path.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sheetsConfig, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("google Sheets is not configured: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.GetRecords(ctx, service.RecordFilter{})
			if err != nil {
				return fmt.Errorf("failed to get records: %w", err)
			}
			if len(records) == 0 {
				slog.Info("No records to export. Run 'chargelog ingest' first.")
				return nil
			}

			writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			if err := writer.Write(ctx, records); err != nil {
				return fmt.Errorf("failed to export to sheets: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d records to Google Sheets", len(records))))
			return nil
		},
	}
}
