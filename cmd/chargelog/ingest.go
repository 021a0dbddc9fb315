package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltpath/chargelog/internal/cli"
	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/engine"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest scanned receipt text into charge records",
		Long: `Turn recognized receipt text into structured charge records.

Each input file holds the text lines recognized from one receipt scan,
one line per row. The pipeline extracts fees, energy, and the station
name, matches the station against your known stations, and asks what to
do when it finds one it has never seen.

Examples:
  chargelog ingest receipt.txt
  chargelog ingest --date 2026-08-30 scans/*.txt
  chargelog ingest --dry-run receipt.txt  # preview without saving
  cat receipt.txt | chargelog ingest -    # read one receipt from stdin`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	// Flags
	cmd.Flags().StringP("date", "d", "", "Session date for the records (format: 2006-01-02, default: today)")
	cmd.Flags().Bool("dry-run", false, "Preview extraction without saving records")

	// Bind to viper
	_ = viper.BindPFlag("ingest.date", cmd.Flags().Lookup("date"))
	_ = viper.BindPFlag("ingest.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun := viper.GetBool("ingest.dry_run")

	date := time.Now()
	if v := viper.GetString("ingest.date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		date = parsed
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	// Ctrl-C stops between receipts; already-saved records stay saved
	interrupts := cli.NewInterruptHandler(os.Stdout)
	ctx = interrupts.HandleInterrupts(ctx, true)

	prompter := cli.NewCLIPrompter(os.Stdin, os.Stdout)
	prompter.SetTotalReceipts(len(args))
	eng := engine.New(store, prompter)

	saved := 0
	for _, path := range args {
		if ctx.Err() != nil {
			break
		}

		lines, err := readReceiptLines(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(lines) == 0 {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %v", path, common.ErrNoLines)))
			continue
		}

		if err := ingestOne(ctx, store, eng, prompter, path, lines, date, dryRun, &saved); err != nil {
			if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, context.Canceled) {
				break
			}
			return err
		}
	}

	prompter.ShowCompletion()
	if interrupts.WasInterrupted() {
		return nil
	}

	if dryRun {
		slog.Info("Dry run complete, nothing saved")
	} else {
		slog.Info("Ingestion complete", "saved", saved)
	}
	return nil
}

func ingestOne(ctx context.Context, store service.Storage, eng *engine.IngestEngine, prompter *cli.Prompter, path string, lines []string, date time.Time, dryRun bool, saved *int) error {
	ing, err := eng.IngestInteractive(ctx, lines)
	if err != nil && !errors.Is(err, common.ErrStationPersist) {
		return err
	}
	if err != nil {
		// The draft survives; only the new station failed to persist
		fmt.Println(cli.FormatWarning(err.Error()))
	}

	if ing.Decision.Status != model.StationUnmatched {
		prompter.RecordAutoResolved()
	}

	if ing.Canceled() {
		slog.Info("Receipt skipped", "file", path)
		return nil
	}

	rec := model.RecordFromDraft(ing.Draft, date)
	rec.ID = rec.GenerateHash()

	if dryRun {
		fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s", cli.ReceiptIcon, path), formatDraftSummary(rec)))
		return nil
	}

	existing, err := store.GetRecordByID(ctx, rec.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if existing != nil {
		slog.Warn("Skipping duplicate receipt", "file", path, "id", rec.ID[:12])
		return nil
	}

	if err := store.SaveRecord(ctx, &rec); err != nil {
		return fmt.Errorf("failed to save record for %s: %w", path, err)
	}
	*saved++
	slog.Debug("Saved charge record", "file", path, "id", rec.ID[:12])
	return nil
}

// readReceiptLines loads one receipt's recognized text, one line per row.
// The path "-" reads from stdin.
func readReceiptLines(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // user-supplied receipt path
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func formatDraftSummary(rec model.ChargeRecord) string {
	station := rec.StationName
	if station == "" {
		station = "(pick manually)"
	}
	return fmt.Sprintf(`Station:     %s
Electricity: ¥%.2f
Service:     ¥%.2f
Total:       ¥%.2f
Energy:      %.1f kWh`,
		station, rec.ElectricityFee, rec.ServiceFee, rec.Total, rec.EnergyKWh)
}
