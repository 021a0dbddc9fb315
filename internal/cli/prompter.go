package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/voltpath/chargelog/internal/engine"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

// Prompter implements the interactive CLI prompting interface for the
// station resolution decision. It is the presentation side of the
// workflow's Deciding state: when a scanned station name matches no known
// category it blocks on stdin until the user picks one of the three
// outcomes.
type Prompter struct {
	startTime      time.Time
	writer         io.Writer
	reader         *NonBlockingReader
	progressBar    *progressbar.ProgressBar
	stats          service.CompletionStats
	totalReceipts  int
	processedCount int
	statsMutex     sync.RWMutex
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
func NewCLIPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader:    NewNonBlockingReader(reader),
		writer:    writer,
		startTime: time.Now(),
	}
}

// ResolveStation presents the three-way decision for an unmatched station
// candidate and returns the chosen outcome.
func (p *Prompter) ResolveStation(ctx context.Context, pending model.PendingResolution) (engine.Outcome, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	p.updateProgress()

	content := p.formatPending(pending)
	if _, err := fmt.Fprintln(p.writer, RenderBox("Unknown Charging Station", content)); err != nil {
		return "", fmt.Errorf("failed to write station box: %w", err)
	}

	if _, err := fmt.Fprintln(p.writer, FormatPrompt("Options:")); err != nil {
		return "", fmt.Errorf("failed to write options: %w", err)
	}
	if _, err := fmt.Fprintf(p.writer, "  [C] Create station: %s\n", WarningStyle.Render(pending.Candidate)); err != nil {
		return "", fmt.Errorf("failed to write create option: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, "  [E] Use an existing station (pick in the form)"); err != nil {
		return "", fmt.Errorf("failed to write existing option: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, "  [X] Cancel this receipt"); err != nil {
		return "", fmt.Errorf("failed to write cancel option: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		return "", fmt.Errorf("failed to write newline: %w", err)
	}

	choice, err := p.promptChoice(ctx, "Choice [C/E/X]", []string{"c", "e", "x"})
	if err != nil {
		return "", err
	}

	switch choice {
	case "c":
		p.incrementStats(func(s *service.CompletionStats) {
			s.StationsCreated++
			s.UserResolved++
		})
		if _, err := fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf("Will create station: %s", pending.Candidate))); err != nil {
			slog.Warn("Failed to write create confirmation", "error", err)
		}
		return engine.OutcomeCreate, nil
	case "e":
		p.incrementStats(func(s *service.CompletionStats) {
			s.UserResolved++
		})
		return engine.OutcomeUseExisting, nil
	default:
		p.incrementStats(func(s *service.CompletionStats) {
			s.Canceled++
		})
		return engine.OutcomeCancel, nil
	}
}

// GetCompletionStats returns statistics about the ingestion session.
func (p *Prompter) GetCompletionStats() service.CompletionStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.Duration = time.Since(p.startTime)
	return stats
}

// SetTotalReceipts sets the number of receipts to be ingested and enables
// the progress bar.
func (p *Prompter) SetTotalReceipts(total int) {
	p.totalReceipts = total
	p.statsMutex.Lock()
	p.stats.TotalReceipts = total
	p.statsMutex.Unlock()
	p.initProgressBar()
}

// RecordAutoResolved counts a receipt that needed no user decision.
func (p *Prompter) RecordAutoResolved() {
	p.incrementStats(func(s *service.CompletionStats) {
		s.AutoResolved++
	})
	if p.progressBar != nil {
		if err := p.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

// ShowCompletion displays the ingestion summary to the user.
func (p *Prompter) ShowCompletion() {
	if p.progressBar != nil {
		if err := p.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
		if _, err := fmt.Fprintln(p.writer); err != nil {
			slog.Warn("Failed to write newline", "error", err)
		}
	}

	stats := p.GetCompletionStats()

	summary := fmt.Sprintf("%s Ingestion Complete!\n\n", BoltIcon) +
		fmt.Sprintf("%s Statistics:\n", ChartIcon) +
		fmt.Sprintf("  • Receipts processed: %d\n", stats.TotalReceipts) +
		fmt.Sprintf("  • Auto-resolved: %d\n", stats.AutoResolved) +
		fmt.Sprintf("  • User decisions: %d\n", stats.UserResolved) +
		fmt.Sprintf("  • Stations created: %d\n", stats.StationsCreated) +
		fmt.Sprintf("  • Canceled: %d\n", stats.Canceled) +
		fmt.Sprintf("  • Time taken: %s\n", stats.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(p.writer, RenderBox("Ingestion Complete", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

func (p *Prompter) initProgressBar() {
	p.progressBar = progressbar.NewOptions(p.totalReceipts,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Ingesting receipts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (p *Prompter) updateProgress() {
	p.processedCount++
	if p.progressBar != nil {
		if err := p.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

func (p *Prompter) incrementStats(update func(*service.CompletionStats)) {
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()
	update(&p.stats)
}

func (p *Prompter) formatPending(pending model.PendingResolution) string {
	header := TitleStyle.Render(fmt.Sprintf("Scanned station: %s", pending.Candidate))

	details := fmt.Sprintf("\n%s Extracted so far:\n", ReceiptIcon)
	details += formatAmount("Electricity fee", pending.Draft.ElectricityFee, "¥%.2f")
	details += formatAmount("Service fee", pending.Draft.ServiceFee, "¥%.2f")
	details += formatAmount("Total", pending.Draft.Total, "¥%.2f")
	details += formatAmount("Energy", pending.Draft.EnergyKWh, "%.1f kWh")

	if len(pending.AllCategories) > 0 {
		details += fmt.Sprintf("\n%s Known stations:\n", StationIcon)
		for i, cat := range pending.AllCategories {
			if i >= 5 {
				details += fmt.Sprintf("  • ... and %d more\n", len(pending.AllCategories)-5)
				break
			}
			details += fmt.Sprintf("  • %s\n", cat.Name)
		}
	}

	return header + details
}

func formatAmount(label string, value *float64, format string) string {
	if value == nil {
		return fmt.Sprintf("  %s: %s\n", label, SubtleStyle.Render("(not found)"))
	}
	return fmt.Sprintf("  %s: %s\n", label, fmt.Sprintf(format, *value))
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if _, err := fmt.Fprintf(p.writer, "%s: ", FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("input terminated")
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		choice := strings.ToLower(strings.TrimSpace(input))
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatWarning(fmt.Sprintf("Invalid choice %q, try again", choice))); err != nil {
			return "", fmt.Errorf("failed to write warning: %w", err)
		}
	}
}
