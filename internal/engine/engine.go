// Package engine implements the receipt ingestion pipeline: field
// classification, station matching, and the station resolution workflow.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/extract"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
	"github.com/voltpath/chargelog/internal/station"
)

// IngestEngine orchestrates receipt ingestion. Classification and
// matching are pure synchronous transformations; the engine only touches
// storage to read the category snapshot and to persist a newly created
// station.
type IngestEngine struct {
	storage    service.Storage
	classifier *extract.Classifier
	prompter   Prompter
}

// New creates an ingestion engine with the given dependencies. The
// prompter may be nil when only the non-interactive Ingest/ResolveStation
// API is used.
func New(storage service.Storage, prompter Prompter) *IngestEngine {
	return &IngestEngine{
		storage:    storage,
		classifier: extract.NewClassifier(),
		prompter:   prompter,
	}
}

// Ingest runs the classifier and the station matcher over recognized
// lines. When the extracted station name matches no known category the
// returned ingestion is suspended in StateDeciding and the caller must
// complete it with ResolveStation; otherwise it comes back resolved.
//
// An empty line slice is not an error: it yields an all-unset draft and a
// no-station decision.
func (e *IngestEngine) Ingest(ctx context.Context, lines []string) (*Ingestion, error) {
	ing := &Ingestion{State: StateClassifying}

	res := e.classifier.Classify(lines)
	ing.Draft = res.Draft
	ing.stationLine = res.StationLine

	candidate := ""
	if res.Draft.StationName != nil {
		candidate = *res.Draft.StationName
	}

	categories, err := e.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load station categories: %w", err)
	}

	decision := station.Match(candidate, categories)
	switch decision.Status {
	case model.StationMatched:
		ing.Draft.StationName = model.StringPtr(decision.Category.Name)
		ing.State = StateResolved
	case model.NoStationDetected:
		ing.Draft.StationName = nil
		ing.State = StateResolved
	case model.StationUnmatched:
		// The decision presents the raw recognized line, not the brand
		// canonical name: creating a station should keep what the
		// receipt actually said.
		if ing.stationLine != "" {
			decision = model.Unmatched(ing.stationLine)
		}
		ing.State = StateDeciding
	}
	ing.Decision = decision

	slog.Debug("ingested receipt text",
		"lines", len(lines),
		"status", decision.Status,
		"state", ing.State)
	return ing, nil
}

// ResolveStation completes a suspended ingestion with the user's chosen
// outcome. Only valid while the ingestion is in StateDeciding.
//
// If persisting a newly created station fails the draft survives:
// resolution degrades to clearing the station name and the error comes
// back wrapped in common.ErrStationPersist so callers can treat it as a
// recoverable warning.
func (e *IngestEngine) ResolveStation(ctx context.Context, ing *Ingestion, outcome Outcome) error {
	if ing == nil || ing.State != StateDeciding {
		return common.ErrDecisionNotPending
	}

	switch outcome {
	case OutcomeCreate:
		return e.createStation(ctx, ing)
	case OutcomeUseExisting:
		ing.Draft.StationName = nil
		ing.State = StateResolved
		return nil
	case OutcomeCancel:
		ing.Draft = model.ExtractionDraft{}
		ing.State = StateCanceled
		return nil
	default:
		return fmt.Errorf("unknown resolution outcome %q", outcome)
	}
}

// createStation synthesizes a category from the candidate name and
// persists it.
func (e *IngestEngine) createStation(ctx context.Context, ing *Ingestion) error {
	name := ing.Decision.Candidate
	colorHex, icon := extract.BrandStyle(name)

	categories, err := e.storage.GetCategories(ctx)
	if err != nil {
		return e.degradeToManualPick(ing, err)
	}

	category := &model.StationCategory{
		Name:      name,
		ColorHex:  colorHex,
		Icon:      icon,
		SortOrder: maxSortOrder(categories) + 1,
		IsActive:  true,
	}

	if _, err := e.storage.CreateCategory(ctx, category); err != nil {
		return e.degradeToManualPick(ing, err)
	}

	ing.Draft.StationName = model.StringPtr(name)
	ing.State = StateResolved
	slog.Info("created station category",
		"name", name,
		"sort_order", category.SortOrder)
	return nil
}

// degradeToManualPick keeps the draft's numeric data, clears the station
// name, and surfaces the failure as a recoverable warning.
func (e *IngestEngine) degradeToManualPick(ing *Ingestion, cause error) error {
	ing.Draft.StationName = nil
	ing.State = StateResolved
	return common.NewUserError(
		"could not save the new station; pick one manually in the form",
		fmt.Errorf("%w: %v", common.ErrStationPersist, cause))
}

// IngestInteractive runs Ingest and, when the ingestion suspends, drives
// the prompter for the three-way decision. A station persistence failure
// is returned alongside the resolved ingestion so the caller can warn
// without losing the draft.
func (e *IngestEngine) IngestInteractive(ctx context.Context, lines []string) (*Ingestion, error) {
	ing, err := e.Ingest(ctx, lines)
	if err != nil {
		return nil, err
	}
	if !ing.NeedsDecision() {
		return ing, nil
	}
	if e.prompter == nil {
		return ing, nil
	}

	categories, err := e.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load station categories: %w", err)
	}

	outcome, err := e.prompter.ResolveStation(ctx, model.PendingResolution{
		Candidate:     ing.Decision.Candidate,
		Draft:         ing.Draft,
		AllCategories: categories,
	})
	if err != nil {
		return nil, err
	}

	if err := e.ResolveStation(ctx, ing, outcome); err != nil {
		if errors.Is(err, common.ErrStationPersist) {
			return ing, err
		}
		return nil, err
	}
	return ing, nil
}

// maxSortOrder returns the largest sort order among the categories,
// treating an empty set as 0. The first category a fresh database ever
// creates therefore gets sort order 1, matching the app's historical
// behavior.
func maxSortOrder(categories []model.StationCategory) int {
	max := 0
	for _, c := range categories {
		if c.SortOrder > max {
			max = c.SortOrder
		}
	}
	return max
}
