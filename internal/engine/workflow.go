package engine

import (
	"github.com/voltpath/chargelog/internal/model"
)

// State is the station resolution workflow state for one ingestion.
type State string

// Workflow states. The only suspension point is StateDeciding, which
// waits on a human decision for an unbounded time.
const (
	StateIdle        State = "IDLE"
	StateClassifying State = "CLASSIFYING"
	StateDeciding    State = "DECIDING"
	StateResolved    State = "RESOLVED"
	StateCanceled    State = "CANCELED"
)

// Outcome is one of the three resolvable decisions for an unmatched
// station candidate.
type Outcome string

// Decision outcomes.
const (
	// OutcomeCreate synthesizes and persists a new station category from
	// the candidate name.
	OutcomeCreate Outcome = "CREATE"
	// OutcomeUseExisting discards the candidate so the user picks a
	// station explicitly downstream.
	OutcomeUseExisting Outcome = "USE_EXISTING"
	// OutcomeCancel abandons the whole ingestion. No record is produced
	// and no partial writes happen.
	OutcomeCancel Outcome = "CANCEL"
)

// Ingestion is one receipt's trip through the pipeline. Each ingestion
// owns its draft exclusively; concurrent ingestions share nothing but the
// read-mostly category set behind storage.
type Ingestion struct {
	State    State
	Draft    model.ExtractionDraft
	Decision model.StationResolution

	// stationLine is the raw recognized line the brand rule fired on.
	// It becomes the creation candidate when the canonical brand name
	// matches no known category.
	stationLine string
}

// NeedsDecision reports whether the ingestion is suspended waiting for a
// station decision.
func (i *Ingestion) NeedsDecision() bool {
	return i.State == StateDeciding
}

// Canceled reports whether the ingestion was abandoned.
func (i *Ingestion) Canceled() bool {
	return i.State == StateCanceled
}
