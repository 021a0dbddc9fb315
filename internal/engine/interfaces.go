package engine

import (
	"context"

	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

// Prompter defines the contract for user interaction when an unmatched
// station name suspends an ingestion. Implementations may block for an
// arbitrarily long time waiting on the user.
type Prompter interface {
	ResolveStation(ctx context.Context, pending model.PendingResolution) (Outcome, error)
	GetCompletionStats() service.CompletionStats
}
