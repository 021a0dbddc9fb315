package engine

import (
	"context"
	"sync"
	"time"

	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

// MockPrompter is a test implementation of the Prompter interface that
// answers every station decision with a fixed outcome.
type MockPrompter struct {
	startTime time.Time
	err       error
	calls     []model.PendingResolution
	outcome   Outcome
	mu        sync.Mutex
}

// NewMockPrompter creates a mock prompter answering with outcome.
func NewMockPrompter(outcome Outcome) *MockPrompter {
	return &MockPrompter{
		outcome:   outcome,
		startTime: time.Now(),
	}
}

// FailWith makes every subsequent prompt return err.
func (m *MockPrompter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// ResolveStation records the pending decision and returns the configured
// outcome.
func (m *MockPrompter) ResolveStation(_ context.Context, pending model.PendingResolution) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, pending)
	if m.err != nil {
		return "", m.err
	}
	return m.outcome, nil
}

// Calls returns every pending decision the prompter saw.
func (m *MockPrompter) Calls() []model.PendingResolution {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PendingResolution, len(m.calls))
	copy(out, m.calls)
	return out
}

// GetCompletionStats implements Prompter.
func (m *MockPrompter) GetCompletionStats() service.CompletionStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return service.CompletionStats{
		TotalReceipts: len(m.calls),
		Duration:      time.Since(m.startTime),
	}
}
