package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltpath/chargelog/internal/engine"
	"github.com/voltpath/chargelog/internal/model"
)

func pendingTesla() model.PendingResolution {
	return model.PendingResolution{
		Candidate: "特斯拉超级充电站",
		Draft: model.ExtractionDraft{
			ElectricityFee: model.Float64Ptr(45.60),
			ServiceFee:     model.Float64Ptr(12.30),
			Total:          model.Float64Ptr(57.90),
			EnergyKWh:      model.Float64Ptr(32.5),
			StationName:    model.StringPtr("特斯拉充电站"),
		},
		AllCategories: []model.StationCategory{
			{ID: 1, Name: "小鹏充电站", SortOrder: 1, IsActive: true},
		},
	}
}

func TestPrompter_ResolveStation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  engine.Outcome
	}{
		{"create", "c\n", engine.OutcomeCreate},
		{"create uppercase", "C\n", engine.OutcomeCreate},
		{"use existing", "e\n", engine.OutcomeUseExisting},
		{"cancel", "x\n", engine.OutcomeCancel},
		{"invalid then valid", "q\nc\n", engine.OutcomeCreate},
		{"whitespace tolerated", "  e  \n", engine.OutcomeUseExisting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewCLIPrompter(strings.NewReader(tt.input), &out)

			outcome, err := p.ResolveStation(context.Background(), pendingTesla())
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
		})
	}
}

func TestPrompter_ResolveStationOutput(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("c\n"), &out)

	_, err := p.ResolveStation(context.Background(), pendingTesla())
	require.NoError(t, err)

	rendered := out.String()
	assert.Contains(t, rendered, "Unknown Charging Station")
	assert.Contains(t, rendered, "特斯拉超级充电站")
	assert.Contains(t, rendered, "¥57.90")
	assert.Contains(t, rendered, "32.5 kWh")
	assert.Contains(t, rendered, "小鹏充电站")
	assert.Contains(t, rendered, "[C]")
	assert.Contains(t, rendered, "[E]")
	assert.Contains(t, rendered, "[X]")
}

func TestPrompter_ResolveStationMissingFields(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("x\n"), &out)

	pending := pendingTesla()
	pending.Draft.ServiceFee = nil
	_, err := p.ResolveStation(context.Background(), pending)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "(not found)")
}

func TestPrompter_ResolveStationCanceledContext(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("c\n"), &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ResolveStation(ctx, pendingTesla())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompter_ResolveStationEOF(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out)

	_, err := p.ResolveStation(context.Background(), pendingTesla())
	assert.Error(t, err)
}

func TestPrompter_Stats(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader("c\nx\n"), &out)

	p.RecordAutoResolved()
	p.RecordAutoResolved()

	_, err := p.ResolveStation(context.Background(), pendingTesla())
	require.NoError(t, err)
	_, err = p.ResolveStation(context.Background(), pendingTesla())
	require.NoError(t, err)

	stats := p.GetCompletionStats()
	assert.Equal(t, 2, stats.AutoResolved)
	assert.Equal(t, 1, stats.UserResolved)
	assert.Equal(t, 1, stats.StationsCreated)
	assert.Equal(t, 1, stats.Canceled)
	assert.Positive(t, stats.Duration)
}

func TestPrompter_ShowCompletion(t *testing.T) {
	var out bytes.Buffer
	p := NewCLIPrompter(strings.NewReader(""), &out)
	p.SetTotalReceipts(3)
	p.RecordAutoResolved()

	p.ShowCompletion()

	rendered := out.String()
	assert.Contains(t, rendered, "Ingestion Complete")
	assert.Contains(t, rendered, "Receipts processed: 3")
	assert.Contains(t, rendered, "Auto-resolved: 1")
}
