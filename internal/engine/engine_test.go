package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/model"
)

func teslaCategory() model.StationCategory {
	return model.StationCategory{
		ID:        1,
		Name:      "特斯拉充电站",
		ColorHex:  "#FF9500",
		Icon:      "bolt.car.fill",
		SortOrder: 1,
		IsActive:  true,
	}
}

var receiptWithStation = []string{
	"特斯拉超级充电站",
	"充电量 32.5 kWh",
	"电费 ¥45.60",
	"服务费 ¥12.30",
	"总金额 ¥57.90",
}

func TestIngest_KnownStationResolvesImmediately(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage(teslaCategory())
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)

	assert.Equal(t, StateResolved, ing.State)
	assert.False(t, ing.NeedsDecision())
	assert.Equal(t, model.StationMatched, ing.Decision.Status)
	require.NotNil(t, ing.Draft.StationName)
	assert.Equal(t, "特斯拉充电站", *ing.Draft.StationName)
	require.NotNil(t, ing.Draft.Total)
	assert.InDelta(t, 57.90, *ing.Draft.Total, 1e-9)
}

func TestIngest_NoStationResolvesWithEmptyName(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage(teslaCategory())
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, []string{"电费 45.60", "总金额 57.90"})
	require.NoError(t, err)

	assert.Equal(t, StateResolved, ing.State)
	assert.Equal(t, model.NoStationDetected, ing.Decision.Status)
	assert.Nil(t, ing.Draft.StationName)
	require.NotNil(t, ing.Draft.ElectricityFee)
	assert.InDelta(t, 45.60, *ing.Draft.ElectricityFee, 1e-9)
}

func TestIngest_UnmatchedStationSuspends(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage() // empty database
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)

	assert.Equal(t, StateDeciding, ing.State)
	assert.True(t, ing.NeedsDecision())
	assert.Equal(t, model.StationUnmatched, ing.Decision.Status)
	// The decision shows the raw recognized line, not the canonical name.
	assert.Equal(t, "特斯拉超级充电站", ing.Decision.Candidate)
	// The draft keeps everything extracted so far.
	require.NotNil(t, ing.Draft.Total)
	assert.InDelta(t, 57.90, *ing.Draft.Total, 1e-9)
}

func TestIngest_EmptyLines(t *testing.T) {
	ctx := context.Background()
	eng := New(NewMockStorage(), nil)

	ing, err := eng.Ingest(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, StateResolved, ing.State)
	assert.Equal(t, model.NoStationDetected, ing.Decision.Status)
	assert.Nil(t, ing.Draft.Total)
}

func TestIngest_StorageFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	store.getErr = errors.New("disk on fire")
	eng := New(store, nil)

	_, err := eng.Ingest(ctx, receiptWithStation)
	assert.Error(t, err)
}

func TestResolveStation_Create(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)
	require.True(t, ing.NeedsDecision())

	require.NoError(t, eng.ResolveStation(ctx, ing, OutcomeCreate))

	assert.Equal(t, StateResolved, ing.State)
	require.NotNil(t, ing.Draft.StationName)
	assert.Equal(t, "特斯拉超级充电站", *ing.Draft.StationName)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	created := categories[0]
	assert.Equal(t, "特斯拉超级充电站", created.Name)
	// Brand style applies because the raw line carries a Tesla alias.
	assert.Equal(t, "#FF9500", created.ColorHex)
	assert.Equal(t, "bolt.car.fill", created.Icon)
	assert.True(t, created.IsActive)
	// First category in a fresh database gets sort order 1.
	assert.Equal(t, 1, created.SortOrder)
}

func TestResolveStation_CreateAppendsToSortOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage(
		model.StationCategory{ID: 1, Name: "小鹏充电站", SortOrder: 3, IsActive: true},
		model.StationCategory{ID: 2, Name: "蔚来充电站", SortOrder: 7, IsActive: true},
	)
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, []string{"特斯拉超级充电站"})
	require.NoError(t, err)
	require.True(t, ing.NeedsDecision())

	require.NoError(t, eng.ResolveStation(ctx, ing, OutcomeCreate))

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, 8, categories[2].SortOrder)
}

func TestIngest_NonBrandStationLineDoesNotSuspend(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, []string{"壳牌充电站", "总金额 30.00"})
	require.NoError(t, err)
	// 壳牌 is no known brand so no station rule fired; there is no
	// candidate and nothing suspends.
	assert.Equal(t, StateResolved, ing.State)
	assert.Equal(t, model.NoStationDetected, ing.Decision.Status)
}

func TestResolveStation_UseExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)

	require.NoError(t, eng.ResolveStation(ctx, ing, OutcomeUseExisting))

	assert.Equal(t, StateResolved, ing.State)
	assert.Nil(t, ing.Draft.StationName)
	// Everything else survives for the record form.
	require.NotNil(t, ing.Draft.Total)
	assert.InDelta(t, 57.90, *ing.Draft.Total, 1e-9)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestResolveStation_Cancel(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)

	require.NoError(t, eng.ResolveStation(ctx, ing, OutcomeCancel))

	assert.Equal(t, StateCanceled, ing.State)
	assert.True(t, ing.Canceled())
	assert.Equal(t, model.ExtractionDraft{}, ing.Draft)
}

func TestResolveStation_PersistFailureDegrades(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	eng := New(store, nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)

	store.FailCreateWith(errors.New("database is locked"))
	err = eng.ResolveStation(ctx, ing, OutcomeCreate)

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStationPersist)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)

	// Resolution degrades: station cleared, numeric data kept.
	assert.Equal(t, StateResolved, ing.State)
	assert.Nil(t, ing.Draft.StationName)
	require.NotNil(t, ing.Draft.Total)
	assert.InDelta(t, 57.90, *ing.Draft.Total, 1e-9)
}

func TestResolveStation_NotPending(t *testing.T) {
	ctx := context.Background()
	eng := New(NewMockStorage(teslaCategory()), nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)
	require.Equal(t, StateResolved, ing.State)

	err = eng.ResolveStation(ctx, ing, OutcomeCreate)
	assert.ErrorIs(t, err, common.ErrDecisionNotPending)

	err = eng.ResolveStation(ctx, nil, OutcomeCreate)
	assert.ErrorIs(t, err, common.ErrDecisionNotPending)
}

func TestResolveStation_UnknownOutcome(t *testing.T) {
	ctx := context.Background()
	eng := New(NewMockStorage(), nil)

	ing, err := eng.Ingest(ctx, receiptWithStation)
	require.NoError(t, err)

	err = eng.ResolveStation(ctx, ing, Outcome("SHRUG"))
	assert.Error(t, err)
	// Still pending after a bad outcome.
	assert.Equal(t, StateDeciding, ing.State)
}

func TestIngestInteractive_PromptsOnUnmatched(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	prompter := NewMockPrompter(OutcomeCreate)
	eng := New(store, prompter)

	ing, err := eng.IngestInteractive(ctx, receiptWithStation)
	require.NoError(t, err)

	assert.Equal(t, StateResolved, ing.State)
	calls := prompter.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "特斯拉超级充电站", calls[0].Candidate)
	require.NotNil(t, calls[0].Draft.Total)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
}

func TestIngestInteractive_SkipsPromptWhenMatched(t *testing.T) {
	ctx := context.Background()
	prompter := NewMockPrompter(OutcomeCancel)
	eng := New(NewMockStorage(teslaCategory()), prompter)

	ing, err := eng.IngestInteractive(ctx, receiptWithStation)
	require.NoError(t, err)

	assert.Equal(t, StateResolved, ing.State)
	assert.Empty(t, prompter.Calls())
}

func TestIngestInteractive_PersistFailureReturnsIngestion(t *testing.T) {
	ctx := context.Background()
	store := NewMockStorage()
	store.FailCreateWith(errors.New("database is locked"))
	prompter := NewMockPrompter(OutcomeCreate)
	eng := New(store, prompter)

	ing, err := eng.IngestInteractive(ctx, receiptWithStation)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStationPersist)
	// The resolved ingestion still comes back so the draft is not lost.
	require.NotNil(t, ing)
	assert.Equal(t, StateResolved, ing.State)
	assert.Nil(t, ing.Draft.StationName)
}

func TestIngestInteractive_PrompterFailure(t *testing.T) {
	ctx := context.Background()
	prompter := NewMockPrompter(OutcomeCreate)
	prompter.FailWith(errors.New("stdin closed"))
	eng := New(NewMockStorage(), prompter)

	_, err := eng.IngestInteractive(ctx, receiptWithStation)
	assert.Error(t, err)
}
