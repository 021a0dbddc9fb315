package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testCategory(name string, sortOrder int) *model.StationCategory {
	return &model.StationCategory{
		Name:      name,
		ColorHex:  "#FF9500",
		Icon:      "bolt.car.fill",
		SortOrder: sortOrder,
		IsActive:  true,
	}
}

func testRecord(id string, date time.Time) *model.ChargeRecord {
	return &model.ChargeRecord{
		ID:             id,
		Date:           date,
		StationName:    "特斯拉充电站",
		ElectricityFee: 45.60,
		ServiceFee:     12.30,
		Total:          57.90,
		EnergyKWh:      32.5,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := setupTestStorage(t)
	// Running migrations again on a current database is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestCategories_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	created, err := store.CreateCategory(ctx, testCategory("特斯拉充电站", 1))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "特斯拉充电站", categories[0].Name)
	assert.Equal(t, "#FF9500", categories[0].ColorHex)
	assert.Equal(t, "bolt.car.fill", categories[0].Icon)
}

func TestCategories_OrderedBySortOrder(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	_, err := store.CreateCategory(ctx, testCategory("国家电网充电站", 3))
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, testCategory("特斯拉充电站", 1))
	require.NoError(t, err)
	_, err = store.CreateCategory(ctx, testCategory("小鹏充电站", 2))
	require.NoError(t, err)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "特斯拉充电站", categories[0].Name)
	assert.Equal(t, "小鹏充电站", categories[1].Name)
	assert.Equal(t, "国家电网充电站", categories[2].Name)
}

func TestCategories_GetByName(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	_, err := store.CreateCategory(ctx, testCategory("特斯拉充电站", 1))
	require.NoError(t, err)

	found, err := store.GetCategoryByName(ctx, "特斯拉充电站")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "特斯拉充电站", found.Name)

	missing, err := store.GetCategoryByName(ctx, "壳牌充电站")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategories_CreateExistingReturnsIt(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	first, err := store.CreateCategory(ctx, testCategory("特斯拉充电站", 1))
	require.NoError(t, err)

	second, err := store.CreateCategory(ctx, testCategory("特斯拉充电站", 9))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	// The existing sort position wins.
	assert.Equal(t, first.SortOrder, second.SortOrder)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCategories_Update(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	created, err := store.CreateCategory(ctx, testCategory("特斯拉充电站", 1))
	require.NoError(t, err)

	require.NoError(t, store.UpdateCategory(ctx, created.ID, "特斯拉超充", "#FFFFFF", "bolt"))

	found, err := store.GetCategoryByName(ctx, "特斯拉超充")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "#FFFFFF", found.ColorHex)
	assert.Equal(t, "bolt", found.Icon)

	err = store.UpdateCategory(ctx, 9999, "nope", "#000000", "x")
	assert.Error(t, err)
}

func TestCategories_Validation(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	_, err := store.CreateCategory(ctx, nil)
	assert.Error(t, err)

	_, err = store.CreateCategory(ctx, &model.StationCategory{Name: ""})
	assert.Error(t, err)

	_, err = store.GetCategoryByName(ctx, "")
	assert.Error(t, err)
}

func TestRecords_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	rec := testRecord("rec-1", date)
	rec.Discount = 0.855
	rec.ChargingTime = "45分钟"
	require.NoError(t, store.SaveRecord(ctx, rec))

	got, err := store.GetRecordByID(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "特斯拉充电站", got.StationName)
	assert.InDelta(t, 57.90, got.Total, 1e-9)
	assert.InDelta(t, 32.5, got.EnergyKWh, 1e-9)
	assert.InDelta(t, 0.855, got.Discount, 1e-9)
	assert.Equal(t, "45分钟", got.ChargingTime)
	assert.True(t, got.Date.Equal(date))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecords_SaveOverwritesSameID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRecord(ctx, testRecord("rec-1", date)))

	updated := testRecord("rec-1", date)
	updated.Total = 60.00
	require.NoError(t, store.SaveRecord(ctx, updated))

	got, err := store.GetRecordByID(ctx, "rec-1")
	require.NoError(t, err)
	assert.InDelta(t, 60.00, got.Total, 1e-9)

	records, err := store.GetRecords(ctx, service.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRecords_GetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	_, err := store.GetRecordByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecords_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	may := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	aug := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveRecord(ctx, testRecord("rec-jan", jan)))
	require.NoError(t, store.SaveRecord(ctx, testRecord("rec-aug", aug)))
	other := testRecord("rec-may", may)
	other.StationName = "小鹏充电站"
	require.NoError(t, store.SaveRecord(ctx, other))

	t.Run("newest first", func(t *testing.T) {
		records, err := store.GetRecords(ctx, service.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "rec-aug", records[0].ID)
		assert.Equal(t, "rec-may", records[1].ID)
		assert.Equal(t, "rec-jan", records[2].ID)
	})

	t.Run("date range", func(t *testing.T) {
		start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
		records, err := store.GetRecords(ctx, service.RecordFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "rec-may", records[0].ID)
	})

	t.Run("station filter", func(t *testing.T) {
		records, err := store.GetRecords(ctx, service.RecordFilter{Station: "小鹏充电站"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "rec-may", records[0].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		records, err := store.GetRecords(ctx, service.RecordFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "rec-may", records[0].ID)
	})
}

func TestRecords_Delete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveRecord(ctx, testRecord("rec-1", date)))

	require.NoError(t, store.DeleteRecord(ctx, "rec-1"))

	_, err := store.GetRecordByID(ctx, "rec-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteRecord(ctx, "rec-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecords_Validation(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	err := store.SaveRecord(ctx, nil)
	assert.Error(t, err)

	bad := testRecord("rec-neg", time.Now())
	bad.Total = -1
	err = store.SaveRecord(ctx, bad)
	assert.Error(t, err)
}

func TestTransaction_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	t.Run("commit persists", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.CreateCategory(ctx, testCategory("特斯拉充电站", 1))
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		found, err := store.GetCategoryByName(ctx, "特斯拉充电站")
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("rollback discards", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.CreateCategory(ctx, testCategory("小鹏充电站", 2))
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		found, err := store.GetCategoryByName(ctx, "小鹏充电站")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestValidateContext(t *testing.T) {
	store := setupTestStorage(t)

	//nolint:staticcheck // passing nil context on purpose
	_, err := store.GetCategories(nil)
	assert.Error(t, err)
}
