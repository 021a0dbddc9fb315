package export

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
	"github.com/voltpath/chargelog/internal/storage"
)

func setupBackupStorage(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func seedBackupData(t *testing.T, store service.Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := store.CreateCategory(ctx, &model.StationCategory{
		Name: "特斯拉充电站", ColorHex: "#FF9500", Icon: "bolt.car.fill", SortOrder: 1, IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, store.SaveRecord(ctx, &model.ChargeRecord{
		ID:          "rec-1",
		Date:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		StationName: "特斯拉充电站",
		Total:       57.90,
		EnergyKWh:   32.5,
	}))
}

func TestWriteBackup(t *testing.T) {
	store := setupBackupStorage(t)
	seedBackupData(t, store)

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(context.Background(), store, &buf))

	var doc BackupDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, BackupVersion, doc.Version)
	assert.False(t, doc.CreatedAt.IsZero())
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "特斯拉充电站", doc.Categories[0].Name)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "rec-1", doc.Records[0].ID)
	assert.InDelta(t, 57.90, doc.Records[0].Total, 1e-9)
}

func TestRestoreBackup_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := setupBackupStorage(t)
	seedBackupData(t, source)

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(ctx, source, &buf))

	target := setupBackupStorage(t)
	result, err := RestoreBackup(ctx, target, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Records)

	categories, err := target.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "特斯拉充电站", categories[0].Name)

	rec, err := target.GetRecordByID(ctx, "rec-1")
	require.NoError(t, err)
	assert.InDelta(t, 57.90, rec.Total, 1e-9)
}

func TestRestoreBackup_ExistingCategoryKept(t *testing.T) {
	ctx := context.Background()
	source := setupBackupStorage(t)
	seedBackupData(t, source)

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(ctx, source, &buf))

	target := setupBackupStorage(t)
	existing, err := target.CreateCategory(ctx, &model.StationCategory{
		Name: "特斯拉充电站", ColorHex: "#000000", Icon: "bolt", SortOrder: 5, IsActive: true,
	})
	require.NoError(t, err)

	result, err := RestoreBackup(ctx, target, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Categories)

	categories, err := target.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	// The pre-existing category wins over the backup's copy.
	assert.Equal(t, existing.ColorHex, categories[0].ColorHex)
}

func TestRestoreBackup_BadInput(t *testing.T) {
	ctx := context.Background()
	target := setupBackupStorage(t)

	t.Run("not json", func(t *testing.T) {
		_, err := RestoreBackup(ctx, target, bytes.NewReader([]byte("not json")))
		assert.Error(t, err)
	})

	t.Run("unsupported version", func(t *testing.T) {
		doc, err := json.Marshal(BackupDocument{Version: 99})
		require.NoError(t, err)
		_, restoreErr := RestoreBackup(ctx, target, bytes.NewReader(doc))
		assert.ErrorContains(t, restoreErr, "unsupported backup version")
	})
}

func TestRestoreBackup_GeneratesMissingIDs(t *testing.T) {
	ctx := context.Background()
	target := setupBackupStorage(t)

	doc := BackupDocument{
		Version:   BackupVersion,
		CreatedAt: time.Now(),
		Records: []model.ChargeRecord{
			{
				Date:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
				StationName: "特斯拉充电站",
				Total:       57.90,
				EnergyKWh:   32.5,
			},
		},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	result, err := RestoreBackup(ctx, target, bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Records)

	records, err := target.GetRecords(ctx, service.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].ID, 64)
}
