package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

// BackupVersion identifies the backup document layout. Bump when the
// shape of BackupDocument changes incompatibly.
const BackupVersion = 1

// BackupDocument is the full JSON snapshot of a chargelog database.
type BackupDocument struct {
	CreatedAt  time.Time               `json:"created_at"`
	Version    int                     `json:"version"`
	Categories []model.StationCategory `json:"categories"`
	Records    []model.ChargeRecord    `json:"records"`
}

// WriteBackup snapshots all categories and records from storage into a
// JSON document on w.
func WriteBackup(ctx context.Context, storage service.Storage, w io.Writer) error {
	categories, err := storage.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	records, err := storage.GetRecords(ctx, service.RecordFilter{})
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	doc := BackupDocument{
		Version:    BackupVersion,
		CreatedAt:  time.Now(),
		Categories: categories,
		Records:    records,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// RestoreResult reports what a restore run applied.
type RestoreResult struct {
	Categories int
	Records    int
}

// RestoreBackup reads a backup document from r and writes its contents
// into storage inside a single transaction. Existing categories with
// the same name are left in place; records upsert by ID.
func RestoreBackup(ctx context.Context, storage service.Storage, r io.Reader) (*RestoreResult, error) {
	var doc BackupDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if doc.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %d", doc.Version)
	}

	tx, err := storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := &RestoreResult{}

	for i := range doc.Categories {
		cat := doc.Categories[i]
		existing, err := tx.GetCategoryByName(ctx, cat.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check category %q: %w", cat.Name, err)
		}
		if existing != nil {
			continue
		}
		if _, err := tx.CreateCategory(ctx, &cat); err != nil {
			return nil, fmt.Errorf("failed to restore category %q: %w", cat.Name, err)
		}
		result.Categories++
	}

	for i := range doc.Records {
		rec := doc.Records[i]
		if rec.ID == "" {
			rec.ID = rec.GenerateHash()
		}
		if err := tx.SaveRecord(ctx, &rec); err != nil {
			return nil, fmt.Errorf("failed to restore record %s: %w", rec.ID, err)
		}
		result.Records++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit restore: %w", err)
	}
	return result, nil
}
