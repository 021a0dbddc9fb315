package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// queryable abstracts *sql.DB and *sql.Tx so query helpers can run either
// directly or inside a transaction.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteStorage implements the Storage interface using SQLite.
//
// The category set is shared-read / single-writer: any writer (station
// creation during ingestion, settings edits) is serialized through this
// store's transaction discipline.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{tx: tx, storage: s}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) GetCategories(ctx context.Context) ([]model.StationCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, t.tx)
}

func (t *sqliteTransaction) GetCategoryByName(ctx context.Context, name string) (*model.StationCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCategoryByName(ctx, t.tx, name)
}

func (t *sqliteTransaction) CreateCategory(ctx context.Context, category *model.StationCategory) (*model.StationCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	return createCategory(ctx, t.tx, category)
}

func (t *sqliteTransaction) UpdateCategory(ctx context.Context, id int, name, colorHex, icon string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return updateCategory(ctx, t.tx, id, name, colorHex, icon)
}

func (t *sqliteTransaction) SaveRecord(ctx context.Context, record *model.ChargeRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}
	return saveRecord(ctx, t.tx, record)
}

func (t *sqliteTransaction) GetRecordByID(ctx context.Context, id string) (*model.ChargeRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getRecordByID(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetRecords(ctx context.Context, filter service.RecordFilter) ([]model.ChargeRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getRecords(ctx, t.tx, filter)
}

func (t *sqliteTransaction) DeleteRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteRecord(ctx, t.tx, id)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

// now is split out so tests can pin creation timestamps.
var now = time.Now
