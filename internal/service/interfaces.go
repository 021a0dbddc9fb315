// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/voltpath/chargelog/internal/model"
)

// RecordFilter defines filtering options for charge record queries.
type RecordFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Station   string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Station category operations. GetCategories returns the active set
	// ordered by sort order; that ordering is the matcher's tie-break.
	GetCategories(ctx context.Context) ([]model.StationCategory, error)
	GetCategoryByName(ctx context.Context, name string) (*model.StationCategory, error)
	CreateCategory(ctx context.Context, category *model.StationCategory) (*model.StationCategory, error)
	UpdateCategory(ctx context.Context, id int, name, colorHex, icon string) error

	// Charge record operations
	SaveRecord(ctx context.Context, record *model.ChargeRecord) error
	GetRecordByID(ctx context.Context, id string) (*model.ChargeRecord, error)
	GetRecords(ctx context.Context, filter RecordFilter) ([]model.ChargeRecord, error)
	DeleteRecord(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// CompletionStats shows the results of an ingestion run.
type CompletionStats struct {
	TotalReceipts   int
	AutoResolved    int
	UserResolved    int
	Canceled        int
	StationsCreated int
	Duration        time.Duration
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
