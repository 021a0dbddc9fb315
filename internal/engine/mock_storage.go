package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

// MockStorage is an in-memory Storage implementation for engine tests.
type MockStorage struct {
	createErr  error
	getErr     error
	categories []model.StationCategory
	records    []model.ChargeRecord
	nextID     int
	mu         sync.Mutex
}

// NewMockStorage creates a mock storage seeded with categories.
func NewMockStorage(categories ...model.StationCategory) *MockStorage {
	return &MockStorage{categories: categories, nextID: len(categories) + 1}
}

// FailCreateWith makes CreateCategory return err.
func (m *MockStorage) FailCreateWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// GetCategories returns the seeded categories in insertion order, which
// tests arrange to be sort order.
func (m *MockStorage) GetCategories(_ context.Context) ([]model.StationCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]model.StationCategory, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

// GetCategoryByName implements Storage.
func (m *MockStorage) GetCategoryByName(_ context.Context, name string) (*model.StationCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == name {
			cat := c
			return &cat, nil
		}
	}
	return nil, nil
}

// CreateCategory implements Storage.
func (m *MockStorage) CreateCategory(_ context.Context, category *model.StationCategory) (*model.StationCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *category
	created.ID = m.nextID
	m.nextID++
	m.categories = append(m.categories, created)
	return &created, nil
}

// UpdateCategory implements Storage.
func (m *MockStorage) UpdateCategory(_ context.Context, id int, name, colorHex, icon string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories[i].Name = name
			m.categories[i].ColorHex = colorHex
			m.categories[i].Icon = icon
			return nil
		}
	}
	return common.ErrNotFound
}

// SaveRecord implements Storage.
func (m *MockStorage) SaveRecord(_ context.Context, record *model.ChargeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

// GetRecordByID implements Storage.
func (m *MockStorage) GetRecordByID(_ context.Context, id string) (*model.ChargeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, common.ErrNotFound
}

// GetRecords implements Storage.
func (m *MockStorage) GetRecords(_ context.Context, _ service.RecordFilter) ([]model.ChargeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ChargeRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// DeleteRecord implements Storage.
func (m *MockStorage) DeleteRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// Migrate implements Storage.
func (m *MockStorage) Migrate(_ context.Context) error { return nil }

// BeginTx implements Storage.
func (m *MockStorage) BeginTx(_ context.Context) (service.Transaction, error) {
	return nil, errors.New("transactions not supported in mock")
}

// Close implements Storage.
func (m *MockStorage) Close() error { return nil }
