// Package storage provides the data persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/voltpath/chargelog/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidCategory = errors.New("invalid station category")
	ErrInvalidRecord   = errors.New("invalid charge record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategory validates a station category before persistence.
func validateCategory(category *model.StationCategory) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	if category.SortOrder < 0 {
		return fmt.Errorf("%w: negative sort order", ErrInvalidCategory)
	}
	return nil
}

// validateRecord validates a charge record before persistence. Monetary
// and energy quantities must be non-negative finite decimals.
func validateRecord(record *model.ChargeRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if record.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}
	amounts := map[string]float64{
		"electricity_fee":    record.ElectricityFee,
		"service_fee":        record.ServiceFee,
		"total":              record.Total,
		"energy_kwh":         record.EnergyKWh,
		"discount":           record.Discount,
		"points":             record.Points,
		"extreme_energy_kwh": record.ExtremeEnergyKWh,
	}
	for name, v := range amounts {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative finite number", ErrInvalidRecord, name)
		}
	}
	return nil
}
