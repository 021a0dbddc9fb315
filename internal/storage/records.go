package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/voltpath/chargelog/internal/common"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

// SaveRecord persists a confirmed charge record. The caller assigns the
// ID; an existing ID is overwritten (user re-confirmed an edit).
func (s *SQLiteStorage) SaveRecord(ctx context.Context, record *model.ChargeRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}
	return saveRecord(ctx, s.db, record)
}

func saveRecord(ctx context.Context, q queryable, record *model.ChargeRecord) error {
	query := `
		INSERT INTO charge_records (
			id, date, station_name, electricity_fee, service_fee, total,
			energy_kwh, discount, points, extreme_energy_kwh,
			charging_time, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			station_name = excluded.station_name,
			electricity_fee = excluded.electricity_fee,
			service_fee = excluded.service_fee,
			total = excluded.total,
			energy_kwh = excluded.energy_kwh,
			discount = excluded.discount,
			points = excluded.points,
			extreme_energy_kwh = excluded.extreme_energy_kwh,
			charging_time = excluded.charging_time,
			notes = excluded.notes`

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}

	_, err := q.ExecContext(ctx, query,
		record.ID, record.Date, record.StationName,
		record.ElectricityFee, record.ServiceFee, record.Total,
		record.EnergyKWh, record.Discount, record.Points, record.ExtremeEnergyKWh,
		record.ChargingTime, record.Notes, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save charge record: %w", err)
	}
	return nil
}

// GetRecordByID returns a charge record by ID.
func (s *SQLiteStorage) GetRecordByID(ctx context.Context, id string) (*model.ChargeRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getRecordByID(ctx, s.db, id)
}

func getRecordByID(ctx context.Context, q queryable, id string) (*model.ChargeRecord, error) {
	query := recordSelect + ` WHERE id = ?`

	var rec model.ChargeRecord
	err := q.QueryRowContext(ctx, query, id).Scan(recordScanDest(&rec)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("charge record %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query charge record: %w", err)
	}
	return &rec, nil
}

// GetRecords returns charge records matching the filter, newest first.
func (s *SQLiteStorage) GetRecords(ctx context.Context, filter service.RecordFilter) ([]model.ChargeRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getRecords(ctx, s.db, filter)
}

func getRecords(ctx context.Context, q queryable, filter service.RecordFilter) ([]model.ChargeRecord, error) {
	var conditions []string
	var args []any

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Station != "" {
		conditions = append(conditions, "station_name = ?")
		args = append(args, filter.Station)
	}

	query := recordSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query charge records: %w", err)
	}
	defer rows.Close()

	var records []model.ChargeRecord
	for rows.Next() {
		var rec model.ChargeRecord
		if err := rows.Scan(recordScanDest(&rec)...); err != nil {
			return nil, fmt.Errorf("failed to scan charge record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating charge records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes a charge record.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteRecord(ctx, s.db, id)
}

func deleteRecord(ctx context.Context, q queryable, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM charge_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete charge record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("charge record %s: %w", id, common.ErrNotFound)
	}
	return nil
}

const recordSelect = `
	SELECT id, date, station_name, electricity_fee, service_fee, total,
		energy_kwh, discount, points, extreme_energy_kwh,
		charging_time, notes, created_at
	FROM charge_records`

func recordScanDest(rec *model.ChargeRecord) []any {
	return []any{
		&rec.ID, &rec.Date, &rec.StationName,
		&rec.ElectricityFee, &rec.ServiceFee, &rec.Total,
		&rec.EnergyKWh, &rec.Discount, &rec.Points, &rec.ExtremeEnergyKWh,
		&rec.ChargingTime, &rec.Notes, &rec.CreatedAt,
	}
}
