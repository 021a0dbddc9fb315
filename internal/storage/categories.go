package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voltpath/chargelog/internal/model"
)

// GetCategories returns all active station categories ordered by sort
// order. That ordering is the matcher's tie-break when several categories
// satisfy containment, so it must be stable.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.StationCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db)
}

func getCategories(ctx context.Context, q queryable) ([]model.StationCategory, error) {
	query := `
		SELECT id, name, color_hex, icon, sort_order, created_at, is_active
		FROM station_categories
		WHERE is_active = 1
		ORDER BY sort_order, id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query station categories: %w", err)
	}
	defer rows.Close()

	var categories []model.StationCategory
	for rows.Next() {
		var cat model.StationCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.ColorHex, &cat.Icon,
			&cat.SortOrder, &cat.CreatedAt, &cat.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan station category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating station categories: %w", err)
	}

	slog.Debug("retrieved station categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByName returns a station category by its name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.StationCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCategoryByName(ctx, s.db, name)
}

func getCategoryByName(ctx context.Context, q queryable, name string) (*model.StationCategory, error) {
	query := `
		SELECT id, name, color_hex, icon, sort_order, created_at, is_active
		FROM station_categories
		WHERE name = ? AND is_active = 1`

	var cat model.StationCategory
	err := q.QueryRowContext(ctx, query, name).Scan(
		&cat.ID, &cat.Name, &cat.ColorHex, &cat.Icon,
		&cat.SortOrder, &cat.CreatedAt, &cat.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query station category: %w", err)
	}

	return &cat, nil
}

// CreateCategory persists a new station category. A name that already
// exists but was deactivated is reactivated instead, keeping its sort
// position.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.StationCategory) (*model.StationCategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	return createCategory(ctx, s.db, category)
}

func createCategory(ctx context.Context, q queryable, category *model.StationCategory) (*model.StationCategory, error) {
	existingQuery := `
		SELECT id, name, color_hex, icon, sort_order, created_at, is_active
		FROM station_categories
		WHERE name = ?`

	var existing model.StationCategory
	err := q.QueryRowContext(ctx, existingQuery, category.Name).Scan(
		&existing.ID, &existing.Name, &existing.ColorHex, &existing.Icon,
		&existing.SortOrder, &existing.CreatedAt, &existing.IsActive,
	)

	if err == nil {
		if !existing.IsActive {
			updateQuery := `UPDATE station_categories SET is_active = 1 WHERE id = ?`
			if _, err := q.ExecContext(ctx, updateQuery, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to reactivate station category: %w", err)
			}
			existing.IsActive = true
			slog.Info("reactivated existing station category", "name", existing.Name)
		}
		return &existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing station category: %w", err)
	}

	insertQuery := `
		INSERT INTO station_categories (name, color_hex, icon, sort_order, created_at, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`

	createdAt := now()
	result, err := q.ExecContext(ctx, insertQuery,
		category.Name, category.ColorHex, category.Icon, category.SortOrder, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create station category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get station category ID: %w", err)
	}

	created := *category
	created.ID = int(id)
	created.CreatedAt = createdAt
	created.IsActive = true

	slog.Info("created station category",
		"name", created.Name,
		"id", created.ID,
		"sort_order", created.SortOrder)
	return &created, nil
}

// UpdateCategory changes a category's display metadata. The pipeline
// itself never mutates a matched category; this exists for settings-style
// edits.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int, name, colorHex, icon string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	return updateCategory(ctx, s.db, id, name, colorHex, icon)
}

func updateCategory(ctx context.Context, q queryable, id int, name, colorHex, icon string) error {
	query := `
		UPDATE station_categories
		SET name = ?, color_hex = ?, icon = ?
		WHERE id = ? AND is_active = 1`

	result, err := q.ExecContext(ctx, query, name, colorHex, icon, id)
	if err != nil {
		return fmt.Errorf("failed to update station category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("station category %d not found", id)
	}
	return nil
}
