package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/models"
)

// SettingStore persists key/value settings.
type SettingStore struct {
	db *sql.DB
}

func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

func (s *SettingStore) All(ctx context.Context) ([]models.Setting, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT setting_key, setting_value, updated_at FROM settings ORDER BY setting_key")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	list := []models.Setting{}
	for rows.Next() {
		var st models.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// Get returns the value for key and whether it exists.
func (s *SettingStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting: %w", err)
	}
	return value, true, nil
}

// Upsert writes every pair in one transaction.
func (s *SettingStore) Upsert(ctx context.Context, values map[string]string) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO settings (setting_key, setting_value) VALUES (?, ?)
				ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`, k, v); err != nil {
				return fmt.Errorf("upsert setting %s: %w", k, err)
			}
		}
		return nil
	})
}

// MaintenanceMode reports whether the maintenance_mode setting is "true".
func (s *SettingStore) MaintenanceMode(ctx context.Context) (bool, error) {
	v, ok, err := s.Get(ctx, models.SettingMaintenanceMode)
	if err != nil || !ok {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(v), "true"), nil
}
