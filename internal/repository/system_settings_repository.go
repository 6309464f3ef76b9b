package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SystemSetting represents a system configuration entry
type SystemSetting struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SystemSettingsRepository handles system settings database operations
type SystemSettingsRepository struct {
	db *pgxpool.Pool
}

// NewSystemSettingsRepository creates a new repository instance
func NewSystemSettingsRepository(db *pgxpool.Pool) *SystemSettingsRepository {
	return &SystemSettingsRepository{db: db}
}

// Get retrieves a setting value by key; returns "" when the key is absent
func (r *SystemSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `
		SELECT setting_value
		FROM system_settings
		WHERE setting_key = $1
	`, key).Scan(&value)

	if err != nil {
		// Absent keys are normal; callers fall back to defaults.
		return "", nil
	}

	return value, nil
}

// Set updates or creates a setting
func (r *SystemSettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value = EXCLUDED.setting_value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)

	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}

// GetAll retrieves every setting as a key/value map
func (r *SystemSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT setting_key, setting_value
		FROM system_settings
		ORDER BY setting_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	return settings, nil
}
