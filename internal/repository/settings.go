package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"
)

// GetSettings returns every stored settings key with its value.
func (r *Repository) GetSettings(ctx context.Context) (map[string]string, error) {
	defer r.observe("get_settings", time.Now())

	rows, err := r.db.Query(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err = rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		values[key] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over settings: %w", err)
	}

	return values, nil
}

// SaveSettings upserts every key/value pair in one statement, so either all
// of them are stored or none is.
func (r *Repository) SaveSettings(ctx context.Context, values map[string]string) error {
	defer r.observe("save_settings", time.Now())

	if len(values) == 0 {
		return nil
	}

	keys := slices.Sorted(maps.Keys(values))
	vals := make([]string, 0, len(keys))
	for _, key := range keys {
		vals = append(vals, values[key])
	}

	query := `
		INSERT INTO settings (key, value)
		SELECT * FROM unnest($1::text[], $2::text[])
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP;`

	if _, err := r.db.Exec(ctx, query, keys, vals); err != nil {
		return fmt.Errorf("failed to save settings %v: %w", keys, err)
	}

	return nil
}
