package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
)

type SettingRepository struct{}

func (r *SettingRepository) List(ctx context.Context, q database.Querier) ([]model.Setting, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	defer rows.Close()

	settings := []model.Setting{}
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *SettingRepository) Get(ctx context.Context, q database.Querier, key string) (model.Setting, error) {
	var s model.Setting
	err := q.QueryRowContext(ctx, `SELECT key, value, updated_at FROM settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, checkFound(err, "setting")
}

// Upsert creates the setting or replaces its value.
func (r *SettingRepository) Upsert(ctx context.Context, q database.Querier, key, value string) (model.Setting, error) {
	s := model.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := q.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.Key, s.Value, s.UpdatedAt,
	)
	if err != nil {
		return model.Setting{}, fmt.Errorf("saving setting: %w", err)
	}
	return s, nil
}

func (r *SettingRepository) Delete(ctx context.Context, q database.Querier, key string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("deleting setting: %w", err)
	}
	return checkAffected(res, "setting")
}
