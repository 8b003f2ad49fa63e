package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getSettingQuery    = `SELECT value FROM app_settings WHERE key = $1`
	listSettingsQuery  = `SELECT key, value, updated_at FROM app_settings ORDER BY key`
	upsertSettingQuery = `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING updated_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, key Key) (json.RawMessage, error) {
	var raw []byte
	if err := r.db.QueryRowContext(ctx, getSettingQuery, string(key)).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, key Key, value json.RawMessage) (Setting, error) {
	var updated time.Time
	if err := r.db.QueryRowContext(ctx, upsertSettingQuery, string(key), []byte(value)).Scan(&updated); err != nil {
		return Setting{}, err
	}
	return Setting{Key: key, Value: value, UpdatedAt: updated.UTC().Format(time.RFC3339)}, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx, listSettingsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Setting, 0)
	for rows.Next() {
		var (
			key     string
			raw     []byte
			updated time.Time
		)
		if err := rows.Scan(&key, &raw, &updated); err != nil {
			return nil, err
		}
		out = append(out, Setting{Key: Key(key), Value: raw, UpdatedAt: updated.UTC().Format(time.RFC3339)})
	}
	return out, rows.Err()
}
