package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	models "storefront/model"
)

// PostgresStore is a Store backed by the selected_users table.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := DB.Ping(); err != nil {
		_ = DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate runs the schema script. The script must be idempotent.
func (s *PostgresStore) Migrate(ctx context.Context, script string) error {
	_, err := s.DB.ExecContext(ctx, script)
	return err
}

func (s *PostgresStore) GetSelection(ctx context.Context, key string) (models.User, error) {
	var u models.User
	var raw []byte
	err := s.DB.QueryRowContext(ctx, `SELECT user_json FROM selected_users WHERE session_key=$1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, err
	}
	if err := json.Unmarshal(raw, &u); err != nil {
		return u, fmt.Errorf("decode selection %s: %w", key, err)
	}
	return u, nil
}

// SaveSelection upserts the selection for key.
func (s *PostgresStore) SaveSelection(ctx context.Context, key string, u models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO selected_users (session_key, user_json, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (session_key)
		DO UPDATE SET user_json = EXCLUDED.user_json, updated_at = now()
	`, key, string(raw))
	return err
}

// DeleteSelection is a no-op when nothing is stored under key.
func (s *PostgresStore) DeleteSelection(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM selected_users WHERE session_key=$1`, key)
	return err
}

// PurgeBefore removes selections not written since cutoff and reports how
// many rows went away.
func (s *PostgresStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM selected_users WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
