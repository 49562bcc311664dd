package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createStorageTable = `
	CREATE TABLE IF NOT EXISTS console_storage (
		origin     TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (origin, key)
	)
`

// PgxStorageRepository implements domain.KeyValueStore on a Postgres table.
type PgxStorageRepository struct {
	pool   *pgxpool.Pool
	origin string
}

// NewPgxStorageRepository creates a PgxStorageRepository scoped to origin.
func NewPgxStorageRepository(pool *pgxpool.Pool, origin string) *PgxStorageRepository {
	return &PgxStorageRepository{pool: pool, origin: origin}
}

// EnsureSchema creates the storage table when it does not exist yet.
func (r *PgxStorageRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, createStorageTable)
	return err
}

// Get returns the value stored under key.
// Returns ("", false, nil) when the key is absent.
func (r *PgxStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM console_storage WHERE origin = $1 AND key = $2`

	var value string
	err := r.pool.QueryRow(ctx, query, r.origin, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

// Set upserts value under key.
func (r *PgxStorageRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO console_storage (origin, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (origin, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.pool.Exec(ctx, query, r.origin, key, value)
	return err
}

// Remove deletes key. Deleting a missing row is not an error.
func (r *PgxStorageRepository) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM console_storage WHERE origin = $1 AND key = $2`
	_, err := r.pool.Exec(ctx, query, r.origin, key)
	return err
}
