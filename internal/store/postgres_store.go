package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DB is the subset of *sql.DB used by PostgresStore
type DB interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

// PostgresStore keeps each collection as one row of the collections table
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a new PostgreSQL-backed store
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const (
	loadCollectionQuery = `
		SELECT data, version
		FROM collections
		WHERE name = $1
	`

	// Both conditional writes return no row when the stored version differs
	// from the one the caller read.
	insertCollectionQuery = `
		INSERT INTO collections (name, data, version, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (name) DO NOTHING
		RETURNING version
	`

	updateCollectionQuery = `
		UPDATE collections
		SET data = $2, version = version + 1, updated_at = NOW()
		WHERE name = $1 AND version = $3
		RETURNING version
	`

	overwriteCollectionQuery = `
		INSERT INTO collections (name, data, version, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (name) DO UPDATE
		SET data = EXCLUDED.data, version = collections.version + 1, updated_at = NOW()
		RETURNING version
	`
)

// Load implements Store
func (s *PostgresStore) Load(ctx context.Context, collection string) (Snapshot, error) {
	var snap Snapshot

	err := s.db.QueryRowContext(ctx, loadCollectionQuery, collection).Scan(&snap.Data, &snap.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load collection %s: %w", collection, err)
	}

	return snap, nil
}

// Save implements Store
func (s *PostgresStore) Save(ctx context.Context, collection string, data []byte, expectedVersion int64) (int64, error) {
	var row *sql.Row
	switch expectedVersion {
	case AnyVersion:
		row = s.db.QueryRowContext(ctx, overwriteCollectionQuery, collection, string(data))
	case 0:
		row = s.db.QueryRowContext(ctx, insertCollectionQuery, collection, string(data))
	default:
		row = s.db.QueryRowContext(ctx, updateCollectionQuery, collection, string(data), expectedVersion)
	}

	var version int64
	err := row.Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to save collection %s: %w", collection, err)
	}

	return version, nil
}

// Ping implements Pinger
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
