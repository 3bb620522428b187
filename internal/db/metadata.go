//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailytics/retail-reports/internal/logging"
	"github.com/retailytics/retail-reports/pkg/version"
)

const metadataTable = "retail_reports_metadata"

// Metadata keys recorded by the pipeline stages. The run command checks
// KeyCleanedAt before executing any report, so the cleaning stage always
// happens before analytics.
const (
	KeySeededAt  = "seeded_at"
	KeyCleanedAt = "cleaned_at"
	KeyVersion   = "version"
)

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS retail_reports_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// MarkStage records that a pipeline stage completed at the current time.
func MarkStage(ctx context.Context, pool *pgxpool.Pool, key string) error {
	if _, err := pool.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		key:        time.Now().UTC().Format(time.RFC3339),
		KeyVersion: version.Short(),
	}

	for k, v := range metadata {
		_, err := pool.Exec(ctx, `
            INSERT INTO retail_reports_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, k, v)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", k, err)
		}
	}

	logging.Debug().Str("key", key).Msg("Recorded pipeline stage")
	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, `
        SELECT value FROM retail_reports_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	rows, err := pool.Query(ctx, `SELECT key, value FROM retail_reports_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// ClearStage removes a pipeline stage marker, if present.
func ClearStage(ctx context.Context, pool *pgxpool.Pool, key string) error {
	_, err := pool.Exec(ctx, `
        DELETE FROM retail_reports_metadata WHERE key = $1
    `, key)
	return err
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
