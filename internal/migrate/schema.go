// Package migrate creates the tables the server and the image fetcher use.
package migrate

import (
	"context"
	"database/sql"

	"muze-kasif/internal/logger"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS _museums (
        id TEXT PRIMARY KEY,
        position INT NOT NULL DEFAULT 0,
        name TEXT NOT NULL,
        category TEXT NOT NULL,
        status TEXT NOT NULL,
        district TEXT NOT NULL DEFAULT '',
        lat DOUBLE PRECISION NOT NULL,
        lng DOUBLE PRECISION NOT NULL,
        free_rule TEXT NOT NULL DEFAULT '',
        rating DOUBLE PRECISION NOT NULL DEFAULT 0,
        review_count INT NOT NULL DEFAULT 0,
        description TEXT NOT NULL DEFAULT '',
        image_url TEXT NOT NULL DEFAULT '',
        website_url TEXT NOT NULL DEFAULT '',
        image_file TEXT NOT NULL DEFAULT ''
    )`,
	`CREATE INDEX IF NOT EXISTS idx_museums_position ON _museums(position)`,
	`CREATE TABLE IF NOT EXISTS _museum_images (
        file TEXT PRIMARY KEY,
        article TEXT NOT NULL,
        url TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL,
        last_status TEXT NOT NULL DEFAULT '',
        fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`ALTER TABLE _museum_images ADD COLUMN IF NOT EXISTS last_status TEXT NOT NULL DEFAULT ''`,
	`CREATE TABLE IF NOT EXISTS _muze_stats_total (
        id INT PRIMARY KEY,
        total_queries BIGINT NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS _muze_stats_daily (
        day DATE PRIMARY KEY,
        queries BIGINT NOT NULL DEFAULT 0
    )`,
	`INSERT INTO _muze_stats_total(id, total_queries) VALUES(1, 0) ON CONFLICT (id) DO NOTHING`,
}

// EnsureSchema creates missing tables and columns, then seeds the counter row.
// Background: run by the server and by cmd/image-fetch right after the
// postgres ping; there is no separate migration tool.
// Constraints: statements are idempotent (IF NOT EXISTS, ON CONFLICT DO
// NOTHING) and run in order outside a transaction; the first error stops
// the run.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, s := range statements {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
