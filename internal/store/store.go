// Package store is the PostgreSQL access layer: museum records, fetched image
// URLs and query counters.
package store

import (
	"context"
	"database/sql"
	"errors"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/logger"
)

// Store wraps a connection pool opened by utils.OpenPostgres.
// Background: the museum table mirrors the embedded dataset; image rows come
// from the image-fetch job; counters back GET /stats.
// Constraints: every method takes a context and returns driver errors as
// is. The schema must exist (migrate.EnsureSchema) before first use.
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

const selectMuseums = `SELECT m.id, m.name, m.category, m.status, m.district, m.lat, m.lng,
        m.free_rule, m.rating, m.review_count, m.description,
        COALESCE(NULLIF(i.url, ''), m.image_url), m.website_url, m.image_file
    FROM _museums m
    LEFT JOIN _museum_images i ON i.file = m.image_file AND i.status = 'ok'
    ORDER BY m.position, m.id`

// LoadMuseums returns every museum in display order. A successfully fetched
// image URL overrides the one stored on the record.
func (s *Store) LoadMuseums(ctx context.Context) ([]catalog.Museum, error) {
	rows, err := s.db.QueryContext(ctx, selectMuseums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []catalog.Museum
	for rows.Next() {
		var m catalog.Museum
		var status string
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &status, &m.Location.District,
			&m.Location.Lat, &m.Location.Lng, &m.FreeRule, &m.Rating, &m.ReviewCount,
			&m.Description, &m.ImageURL, &m.WebsiteURL, &m.ImageFile); err != nil {
			return nil, err
		}
		m.Status = catalog.Status(status)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_museums_loaded", "count", len(out))
	return out, nil
}

// CountMuseums is used at startup to decide whether to seed the table.
func (s *Store) CountMuseums(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM _museums").Scan(&n)
	return n, err
}

// SeedMuseums upserts records in one transaction, keeping their order in the
// position column.
// Constraints: re-seeding overwrites record fields but never touches
// _museum_images; a failed row rolls back the whole batch.
func (s *Store) SeedMuseums(ctx context.Context, records []catalog.Museum) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _museums(id, position, name, category, status, district, lat, lng,
            free_rule, rating, review_count, description, image_url, website_url, image_file)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (id) DO UPDATE SET position=EXCLUDED.position, name=EXCLUDED.name,
            category=EXCLUDED.category, status=EXCLUDED.status, district=EXCLUDED.district,
            lat=EXCLUDED.lat, lng=EXCLUDED.lng, free_rule=EXCLUDED.free_rule, rating=EXCLUDED.rating,
            review_count=EXCLUDED.review_count, description=EXCLUDED.description,
            image_url=EXCLUDED.image_url, website_url=EXCLUDED.website_url, image_file=EXCLUDED.image_file`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, m := range records {
		if _, err := stmt.ExecContext(ctx, m.ID, i, m.Name, m.Category, string(m.Status),
			m.Location.District, m.Location.Lat, m.Location.Lng, m.FreeRule, m.Rating,
			m.ReviewCount, m.Description, m.ImageURL, m.WebsiteURL, m.ImageFile); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("db_museums_seeded", "count", len(records))
	return nil
}

// Image fetch outcomes stored in _museum_images.status.
const (
	ImageOK      = "ok"
	ImageMissing = "no_image"
	ImageError   = "error"
)

// UpsertImage records a fetch result for an image file. A stored "ok" row
// keeps its url and status when a later fetch fails or finds no image; the
// newer outcome lands in last_status and fetched_at moves forward.
func (s *Store) UpsertImage(ctx context.Context, file, article, url, status string) error {
	if file == "" {
		return errors.New("store: empty image file")
	}
	_, err := s.db.ExecContext(ctx, upsertImage, file, article, url, status)
	return err
}

const upsertImage = `INSERT INTO _museum_images(file, article, url, status, last_status, fetched_at)
        VALUES($1,$2,$3,$4,$4, now())
        ON CONFLICT (file) DO UPDATE SET article=EXCLUDED.article,
            url=CASE WHEN _museum_images.status='ok' AND EXCLUDED.status<>'ok' THEN _museum_images.url ELSE EXCLUDED.url END,
            status=CASE WHEN _museum_images.status='ok' AND EXCLUDED.status<>'ok' THEN _museum_images.status ELSE EXCLUDED.status END,
            last_status=EXCLUDED.last_status, fetched_at=EXCLUDED.fetched_at`

// IncrQueries bumps the total and today's directory query counters.
func (s *Store) IncrQueries(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE _muze_stats_total SET total_queries=total_queries+1 WHERE id=1"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "INSERT INTO _muze_stats_daily(day, queries) VALUES(current_date, 1) ON CONFLICT (day) DO UPDATE SET queries=_muze_stats_daily.queries+1")
	return err
}

type Totals struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

// GetTotals reads the counters. A missing row for today reads as zero.
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	if err := s.db.QueryRowContext(ctx, "SELECT total_queries FROM _muze_stats_total WHERE id=1").Scan(&t.Total); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT queries FROM _muze_stats_daily WHERE day=current_date").Scan(&t.Today); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}
