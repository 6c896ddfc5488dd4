package utils

import (
	"database/sql"
	"net/url"
	"strconv"

	"muze-kasif/internal/config"
	"muze-kasif/internal/logger"

	_ "github.com/lib/pq"
)

// BuildPostgresDSN renders a lib/pq URL DSN. The password is escaped so it may
// contain reserved characters.
func BuildPostgresDSN(c config.PostgresConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DB,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}
	return u.String()
}

// OpenPostgres opens a lib/pq pool sized from the config.
// Background: shared by the server (dataset, stats) and cmd/image-fetch
// (image rows); both run migrate.EnsureSchema after a successful ping.
// Constraints: sql.Open does not dial; the caller decides whether a failed
// Ping is fatal. Pool limits of zero keep database/sql defaults.
func OpenPostgres(c config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSN(c))
	if err != nil {
		return nil, err
	}
	if c.MaxOpen > 0 {
		db.SetMaxOpenConns(c.MaxOpen)
	}
	if c.MaxIdle > 0 {
		db.SetMaxIdleConns(c.MaxIdle)
	}
	logger.L().Debug("pg_pool", "host", c.Host, "db", c.DB, "max_open", c.MaxOpen, "max_idle", c.MaxIdle)
	return db, nil
}
