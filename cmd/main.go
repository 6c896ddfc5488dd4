// Command main serves the museum directory API, the metrics endpoint and the
// static UI. Configuration comes from the environment (see internal/config).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"muze-kasif/internal/api"
	"muze-kasif/internal/catalog"
	"muze-kasif/internal/config"
	"muze-kasif/internal/geo"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/metrics"
	"muze-kasif/internal/middleware"
	"muze-kasif/internal/migrate"
	"muze-kasif/internal/session"
	"muze-kasif/internal/store"
	"muze-kasif/internal/utils"
	"muze-kasif/internal/version"
)

func main() {
	cfg, err := config.Load()
	l := logger.Setup()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_loaded", "addr", cfg.Server.Addr, "api_base", cfg.Server.APIBase, "dataset", cfg.Dataset.Source)

	ctx := context.Background()
	var st *store.Store
	if cfg.Postgres.Enabled {
		db, err := utils.OpenPostgres(cfg.Postgres)
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
		} else if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
		} else {
			l.Info("db_ready")
			st = store.AttachDB(db)
		}
	}

	data, err := loadDataset(ctx, cfg.Dataset, st)
	if err != nil {
		l.Error("dataset_error", "source", cfg.Dataset.Source, "err", err)
		os.Exit(1)
	}
	for _, p := range data.Problems() {
		l.Warn("dataset_problem", "detail", p)
	}
	l.Info("dataset_ready", "source", cfg.Dataset.Source, "museums", data.Len())

	deps := api.Deps{
		Data:     data,
		Sessions: session.NewStore(data),
		CacheTTL: cfg.Cache.TTL,
		LRUCap:   cfg.Cache.LRUCapacity,
		LRUTTL:   cfg.Cache.LRUTTL,
	}
	if st != nil {
		deps.Stats = st
	}
	if rc := utils.OpenRedis(cfg.Redis); rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(ctx).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
		_ = rc.Close()
	} else {
		l.Info("redis_ping_ok")
		deps.Redis = rc
		defer rc.Close()
	}
	if cfg.GeoIP.CityDBPath != "" {
		if loc, err := geo.OpenIPLocator(cfg.GeoIP.CityDBPath); err != nil {
			l.Error("geoip_open_error", "path", cfg.GeoIP.CityDBPath, "err", err)
		} else {
			l.Info("geoip_ready", "path", cfg.GeoIP.CityDBPath)
			deps.Locator = loc
			defer loc.Close()
		}
	}

	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.Sessions.SweepSpec, func() {
		deps.Sessions.Sweep(cfg.Sessions.MaxIdle)
	}); err != nil {
		l.Error("session_sweep_spec_error", "spec", cfg.Sessions.SweepSpec, "err", err)
		os.Exit(1)
	}
	sweeper.Start()

	handler := middleware.RateLimit(cfg.RateLimit, logger.AccessMiddleware(l)(buildMux(cfg.Server, deps)))
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	runServer(l, srv, cfg.Server, func(ctx context.Context) error {
		<-sweeper.Stop().Done()
		return nil
	})
}

// loadDataset picks the record source. A postgres source with an empty table
// is seeded from the embedded records.
func loadDataset(ctx context.Context, c config.DatasetConfig, st *store.Store) (*catalog.Dataset, error) {
	switch c.Source {
	case "file":
		return catalog.LoadFile(c.Path)
	case "postgres":
		if st == nil {
			return nil, errors.New("postgres is not available")
		}
		n, err := st.CountMuseums(ctx)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			seed, err := catalog.Embedded()
			if err != nil {
				return nil, err
			}
			if err := st.SeedMuseums(ctx, seed.Records()); err != nil {
				return nil, fmt.Errorf("seed museums: %w", err)
			}
		}
		records, err := st.LoadMuseums(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.NewDataset(records)
	}
	return catalog.Embedded()
}

// buildMux assembles the top-level routes.
// Background: the API, /metrics and /healthz live under API_BASE; /config.js
// tells the UI where that base is and which commit it talks to.
// Constraints: the UI file server is mounted at "/" only when UI_DIST exists;
// the more specific API patterns always win over it.
func buildMux(c config.ServerConfig, deps api.Deps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(c.APIBase+"/", http.StripPrefix(c.APIBase, api.BuildRoutes(deps)))
	mux.Handle(c.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc(c.APIBase+"/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/config.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		fmt.Fprintf(w, "window.__API_BASE__=%q\nwindow.__COMMIT_SHA__=%q\n", c.APIBase, version.Commit)
	})
	if _, err := os.Stat(c.UIDir); err == nil {
		mux.Handle("/", http.FileServer(http.Dir(c.UIDir)))
	} else {
		logger.L().Info("ui_dir_missing", "dir", c.UIDir)
	}
	return mux
}

// runServer blocks until SIGINT or SIGTERM, runs the hooks, then shuts the
// server down within the configured timeout.
func runServer(l *slog.Logger, srv *http.Server, c config.ServerConfig, hooks ...func(context.Context) error) {
	go func() {
		var err error
		if c.TLSEnable {
			if err := utils.EnsureSelfSignedCert(c.TLSCertPath, c.TLSKeyPath, "muze-kasif.local"); err != nil {
				l.Error("tls_cert_error", "err", err)
				os.Exit(1)
			}
			l.Info("listening_tls", "addr", srv.Addr, "cert", c.TLSCertPath)
			err = srv.ListenAndServeTLS(c.TLSCertPath, c.TLSKeyPath)
		} else {
			l.Info("listening", "addr", srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("listen_error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	l.Info("shutdown_signal", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			l.Error("shutdown_hook_error", "idx", i, "err", err)
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("shutdown_error", "err", err)
		return
	}
	l.Info("shutdown_complete")
}
