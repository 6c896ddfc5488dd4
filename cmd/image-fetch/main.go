// Command image-fetch resolves museum image URLs from Wikipedia thumbnails and
// prints one "file|url" line per item. With FETCH_SCHEDULE it keeps running
// and repeats the batch on that cron spec.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"muze-kasif/internal/config"
	"muze-kasif/internal/imagefetch"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/migrate"
	"muze-kasif/internal/store"
	"muze-kasif/internal/utils"
	"muze-kasif/internal/wiki"
)

func main() {
	cfg, err := config.Load()
	l := logger.Setup()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	items, err := loadItems(cfg.Fetch.InputFile)
	if err != nil {
		l.Error("imagefetch_input_error", "path", cfg.Fetch.InputFile, "err", err)
		os.Exit(1)
	}

	job := &imagefetch.Job{
		Client:  &wiki.Client{HTTP: &http.Client{Timeout: cfg.Fetch.Timeout}, BaseURL: cfg.Fetch.BaseURL},
		Pause:   cfg.Fetch.Pause,
		Retries: cfg.Fetch.Retries,
		Backoff: cfg.Fetch.Backoff,
	}
	if cfg.Fetch.Store {
		db, err := utils.OpenPostgres(cfg.Postgres)
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := migrate.EnsureSchema(ctx, db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		job.Store = store.AttachDB(db)
	}

	run := func(ctx context.Context) {
		out, closeOut, err := openOutput(cfg.Fetch.OutputFile)
		if err != nil {
			l.Error("imagefetch_output_error", "path", cfg.Fetch.OutputFile, "err", err)
			return
		}
		defer closeOut()
		if _, err := job.Run(ctx, items, out); err != nil {
			l.Error("imagefetch_run_error", "err", err)
		}
	}

	if cfg.Fetch.Schedule == "" {
		run(ctx)
		return
	}
	if err := imagefetch.Schedule(ctx, cfg.Fetch.Schedule, run); err != nil {
		l.Error("imagefetch_schedule_error", "spec", cfg.Fetch.Schedule, "err", err)
		os.Exit(1)
	}
}

func loadItems(path string) ([]imagefetch.Item, error) {
	if path == "" {
		return imagefetch.DefaultItems(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imagefetch.ParseList(f)
}

// openOutput truncates the output file for each run; an empty path is stdout.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
