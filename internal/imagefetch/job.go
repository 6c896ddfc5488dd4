package imagefetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"muze-kasif/internal/logger"
	"muze-kasif/internal/metrics"
	"muze-kasif/internal/store"
	"muze-kasif/internal/wiki"
)

// NoImage is written in place of a URL when the article has no thumbnail.
const NoImage = "NO_IMAGE"

// Fetcher is satisfied by *wiki.Client.
type Fetcher interface {
	FetchSummary(ctx context.Context, article string) (*wiki.Summary, error)
}

// ImageStore is satisfied by *store.Store.
type ImageStore interface {
	UpsertImage(ctx context.Context, file, article, url, status string) error
}

// Result is the outcome for one item. Exactly one of URL and Err is set.
type Result struct {
	Item
	URL      string
	Err      error
	Attempts int
}

// Line renders the result as "file|url" or "file|ERROR: message".
func (r Result) Line() string {
	if r.Err != nil {
		return r.File + "|ERROR: " + errorMessage(r.Err)
	}
	return r.File + "|" + r.URL
}

func errorMessage(err error) string {
	if errors.Is(err, wiki.ErrInvalidJSON) {
		return "Invalid JSON"
	}
	return err.Error()
}

// Job fetches items one at a time. Retries counts attempts per item, so 1
// means no retry. Backoff doubles after each failed attempt.
type Job struct {
	Client  Fetcher
	Store   ImageStore
	Pause   time.Duration
	Retries int
	Backoff time.Duration

	// Sleep waits for d or until ctx is done; nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Report summarises a run.
type Report struct {
	OK      int
	NoImage int
	Failed  int
}

// Run processes items in order and writes one line per item to w. A failing
// item never stops the batch; only a write error or ctx cancellation does.
func (j *Job) Run(ctx context.Context, items []Item, w io.Writer) (Report, error) {
	var rep Report
	logger.L().Info("imagefetch_start", "items", len(items))
	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if i > 0 && j.Pause > 0 {
			if err := j.sleep(ctx, j.Pause); err != nil {
				return rep, err
			}
		}
		res := j.fetch(ctx, it)
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		switch {
		case res.Err != nil:
			rep.Failed++
		case res.URL == NoImage:
			rep.NoImage++
		default:
			rep.OK++
		}
		if _, err := fmt.Fprintln(w, res.Line()); err != nil {
			return rep, err
		}
		j.persist(ctx, res)
	}
	logger.L().Info("imagefetch_done", "ok", rep.OK, "no_image", rep.NoImage, "failed", rep.Failed)
	return rep, nil
}

func (j *Job) fetch(ctx context.Context, it Item) Result {
	attempts := j.Retries
	if attempts < 1 {
		attempts = 1
	}
	wait := j.Backoff
	res := Result{Item: it}
	for a := 1; a <= attempts; a++ {
		res.Attempts = a
		s, err := j.Client.FetchSummary(ctx, it.Article)
		if err == nil {
			res.Err = nil
			if thumb := s.ThumbnailURL(); thumb != "" {
				res.URL = wiki.Resize800(thumb)
			} else {
				res.URL = NoImage
			}
			return res
		}
		res.Err = err
		if !wiki.Retryable(err) || a == attempts {
			break
		}
		metrics.FetchRetriesTotal.Inc()
		logger.L().Debug("imagefetch_retry", "file", it.File, "attempt", a, "wait", wait, "err", err)
		if err := j.sleep(ctx, wait); err != nil {
			res.Err = err
			break
		}
		wait *= 2
	}
	logger.L().Warn("imagefetch_item_failed", "file", it.File, "article", it.Article, "attempts", res.Attempts, "err", res.Err)
	return res
}

// persist stores every outcome. A failure or missing image never replaces a
// url found on an earlier run; UpsertImage keeps the "ok" row.
func (j *Job) persist(ctx context.Context, res Result) {
	if j.Store == nil {
		return
	}
	status, url := store.ImageOK, res.URL
	switch {
	case res.Err != nil:
		status, url = store.ImageError, ""
	case res.URL == NoImage:
		status, url = store.ImageMissing, ""
	}
	if err := j.Store.UpsertImage(ctx, res.File, res.Article, url, status); err != nil {
		logger.L().Error("imagefetch_store_error", "file", res.File, "err", err)
	}
}

func (j *Job) sleep(ctx context.Context, d time.Duration) error {
	if j.Sleep != nil {
		return j.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
