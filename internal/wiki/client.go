// Package wiki queries the Wikipedia REST summary endpoint for article thumbnails.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"muze-kasif/internal/logger"
	"muze-kasif/internal/metrics"
)

const (
	DefaultBaseURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"
	UserAgent      = "MuzeKasifPro/1.0 (museum-guide-app; contact@example.com)"
)

var ErrInvalidJSON = errors.New("wiki: invalid JSON")

// StatusError is a non-2xx response that is worth retrying.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP %d", e.Code) }

// Retryable reports whether err may succeed on a later attempt: transport
// failures, 429 and 5xx.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, ErrInvalidJSON) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return true
}

// Summary holds the fields of a page summary we read.
type Summary struct {
	Title     string     `json:"title"`
	Thumbnail *Thumbnail `json:"thumbnail"`
}

type Thumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ThumbnailURL returns the thumbnail source or "" when the page has none.
func (s *Summary) ThumbnailURL() string {
	if s == nil || s.Thumbnail == nil {
		return ""
	}
	return s.Thumbnail.Source
}

// Client calls the page summary endpoint for the image-fetch job.
// Background: one request per article, sent with UserAgent as the API asks of
// automated clients.
// Constraints: the zero value uses DefaultBaseURL and a 10s timeout; retries
// and pacing belong to the caller.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// FetchSummary performs one GET for article. Redirects are followed by the
// http.Client. 429 and 5xx come back as *StatusError; other statuses are
// decoded, so a JSON 404 simply has no thumbnail.
func (c *Client) FetchSummary(ctx context.Context, article string) (*Summary, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+url.PathEscape(article), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	metrics.FetchRequestsTotal.Inc()
	logger.L().Debug("wiki_req", "article", article)
	resp, err := hc.Do(req)
	if err != nil {
		logger.L().Warn("wiki_http_error", "article", article, "err", err)
		metrics.FetchFailTotal.Inc()
		return nil, err
	}
	defer resp.Body.Close()
	metrics.FetchDurationMs.Observe(float64(time.Since(t0).Milliseconds()))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		metrics.FetchFailTotal.Inc()
		logger.L().Warn("wiki_http_status", "article", article, "status", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode}
	}
	var s Summary
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		metrics.FetchFailTotal.Inc()
		logger.L().Warn("wiki_decode_error", "article", article, "status", resp.StatusCode, "err", err)
		return nil, ErrInvalidJSON
	}
	metrics.FetchSuccessTotal.Inc()
	logger.L().Debug("wiki_resp", "article", article, "status", resp.StatusCode, "has_thumb", s.ThumbnailURL() != "")
	return &s, nil
}

var sizeSegment = regexp.MustCompile(`/\d+px-`)

// Resize800 swaps the first "/<n>px-" segment of a thumbnail URL for "/800px-".
func Resize800(thumb string) string {
	loc := sizeSegment.FindStringIndex(thumb)
	if loc == nil {
		return thumb
	}
	return thumb[:loc[0]] + "/800px-" + thumb[loc[1]:]
}
