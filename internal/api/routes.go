// Package api registers the JSON directory API on its own ServeMux so the
// entry point can mount it under API_BASE.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/redis/go-redis/v9"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/geo"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/session"
	"muze-kasif/internal/store"
)

// Stats is the counter store behind /stats; *store.Store satisfies it.
type Stats interface {
	IncrQueries(ctx context.Context) error
	GetTotals(ctx context.Context) (*store.Totals, error)
}

// Locator resolves a client IP to a coordinate; *geo.IPLocator satisfies it.
type Locator interface {
	Locate(ip string) (geo.Point, error)
}

// Deps are the collaborators of the routes. Only Data and Sessions are
// required; nil Stats, Redis or Locator switch the matching feature off.
type Deps struct {
	Data     *catalog.Dataset
	Sessions *session.Store
	Stats    Stats
	Redis    *redis.Client
	Locator  Locator
	CacheTTL time.Duration
	LRUCap   int
	LRUTTL   time.Duration
}

type handler struct {
	Deps
	records []catalog.Museum
	index   *geo.Index
	nearest *geo.LRU[[]geo.Hit]
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// BuildRoutes returns the API mux.
// Background: cmd/main.go mounts it under API_BASE with http.StripPrefix next
// to /metrics and the static UI; the kd-tree and the nearest LRU are built
// once here from Data.
// Constraints: paths are relative to the mount point and use method patterns,
// so a wrong method gets 405 from the mux. Errors are JSON {"error": msg}.
func BuildRoutes(d Deps) *http.ServeMux {
	h := &handler{Deps: d, records: d.Data.Records()}
	sites := make([]geo.Site, len(h.records))
	for i, m := range h.records {
		sites[i] = geo.Site{ID: m.ID, Point: geo.Point{Lat: m.Location.Lat, Lng: m.Location.Lng}}
	}
	h.index = geo.NewIndex(sites)
	h.nearest = geo.NewLRU[[]geo.Hit](d.LRUCap, d.LRUTTL)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /museums", h.listMuseums)
	mux.HandleFunc("GET /museums/nearest", h.nearestMuseums)
	mux.HandleFunc("GET /museums/{id}", h.getMuseum)
	mux.HandleFunc("GET /categories", h.categories)
	mux.HandleFunc("GET /stats", h.stats)
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{id}", h.getSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.deleteSession)
	mux.HandleFunc("POST /sessions/{id}/events", h.postEvent)
	logger.L().Debug("api_routes_ready", "museums", len(h.records), "redis", d.Redis != nil, "stats", d.Stats != nil, "geoip", d.Locator != nil)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
