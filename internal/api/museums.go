package api

import (
	"encoding/json"
	"net/http"
	"time"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/directory"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/mapview"
	"muze-kasif/internal/metrics"
	"muze-kasif/internal/textfold"
)

type listQuery struct {
	Category string `schema:"category,default:all"`
	Q        string `schema:"q"`
}

type listResponse struct {
	Category string           `json:"category"`
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Museums  []catalog.Museum `json:"museums"`
}

// museumDetail is a record plus the labels a detail card shows.
type museumDetail struct {
	catalog.Museum
	StatusLabel   string        `json:"statusLabel"`
	Badge         string        `json:"badge"`
	ReviewLabel   string        `json:"reviewLabel,omitempty"`
	Free          bool          `json:"free"`
	Icon          string        `json:"icon"`
	Marker        mapview.Icon  `json:"marker"`
	Popup         mapview.Popup `json:"popup"`
	DirectionsURL string        `json:"directionsUrl"`
}

func cacheKey(category, q string) string {
	return "museums:" + category + ":" + textfold.Query(q)
}

func (h *handler) listMuseums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t0 := time.Now()
	metrics.DirectoryRequestsTotal.Inc()
	var q listQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.Stats != nil {
		_ = h.Stats.IncrQueries(ctx)
	}
	key := cacheKey(q.Category, q.Q)
	if h.Redis != nil {
		if s, _ := h.Redis.Get(ctx, key).Bytes(); len(s) > 0 {
			metrics.RedisHitsTotal.Inc()
			logger.L().Debug("museums_cache_hit", "key", key)
			writeRaw(w, s)
			return
		}
		metrics.RedisMissesTotal.Inc()
	}
	visible := directory.ComputeVisible(h.records, q.Category, q.Q)
	if len(visible) == 0 {
		metrics.EmptyResultsTotal.Inc()
	}
	if visible == nil {
		visible = []catalog.Museum{}
	}
	body, err := json.Marshal(listResponse{Category: q.Category, Query: textfold.Query(q.Q), Count: len(visible), Museums: visible})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	body = append(body, '\n')
	if h.Redis != nil {
		if err := h.Redis.Set(ctx, key, body, h.CacheTTL).Err(); err != nil {
			logger.L().Warn("museums_cache_set_error", "key", key, "err", err)
		}
	}
	dur := time.Since(t0).Milliseconds()
	metrics.DirectoryDurationMs.Observe(float64(dur))
	logger.L().Debug("museums_list", "category", q.Category, "q", q.Q, "count", len(visible), "duration_ms", dur)
	writeRaw(w, body)
}

func (h *handler) getMuseum(w http.ResponseWriter, r *http.Request) {
	m, ok := h.Data.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "museum not found")
		return
	}
	d := museumDetail{
		Museum:        m,
		StatusLabel:   catalog.StatusLabel(m.Status),
		Badge:         catalog.BadgeLabel(m.Status),
		Free:          directory.IsFree(m.FreeRule),
		Icon:          catalog.CategoryIcon(m.Category),
		Marker:        mapview.MarkerIcon(m.Status),
		Popup:         mapview.PopupFor(m),
		DirectionsURL: mapview.DirectionsURL(m.Location.Lat, m.Location.Lng),
	}
	if m.ReviewCount > 0 {
		d.ReviewLabel = catalog.FormatReviewCount(m.ReviewCount)
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Data.Categories())
}

type statsResponse struct {
	Museums  int                   `json:"museums"`
	Statuses []catalog.StatusCount `json:"statuses"`
	Total    *int64                `json:"total,omitempty"`
	Today    *int64                `json:"today,omitempty"`
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Museums: len(h.records), Statuses: catalog.StatusCounts(h.records)}
	if h.Stats != nil {
		t, err := h.Stats.GetTotals(r.Context())
		if err != nil {
			logger.L().Error("stats_totals_error", "err", err)
		} else {
			resp.Total, resp.Today = &t.Total, &t.Today
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
