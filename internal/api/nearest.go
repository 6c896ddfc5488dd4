package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/geo"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/mapview"
	"muze-kasif/internal/metrics"
)

const (
	defaultNearest = 5
	maxNearest     = 50
	// precision 8 is a cell of about 38m x 19m
	nearestGeohashPrecision = 8
)

type nearestQuery struct {
	Lat   *float64 `schema:"lat"`
	Lng   *float64 `schema:"lng"`
	Limit int      `schema:"limit"`
	MaxKm float64  `schema:"maxKm"`
}

type nearestItem struct {
	Museum     catalog.Museum `json:"museum"`
	DistanceKm float64        `json:"distanceKm"`
}

type nearestResponse struct {
	Origin  geo.Point     `json:"origin"`
	Source  string        `json:"source"`
	Museums []nearestItem `json:"museums"`
}

func (h *handler) nearestMuseums(w http.ResponseWriter, r *http.Request) {
	var q nearestQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if (q.Lat == nil) != (q.Lng == nil) {
		writeError(w, http.StatusBadRequest, "lat and lng must be given together")
		return
	}
	if q.Lat != nil && (*q.Lat < -90 || *q.Lat > 90 || *q.Lng < -180 || *q.Lng > 180) {
		writeError(w, http.StatusBadRequest, "coordinate out of range")
		return
	}
	switch {
	case q.Limit <= 0:
		q.Limit = defaultNearest
	case q.Limit > maxNearest:
		q.Limit = maxNearest
	}

	origin, source := h.origin(r, q)
	metrics.NearestRequestsTotal.WithLabelValues(source).Inc()

	key := geo.Geohash(origin, nearestGeohashPrecision) + ":" + strconv.Itoa(q.Limit) + ":" + strconv.FormatFloat(q.MaxKm, 'f', -1, 64)
	hits, ok := h.nearest.Get(key)
	if ok {
		metrics.NearestCacheHitsTotal.Inc()
	} else {
		hits = h.index.Nearest(origin, q.Limit, q.MaxKm)
		h.nearest.Set(key, hits)
	}

	resp := nearestResponse{Origin: origin, Source: source, Museums: make([]nearestItem, 0, len(hits))}
	for _, hit := range hits {
		m, ok := h.Data.ByID(hit.ID)
		if !ok {
			continue
		}
		resp.Museums = append(resp.Museums, nearestItem{Museum: m, DistanceKm: hit.DistanceKm})
	}
	logger.L().Debug("museums_nearest", "lat", origin.Lat, "lng", origin.Lng, "source", source, "limit", q.Limit, "hits", len(resp.Museums), "cached", ok)
	writeJSON(w, http.StatusOK, resp)
}

// origin picks explicit coordinates, then the GeoIP location of the caller,
// then the default map center.
func (h *handler) origin(r *http.Request, q nearestQuery) (geo.Point, string) {
	if q.Lat != nil {
		return geo.Point{Lat: *q.Lat, Lng: *q.Lng}, "query"
	}
	if h.Locator != nil {
		if ip := clientIP(r); ip != "" {
			pt, err := h.Locator.Locate(ip)
			if err == nil {
				return pt, "geoip"
			}
			logger.L().Debug("geoip_miss", "ip", ip, "err", err)
		}
	}
	return geo.Point{Lat: mapview.DefaultLat, Lng: mapview.DefaultLng}, "default"
}

// clientIP prefers the usual reverse-proxy headers and falls back to the
// connection address.
func clientIP(r *http.Request) string {
	h := r.Header
	if x := h.Get("x-forwarded-for"); x != "" {
		return strings.TrimSpace(strings.Split(x, ",")[0])
	}
	for _, k := range []string{"cf-connecting-ip", "x-real-ip", "x-client-ip"} {
		if x := h.Get(k); x != "" {
			return strings.TrimSpace(x)
		}
	}
	if x := h.Get("forwarded"); x != "" {
		if i := strings.Index(strings.ToLower(x), "for="); i >= 0 {
			y := x[i+4:]
			if p := strings.IndexAny(y, ";,"); p >= 0 {
				y = y[:p]
			}
			y = strings.Trim(y, "\" ")
			if host, _, err := net.SplitHostPort(y); err == nil {
				return host
			}
			return strings.Trim(y, "[]")
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
