package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/geo"
	"muze-kasif/internal/selection"
	"muze-kasif/internal/session"
	"muze-kasif/internal/store"
)

func testData(t *testing.T) *catalog.Dataset {
	t.Helper()
	d, err := catalog.NewDataset([]catalog.Museum{
		{ID: "galata", Name: "Galata Kulesi", Category: "Tarih", Status: catalog.StatusClosed,
			Location: catalog.Location{District: "Beyoğlu", Lat: 41.0256, Lng: 28.9741}},
		{ID: "istanbul-modern", Name: "İstanbul Modern", Category: "Sanat", Status: catalog.StatusOpen,
			Location: catalog.Location{District: "Beyoğlu", Lat: 41.0266, Lng: 28.9833}, ReviewCount: 1250, Rating: 4.6},
		{ID: "topkapi", Name: "Topkapı Sarayı Müzesi", Category: "Tarih", Status: catalog.StatusOpen,
			Location: catalog.Location{District: "Fatih", Lat: 41.0115, Lng: 28.9834}, FreeRule: "Ücretsiz: 0-8 yaş"},
	})
	require.NoError(t, err)
	return d
}

type fakeStats struct {
	incr int
	err  error
}

func (f *fakeStats) IncrQueries(context.Context) error { f.incr++; return nil }

func (f *fakeStats) GetTotals(context.Context) (*store.Totals, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &store.Totals{Total: 10, Today: int64(f.incr)}, nil
}

type fakeLocator struct{ pt geo.Point }

func (f fakeLocator) Locate(ip string) (geo.Point, error) {
	if ip == "203.0.113.9" {
		return f.pt, nil
	}
	return geo.Point{}, geo.ErrNoLocation
}

func newServer(t *testing.T, d Deps) *httptest.Server {
	t.Helper()
	if d.Data == nil {
		d.Data = testData(t)
	}
	if d.Sessions == nil {
		d.Sessions = session.NewStore(d.Data, session.WithClock(&selection.ManualClock{}))
	}
	if d.LRUCap == 0 {
		d.LRUCap, d.LRUTTL = 16, time.Minute
	}
	srv := httptest.NewServer(BuildRoutes(d))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func ids(ms []catalog.Museum) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestListMuseumsFiltersAndSorts(t *testing.T) {
	st := &fakeStats{}
	srv := newServer(t, Deps{Stats: st})

	var all listResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/museums", &all))
	assert.Equal(t, "all", all.Category)
	assert.Equal(t, []string{"topkapi", "istanbul-modern", "galata"}, ids(all.Museums))

	var tarih listResponse
	getJSON(t, srv.URL+"/museums?category=Tarih&q=SARAY", &tarih)
	assert.Equal(t, []string{"topkapi"}, ids(tarih.Museums))

	var none listResponse
	getJSON(t, srv.URL+"/museums?category=Yok", &none)
	assert.Equal(t, 0, none.Count)
	assert.NotNil(t, none.Museums)

	assert.Equal(t, 3, st.incr)
}

func TestListMuseumsUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rc.Close()
	srv := newServer(t, Deps{Redis: rc, CacheTTL: time.Minute})

	var first listResponse
	getJSON(t, srv.URL+"/museums?q=%C4%B0stanbul", &first)
	assert.Equal(t, []string{"istanbul-modern"}, ids(first.Museums))

	key := cacheKey("all", "İstanbul")
	assert.Equal(t, "museums:all:istanbul", key)
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	// a cached body is served as is
	require.NoError(t, mr.Set(key, `{"category":"all","query":"x","count":0,"museums":[]}`))
	var cached listResponse
	getJSON(t, srv.URL+"/museums?q=istanbul", &cached)
	assert.Equal(t, "x", cached.Query)
}

func TestListMuseumsEchoesFoldedQuery(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rc.Close()
	srv := newServer(t, Deps{Redis: rc, CacheTTL: time.Minute})

	var upper, lower listResponse
	getJSON(t, srv.URL+"/museums?q=FAT%C4%B0H", &upper)
	getJSON(t, srv.URL+"/museums?q=fatih", &lower)
	assert.Equal(t, "fatih", upper.Query)
	assert.Equal(t, "fatih", lower.Query)
	assert.Equal(t, []string{"topkapi"}, ids(lower.Museums))
	assert.Equal(t, 1, len(mr.Keys()))
}

func TestGetMuseum(t *testing.T) {
	srv := newServer(t, Deps{})

	var d museumDetail
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/museums/istanbul-modern", &d))
	assert.Equal(t, "İstanbul Modern", d.Name)
	assert.Equal(t, "Açık", d.StatusLabel)
	assert.Equal(t, "1.3B", d.ReviewLabel)
	assert.False(t, d.Free)
	assert.Equal(t, "green", d.Marker.Color)
	assert.Contains(t, d.DirectionsURL, "41.0266,28.9833")

	var top museumDetail
	getJSON(t, srv.URL+"/museums/topkapi", &top)
	assert.True(t, top.Free)
	assert.Empty(t, top.ReviewLabel)

	var e map[string]string
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/museums/nope", &e))
	assert.Equal(t, "museum not found", e["error"])
}

func TestNearest(t *testing.T) {
	srv := newServer(t, Deps{Locator: fakeLocator{pt: geo.Point{Lat: 41.0116, Lng: 28.9833}}})

	var byQuery nearestResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/museums/nearest?lat=41.0256&lng=28.9741&limit=2", &byQuery))
	assert.Equal(t, "query", byQuery.Source)
	require.Len(t, byQuery.Museums, 2)
	assert.Equal(t, "galata", byQuery.Museums[0].Museum.ID)
	assert.Equal(t, "istanbul-modern", byQuery.Museums[1].Museum.ID)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/museums/nearest?limit=1", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var byIP nearestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&byIP))
	assert.Equal(t, "geoip", byIP.Source)
	require.Len(t, byIP.Museums, 1)
	assert.Equal(t, "topkapi", byIP.Museums[0].Museum.ID)

	var fallback nearestResponse
	getJSON(t, srv.URL+"/museums/nearest", &fallback)
	assert.Equal(t, "default", fallback.Source)
	assert.Len(t, fallback.Museums, 3)

	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/museums/nearest?lat=41", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/museums/nearest?lat=abc&lng=1", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/museums/nearest?lat=95&lng=1", nil))
}

func TestCategoriesAndStats(t *testing.T) {
	srv := newServer(t, Deps{Stats: &fakeStats{}})

	var cats []catalog.Category
	getJSON(t, srv.URL+"/categories", &cats)
	require.NotEmpty(t, cats)
	assert.Equal(t, catalog.AllCategory, cats[0].ID)

	var s statsResponse
	getJSON(t, srv.URL+"/stats", &s)
	assert.Equal(t, 3, s.Museums)
	assert.Equal(t, catalog.StatusCount{Status: catalog.StatusOpen, Label: "Açık", Count: 2}, s.Statuses[0])
	require.NotNil(t, s.Total)
	assert.Equal(t, int64(10), *s.Total)

	srv2 := newServer(t, Deps{Stats: &fakeStats{err: errors.New("db down")}})
	var s2 statsResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv2.URL+"/stats", &s2))
	assert.Nil(t, s2.Total)
}

func postEvent(t *testing.T, base, id, body string) (int, eventResponse) {
	t.Helper()
	resp, err := http.Post(base+"/sessions/"+id+"/events", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out eventResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestSessionFlow(t *testing.T) {
	clock := &selection.ManualClock{}
	data := testData(t)
	srv := newServer(t, Deps{Data: data, Sessions: session.NewStore(data, session.WithClock(clock))})

	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	var created createdSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)
	assert.Len(t, created.Frame.Visible, 3)

	code, ev := postEvent(t, srv.URL, created.ID, `{"type":"pin_clicked","id":"galata"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, ev.Changed)
	assert.Equal(t, "galata", ev.View.Frame.Selection.Selected)
	assert.Equal(t, "galata", ev.View.Frame.Selection.Highlighted)
	assert.Equal(t, []string{"galata"}, ev.View.Scrolls)
	assert.Equal(t, 16, ev.View.Camera.Zoom)
	assert.Len(t, ev.View.Pins, 1)

	clock.Advance(selection.HighlightDuration)
	var view session.View
	getJSON(t, srv.URL+"/sessions/"+created.ID, &view)
	assert.Empty(t, view.Frame.Selection.Highlighted)
	assert.Equal(t, "galata", view.Frame.Selection.Selected)

	code, ev = postEvent(t, srv.URL, created.ID, `{"type":"category_changed","id":"Sanat"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, ev.View.Frame.Selection.Selected)
	assert.Equal(t, []string{"istanbul-modern"}, ids(ev.View.Frame.Visible))

	code, _ = postEvent(t, srv.URL, created.ID, `{"type":"highlight_expired"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = postEvent(t, srv.URL, created.ID, `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = postEvent(t, srv.URL, "missing", `{"type":"background_clicked"}`)
	assert.Equal(t, http.StatusNotFound, code)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/sessions/"+created.ID, nil))
}

func TestSessionScrollsReachClientOnce(t *testing.T) {
	srv := newServer(t, Deps{})

	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	var created createdSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	_, ev := postEvent(t, srv.URL, created.ID, `{"type":"pin_clicked","id":"galata"}`)
	assert.Equal(t, []string{"galata"}, ev.View.Scrolls)

	var view session.View
	getJSON(t, srv.URL+"/sessions/"+created.ID, &view)
	assert.Empty(t, view.Scrolls)

	_, ev = postEvent(t, srv.URL, created.ID, `{"type":"pin_clicked","id":"topkapi"}`)
	assert.Equal(t, []string{"topkapi"}, ev.View.Scrolls)
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		header, value, want string
	}{
		{"X-Forwarded-For", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"X-Real-IP", "198.51.100.2", "198.51.100.2"},
		{"Forwarded", `for="[2001:db8::1]:4711";proto=https`, "2001:db8::1"},
		{"Forwarded", "for=192.0.2.60;proto=http", "192.0.2.60"},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(c.header, c.value)
		assert.Equal(t, c.want, clientIP(r), c.header)
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "192.0.2.1", clientIP(r))
}
