package geo

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bruteForce(sites []Site, pt Point, k int) []Hit {
	hits := make([]Hit, 0, len(sites))
	for _, s := range sites {
		hits = append(hits, Hit{ID: s.ID, DistanceKm: Haversine(pt, s.Point)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func TestNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sites := make([]Site, 300)
	for i := range sites {
		sites[i] = Site{
			ID:    fmt.Sprintf("m%03d", i),
			Point: Point{Lat: 40.8 + rng.Float64()*0.5, Lng: 28.6 + rng.Float64()*0.8},
		}
	}
	ix := NewIndex(sites)
	require.Equal(t, 300, ix.Len())

	for q := 0; q < 50; q++ {
		pt := Point{Lat: 40.8 + rng.Float64()*0.5, Lng: 28.6 + rng.Float64()*0.8}
		for _, k := range []int{1, 5, 20} {
			assert.Equal(t, bruteForce(sites, pt, k), ix.Nearest(pt, k, 0))
		}
	}
}

func TestNearestRadiusAndEdgeCases(t *testing.T) {
	sites := []Site{
		{ID: "galata", Point: Point{Lat: 41.0256, Lng: 28.9741}},
		{ID: "topkapi", Point: Point{Lat: 41.0115, Lng: 28.9834}},
		{ID: "rumeli", Point: Point{Lat: 41.0847, Lng: 29.0567}},
	}
	ix := NewIndex(sites)
	pt := Point{Lat: 41.0256, Lng: 28.9741}

	hits := ix.Nearest(pt, 3, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "galata", hits[0].ID)
	assert.InDelta(t, 0, hits[0].DistanceKm, 1e-9)
	assert.Equal(t, "topkapi", hits[1].ID)

	assert.Nil(t, ix.Nearest(pt, 0, 0))
	assert.Nil(t, NewIndex(nil).Nearest(pt, 3, 0))
}

func TestNearestTiesOrderedByID(t *testing.T) {
	p := Point{Lat: 41, Lng: 29}
	ix := NewIndex([]Site{{ID: "b", Point: p}, {ID: "a", Point: p}, {ID: "c", Point: p}})
	hits := ix.Nearest(p, 2, 0)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
}

func TestHaversine(t *testing.T) {
	// Sultanahmet to Taksim is a little over 3km.
	d := Haversine(Point{Lat: 41.0054, Lng: 28.9768}, Point{Lat: 41.0370, Lng: 28.9850})
	assert.InDelta(t, 3.58, d, 0.05)
	assert.InDelta(t, 0, Haversine(Point{1, 2}, Point{1, 2}), 1e-12)
}

func TestGeohash(t *testing.T) {
	assert.Equal(t, "ezs42", Geohash(Point{Lat: 42.6, Lng: -5.6}, 5))
	assert.Equal(t, "sxk9", Geohash(Point{Lat: 41.0082, Lng: 28.9784}, 4))
	assert.Len(t, Geohash(Point{Lat: 41, Lng: 29}, 7), 7)
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[[]Hit](4, time.Minute)
	c.now = func() time.Time { return now }
	c.Set("k", []Hit{{ID: "x"}})

	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestOpenIPLocatorMissingFile(t *testing.T) {
	_, err := OpenIPLocator("/nonexistent/GeoLite2-City.mmdb")
	assert.Error(t, err)
}
