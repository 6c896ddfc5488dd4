package geo

import (
	"math"
	"sort"
)

// kdNode splits on longitude at even depth and latitude at odd depth.
type kdNode struct {
	s  Site
	ax int
	l  *kdNode
	r  *kdNode
}

// Index is an immutable kd-tree over sites.
type Index struct {
	root *kdNode
	size int
}

// NewIndex builds a balanced tree. sites is copied.
func NewIndex(sites []Site) *Index {
	cp := make([]Site, len(sites))
	copy(cp, sites)
	return &Index{root: buildKD(cp, 0), size: len(cp)}
}

func (ix *Index) Len() int { return ix.size }

func buildKD(ss []Site, depth int) *kdNode {
	if len(ss) == 0 {
		return nil
	}
	ax := depth % 2
	mid := len(ss) / 2
	selectNth(ss, mid, ax)
	n := &kdNode{s: ss[mid], ax: ax}
	n.l = buildKD(ss[:mid], depth+1)
	n.r = buildKD(ss[mid+1:], depth+1)
	return n
}

// selectNth partially orders a so that a[n] holds the element that would be
// there after a full sort on axis ax.
func selectNth(a []Site, n int, ax int) {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi, (lo+hi)/2, ax)
		if p == n {
			return
		}
		if n < p {
			hi = p - 1
		} else {
			lo = p + 1
		}
	}
}

func partition(a []Site, lo, hi, pivot, ax int) int {
	pv := a[pivot]
	a[pivot], a[hi] = a[hi], a[pivot]
	i := lo
	for j := lo; j < hi; j++ {
		if axisValue(a[j], ax) < axisValue(pv, ax) {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}

func axisValue(s Site, ax int) float64 {
	if ax == 0 {
		return s.Point.Lng
	}
	return s.Point.Lat
}

// kmPerDegree is slightly below the true meridian degree length so the
// pruning bound never overestimates.
const kmPerDegree = 111.0

// Nearest returns up to k sites ordered by distance from pt. maxKm <= 0
// means no radius limit. Equal distances are ordered by id.
func (ix *Index) Nearest(pt Point, k int, maxKm float64) []Hit {
	if k <= 0 || ix.root == nil {
		return nil
	}
	if maxKm <= 0 {
		maxKm = math.MaxFloat64
	}
	best := make([]Hit, 0, k+1)
	worst := func() float64 {
		if len(best) < k {
			return maxKm
		}
		return best[len(best)-1].DistanceKm
	}
	var dfs func(n *kdNode)
	dfs = func(n *kdNode) {
		if n == nil {
			return
		}
		d := Haversine(pt, n.s.Point)
		if d <= worst() {
			best = insertHit(best, Hit{ID: n.s.ID, DistanceKm: d}, k)
		}
		key := axisValue(Site{Point: pt}, n.ax)
		split := axisValue(n.s, n.ax)
		first, second := n.l, n.r
		if key > split {
			first, second = n.r, n.l
		}
		dfs(first)
		if math.Abs(key-split)*kmPerDegree*axisScale(pt, n.ax) <= worst() {
			dfs(second)
		}
	}
	dfs(ix.root)
	return best
}

// axisScale shrinks longitude degrees by cos(lat) at the query point, with
// headroom for the curvature of the meridian plane.
func axisScale(pt Point, ax int) float64 {
	if ax == 1 {
		return 1
	}
	c := math.Cos(pt.Lat * math.Pi / 180)
	return math.Max(c*0.9, 0)
}

func insertHit(best []Hit, h Hit, k int) []Hit {
	i := sort.Search(len(best), func(i int) bool {
		if best[i].DistanceKm != h.DistanceKm {
			return best[i].DistanceKm > h.DistanceKm
		}
		return best[i].ID > h.ID
	})
	best = append(best, Hit{})
	copy(best[i+1:], best[i:])
	best[i] = h
	if len(best) > k {
		best = best[:k]
	}
	return best
}

// Haversine is the great-circle distance in kilometres.
func Haversine(a, b Point) float64 {
	const R = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return R * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
