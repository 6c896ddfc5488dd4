// Package geo answers "which museums are closest to this point": a 2-d
// kd-tree over museum coordinates, haversine distances, geohash cache keys, a
// small TTL LRU and an optional GeoLite2 lookup for client IPs.
package geo

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Site is an indexed location with the id of the record it belongs to.
type Site struct {
	ID    string
	Point Point
}

// Hit is a search result with its great-circle distance in kilometres.
type Hit struct {
	ID         string  `json:"id"`
	DistanceKm float64 `json:"distanceKm"`
}
