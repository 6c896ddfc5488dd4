package mapview

import (
	"strconv"
	"time"

	"muze-kasif/internal/catalog"
)

const (
	DefaultLat  = 41.0282
	DefaultLng  = 28.9784
	DefaultZoom = 12

	FocusZoom   = 16
	FlyDuration = 1500 * time.Millisecond
)

// Camera is a map viewport. Duration is zero for an instant jump.
type Camera struct {
	Lat      float64       `json:"lat"`
	Lng      float64       `json:"lng"`
	Zoom     int           `json:"zoom"`
	Duration time.Duration `json:"duration"`
}

// DefaultCamera frames central Istanbul.
func DefaultCamera() Camera {
	return Camera{Lat: DefaultLat, Lng: DefaultLng, Zoom: DefaultZoom}
}

// FlyTo is the transition played when m becomes the selection.
func FlyTo(m catalog.Museum) Camera {
	return Camera{Lat: m.Location.Lat, Lng: m.Location.Lng, Zoom: FocusZoom, Duration: FlyDuration}
}

// DirectionsURL links to turn-by-turn directions to a coordinate.
func DirectionsURL(lat, lng float64) string {
	return "https://www.google.com/maps/dir/?api=1&destination=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
