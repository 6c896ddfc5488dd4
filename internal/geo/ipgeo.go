package geo

import (
	"errors"
	"net"

	"github.com/oschwald/geoip2-golang"
)

var ErrNoLocation = errors.New("geo: no location for address")

// IPLocator resolves client IPs to coordinates with a GeoLite2/GeoIP2 City database.
type IPLocator struct {
	db *geoip2.Reader
}

// OpenIPLocator opens an mmdb file. The reader memory-maps the file and is
// safe for concurrent use.
func OpenIPLocator(path string) (*IPLocator, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &IPLocator{db: db}, nil
}

// Locate returns the city-level coordinate of ip.
func (l *IPLocator) Locate(ip string) (Point, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return Point{}, ErrNoLocation
	}
	rec, err := l.db.City(addr)
	if err != nil {
		return Point{}, err
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return Point{}, ErrNoLocation
	}
	return Point{Lat: rec.Location.Latitude, Lng: rec.Location.Longitude}, nil
}

func (l *IPLocator) Close() error { return l.db.Close() }
