// Package catalog holds the museum records and the fixed category list. A
// Dataset is built once at startup and never mutated afterwards.
package catalog

// Status is the opening state of a museum.
type Status string

const (
	StatusOpen        Status = "Open"
	StatusRestoration Status = "Restoration"
	StatusClosed      Status = "Closed"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusOpen, StatusRestoration, StatusClosed}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusRestoration, StatusClosed:
		return true
	}
	return false
}

type Location struct {
	District string  `json:"district" yaml:"district"`
	Lat      float64 `json:"lat" yaml:"lat"`
	Lng      float64 `json:"lng" yaml:"lng"`
}

// Museum is one directory record. Zero values of the optional fields mean
// "not shown": empty strings, a zero rating.
type Museum struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Status      Status   `json:"status" yaml:"status"`
	Location    Location `json:"location" yaml:"location"`
	FreeRule    string   `json:"freeRule,omitempty" yaml:"freeRule,omitempty"`
	Rating      float64  `json:"rating,omitempty" yaml:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty" yaml:"reviewCount,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	WebsiteURL  string   `json:"websiteUrl,omitempty" yaml:"websiteUrl,omitempty"`
	ImageFile   string   `json:"imageFile,omitempty" yaml:"imageFile,omitempty"`
}

// HasRating reports whether a rating should be displayed.
func (m Museum) HasRating() bool { return m.Rating > 0 }
