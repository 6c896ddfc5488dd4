package mapview

import "muze-kasif/internal/catalog"

// Popup is the content of a pin's click popup. Empty fields are not shown.
type Popup struct {
	Name          string  `json:"name"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	StatusLabel   string  `json:"statusLabel"`
	District      string  `json:"district"`
	FreeRule      string  `json:"freeRule,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	ReviewLabel   string  `json:"reviewLabel,omitempty"`
	DirectionsURL string  `json:"directionsUrl"`
	WebsiteURL    string  `json:"websiteUrl,omitempty"`
}

func PopupFor(m catalog.Museum) Popup {
	p := Popup{
		Name:          m.Name,
		ImageURL:      m.ImageURL,
		StatusLabel:   PopupStatusLabel(m.Status),
		District:      m.Location.District,
		FreeRule:      m.FreeRule,
		DirectionsURL: DirectionsURL(m.Location.Lat, m.Location.Lng),
		WebsiteURL:    m.WebsiteURL,
	}
	if m.HasRating() {
		p.Rating = m.Rating
		p.ReviewLabel = catalog.FormatReviewCount(m.ReviewCount)
	}
	return p
}

// PopupStatusLabel prefixes the status label with a colored dot.
func PopupStatusLabel(s catalog.Status) string {
	switch s {
	case catalog.StatusOpen:
		return "🟢 Açık"
	case catalog.StatusClosed:
		return "🔴 Kapalı"
	case catalog.StatusRestoration:
		return "🟠 Restorasyonda"
	}
	return ""
}
