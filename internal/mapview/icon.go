package mapview

import "muze-kasif/internal/catalog"

const (
	markerBaseURL = "https://raw.githubusercontent.com/pointhi/leaflet-color-markers/master/img/marker-icon-2x-"
	shadowURL     = "https://cdnjs.cloudflare.com/ajax/libs/leaflet/1.9.4/images/marker-shadow.png"
)

type Icon struct {
	Color       string `json:"color"`
	URL         string `json:"url"`
	ShadowURL   string `json:"shadowUrl"`
	Size        [2]int `json:"size"`
	Anchor      [2]int `json:"anchor"`
	PopupAnchor [2]int `json:"popupAnchor"`
	ShadowSize  [2]int `json:"shadowSize"`
}

// MarkerColor maps a status to a marker color; unknown statuses are blue.
func MarkerColor(s catalog.Status) string {
	switch s {
	case catalog.StatusOpen:
		return "green"
	case catalog.StatusClosed:
		return "red"
	case catalog.StatusRestoration:
		return "orange"
	}
	return "blue"
}

func MarkerIcon(s catalog.Status) Icon {
	c := MarkerColor(s)
	return Icon{
		Color:       c,
		URL:         markerBaseURL + c + ".png",
		ShadowURL:   shadowURL,
		Size:        [2]int{25, 41},
		Anchor:      [2]int{12, 41},
		PopupAnchor: [2]int{1, -34},
		ShadowSize:  [2]int{41, 41},
	}
}
