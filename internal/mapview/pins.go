// Package mapview decides what the map shows: which pins, with which marker
// icons and popups, and where the camera flies when the selection changes.
package mapview

import "muze-kasif/internal/catalog"

// Narrow picks the records to pin. A hovered record wins over a selected one,
// which wins over the full visible list.
func Narrow(visible []catalog.Museum, hovered, selected *catalog.Museum) []catalog.Museum {
	switch {
	case hovered != nil:
		return []catalog.Museum{*hovered}
	case selected != nil:
		return []catalog.Museum{*selected}
	}
	return visible
}

// Pin is one marker as handed to the map widget.
type Pin struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Icon  Icon    `json:"icon"`
	Popup Popup   `json:"popup"`
}

func PinFor(m catalog.Museum) Pin {
	return Pin{
		ID:    m.ID,
		Name:  m.Name,
		Lat:   m.Location.Lat,
		Lng:   m.Location.Lng,
		Icon:  MarkerIcon(m.Status),
		Popup: PopupFor(m),
	}
}

// Pins narrows and converts in one step.
func Pins(visible []catalog.Museum, hovered, selected *catalog.Museum) []Pin {
	ms := Narrow(visible, hovered, selected)
	out := make([]Pin, len(ms))
	for i, m := range ms {
		out[i] = PinFor(m)
	}
	return out
}
