package session

import (
	"errors"
	"fmt"
)

// Event is one user interaction routed to an Orchestrator.
type Event interface {
	Name() string
}

type (
	CardClicked       struct{ ID string }
	CardHovered       struct{ ID string }
	CardUnhovered     struct{}
	PinClicked        struct{ ID string }
	PinHovered        struct{ ID string }
	PinUnhovered      struct{}
	BackgroundClicked struct{}
	SearchChanged     struct{ Text string }
	CategoryChanged   struct{ ID string }
	FiltersCleared    struct{}
	// HighlightExpired is posted by the highlight timer, never by a client.
	HighlightExpired struct{ Gen uint64 }
)

func (CardClicked) Name() string       { return "card_clicked" }
func (CardHovered) Name() string       { return "card_hovered" }
func (CardUnhovered) Name() string     { return "card_unhovered" }
func (PinClicked) Name() string        { return "pin_clicked" }
func (PinHovered) Name() string        { return "pin_hovered" }
func (PinUnhovered) Name() string      { return "pin_unhovered" }
func (BackgroundClicked) Name() string { return "background_clicked" }
func (SearchChanged) Name() string     { return "search_changed" }
func (CategoryChanged) Name() string   { return "category_changed" }
func (FiltersCleared) Name() string    { return "filters_cleared" }
func (HighlightExpired) Name() string  { return "highlight_expired" }

var ErrUnknownEvent = errors.New("session: unknown event type")

// Payload is the wire form of a client event.
type Payload struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// DecodeEvent turns a client payload into an Event. Timer events are not
// accepted from clients.
func DecodeEvent(p Payload) (Event, error) {
	switch p.Type {
	case "card_clicked":
		return CardClicked{ID: p.ID}, nil
	case "card_hovered":
		return CardHovered{ID: p.ID}, nil
	case "card_unhovered":
		return CardUnhovered{}, nil
	case "pin_clicked":
		return PinClicked{ID: p.ID}, nil
	case "pin_hovered":
		return PinHovered{ID: p.ID}, nil
	case "pin_unhovered":
		return PinUnhovered{}, nil
	case "background_clicked":
		return BackgroundClicked{}, nil
	case "search_changed":
		return SearchChanged{Text: p.Text}, nil
	case "category_changed":
		return CategoryChanged{ID: p.ID}, nil
	case "filters_cleared":
		return FiltersCleared{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownEvent, p.Type)
}
