// Package session hosts the orchestrator that keeps a museum list and a map
// in sync, and the in-memory store of per-client orchestrators.
package session

import (
	"sync"
	"time"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/directory"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/mapview"
	"muze-kasif/internal/metrics"
	"muze-kasif/internal/selection"
)

// ListView renders the ordered museum list.
type ListView interface {
	Render(Frame)
	ScrollIntoView(id string)
}

// MapView renders pins and animates the camera.
type MapView interface {
	ShowPins([]mapview.Pin)
	FlyTo(mapview.Camera)
}

// Frame is everything a list needs to draw one state.
type Frame struct {
	Category  string           `json:"category"`
	Query     string           `json:"query"`
	Visible   []catalog.Museum `json:"visible"`
	Selection selection.State  `json:"selection"`
	Pins      []mapview.Pin    `json:"pins"`
}

type options struct {
	clock     selection.Clock
	highlight time.Duration
}

type Option func(*options)

func WithClock(c selection.Clock) Option { return func(o *options) { o.clock = c } }

func WithHighlightDuration(d time.Duration) Option {
	return func(o *options) { o.highlight = d }
}

// Orchestrator owns the filter inputs, the visible list and the selection
// state for one client. Dispatch handles one event per call under a lock.
// Views are called while that lock is held and must not call Dispatch back
// synchronously.
type Orchestrator struct {
	mu      sync.Mutex
	data    *catalog.Dataset
	records []catalog.Museum
	list    ListView
	mapView MapView
	sel     *selection.Machine

	category string
	query    string
	visible  []catalog.Museum
	closed   bool
}

// New builds an orchestrator showing every museum and renders the first frame.
func New(data *catalog.Dataset, list ListView, mapView MapView, opts ...Option) *Orchestrator {
	o := &options{clock: selection.RealClock, highlight: selection.HighlightDuration}
	for _, f := range opts {
		f(o)
	}
	orc := &Orchestrator{
		data:     data,
		records:  data.Records(),
		list:     list,
		mapView:  mapView,
		category: catalog.AllCategory,
	}
	orc.sel = selection.NewMachine(
		selection.WithClock(o.clock),
		selection.WithHighlightDuration(o.highlight),
		selection.WithExpiryHandler(func(gen uint64) {
			orc.Dispatch(HighlightExpired{Gen: gen})
		}),
	)
	orc.mu.Lock()
	defer orc.mu.Unlock()
	orc.recompute()
	orc.render()
	return orc
}

// Dispatch applies ev and re-renders when anything changed. Unknown ids are
// ignored. It reports whether the state changed.
func (o *Orchestrator) Dispatch(ev Event) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	metrics.SessionEventsTotal.WithLabelValues(ev.Name()).Inc()
	changed := o.apply(ev)
	if changed {
		o.render()
	}
	logger.L().Debug("session_event", "event", ev.Name(), "changed", changed, "visible", len(o.visible))
	return changed
}

func (o *Orchestrator) apply(ev Event) bool {
	switch e := ev.(type) {
	case CardClicked:
		return o.choose(e.ID, false)
	case PinClicked:
		return o.choose(e.ID, true)
	case BackgroundClicked:
		return o.sel.ClearSelection()
	case CategoryChanged:
		cleared := o.sel.ClearSelection()
		if e.ID == o.category {
			return cleared
		}
		o.category = e.ID
		o.recompute()
		return true
	case SearchChanged:
		if e.Text == o.query {
			return false
		}
		o.query = e.Text
		o.recompute()
		return true
	case CardHovered:
		return o.hover(e.ID)
	case PinHovered:
		return o.hover(e.ID)
	case CardUnhovered, PinUnhovered:
		return o.sel.Unhover()
	case FiltersCleared:
		before := o.sel.State()
		o.sel.Reset()
		if o.query == "" && o.category == catalog.AllCategory {
			return before != selection.State{}
		}
		o.query = ""
		o.category = catalog.AllCategory
		o.recompute()
		return true
	case HighlightExpired:
		return o.sel.Expire(e.Gen)
	}
	return false
}

// choose selects and highlights id. A pin click also scrolls the list to the card.
func (o *Orchestrator) choose(id string, fromPin bool) bool {
	m, ok := o.data.ByID(id)
	if !ok {
		return false
	}
	if o.sel.Select(id) {
		o.mapView.FlyTo(mapview.FlyTo(m))
	}
	o.sel.Highlight(id)
	if fromPin {
		o.list.ScrollIntoView(id)
	}
	return true
}

func (o *Orchestrator) hover(id string) bool {
	if _, ok := o.data.ByID(id); !ok {
		return false
	}
	return o.sel.Hover(id)
}

func (o *Orchestrator) recompute() {
	o.visible = directory.ComputeVisible(o.records, o.category, o.query)
	metrics.VisibleRecomputeTotal.Inc()
}

func (o *Orchestrator) frame() Frame {
	st := o.sel.State()
	return Frame{
		Category:  o.category,
		Query:     o.query,
		Visible:   o.visible,
		Selection: st,
		Pins:      mapview.Pins(o.visible, o.lookup(st.Hovered), o.lookup(st.Selected)),
	}
}

func (o *Orchestrator) render() {
	f := o.frame()
	o.list.Render(f)
	o.mapView.ShowPins(f.Pins)
}

func (o *Orchestrator) lookup(id string) *catalog.Museum {
	if id == "" {
		return nil
	}
	m, ok := o.data.ByID(id)
	if !ok {
		return nil
	}
	return &m
}

// Snapshot returns the current frame. The visible slice is shared with past
// frames and must be treated as read-only.
func (o *Orchestrator) Snapshot() Frame {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frame()
}

// Close disarms the highlight timer; later events are ignored.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sel.Reset()
	o.closed = true
}
