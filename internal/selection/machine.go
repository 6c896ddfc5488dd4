// Package selection tracks which museum is selected, highlighted and hovered.
//
// Selected and hovered are plain values. Highlighted is transient: it clears
// itself HighlightDuration after being set. Each Highlight call bumps a
// generation counter and re-arms a single timer; the timer reports its
// generation back through the expiry handler and Expire ignores any
// generation that is no longer current. A superseded highlight therefore never
// clears a newer one, even if its timer had already fired.
//
// A Machine is not safe for concurrent use. Its owner serialises calls,
// including the ones triggered by the expiry handler.
package selection

import "time"

// HighlightDuration is how long a highlight pulse lasts.
const HighlightDuration = 1500 * time.Millisecond

type State struct {
	Selected    string `json:"selected,omitempty"`
	Highlighted string `json:"highlighted,omitempty"`
	Hovered     string `json:"hovered,omitempty"`
}

type Machine struct {
	state    State
	gen      uint64
	timer    Timer
	clock    Clock
	delay    time.Duration
	onExpire func(gen uint64)
}

type Option func(*Machine)

func WithClock(c Clock) Option { return func(m *Machine) { m.clock = c } }

func WithHighlightDuration(d time.Duration) Option { return func(m *Machine) { m.delay = d } }

// WithExpiryHandler sets the callback the highlight timer invokes. It runs on
// the timer's goroutine; the owner is expected to route it back into its own
// serialised turn and call Expire from there.
func WithExpiryHandler(f func(gen uint64)) Option { return func(m *Machine) { m.onExpire = f } }

func NewMachine(opts ...Option) *Machine {
	m := &Machine{clock: RealClock, delay: HighlightDuration}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Machine) State() State { return m.state }

// Generation is the id of the latest highlight.
func (m *Machine) Generation() uint64 { return m.gen }

// Select sets the selection. It reports whether the value changed.
func (m *Machine) Select(id string) bool {
	if m.state.Selected == id {
		return false
	}
	m.state.Selected = id
	return true
}

func (m *Machine) ClearSelection() bool { return m.Select("") }

func (m *Machine) Hover(id string) bool {
	if m.state.Hovered == id {
		return false
	}
	m.state.Hovered = id
	return true
}

func (m *Machine) Unhover() bool { return m.Hover("") }

// Highlight marks id and restarts the expiry timer. Any pending timer is
// stopped first so at most one is live. It returns the new generation.
func (m *Machine) Highlight(id string) uint64 {
	m.stopTimer()
	m.gen++
	gen := m.gen
	m.state.Highlighted = id
	if m.onExpire != nil {
		cb := m.onExpire
		m.timer = m.clock.AfterFunc(m.delay, func() { cb(gen) })
	}
	return gen
}

// Expire clears the highlight if gen is still the current generation.
func (m *Machine) Expire(gen uint64) bool {
	if gen != m.gen || m.state.Highlighted == "" {
		return false
	}
	m.state.Highlighted = ""
	m.timer = nil
	return true
}

// Reset clears every field and disarms the timer.
func (m *Machine) Reset() {
	m.stopTimer()
	m.gen++
	m.state = State{}
}

func (m *Machine) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
