package session

import (
	"slices"
	"sync"

	"muze-kasif/internal/mapview"
)

// Recorder is a headless ListView and MapView. It keeps the latest frame and
// pins plus the scroll and camera requests, so a remote client can poll them.
// Scroll requests queue until Poll or TakeScrolls drains them.
type Recorder struct {
	mu      sync.Mutex
	frame   Frame
	pins    []mapview.Pin
	camera  mapview.Camera
	flights int
	scrolls []string
	renders int
}

func NewRecorder() *Recorder {
	return &Recorder{camera: mapview.DefaultCamera()}
}

func (r *Recorder) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = f
	r.renders++
}

func (r *Recorder) ScrollIntoView(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrolls = append(r.scrolls, id)
}

func (r *Recorder) ShowPins(p []mapview.Pin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins = p
}

func (r *Recorder) FlyTo(c mapview.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = c
	r.flights++
}

// View is a point-in-time copy of what the recorder has seen.
type View struct {
	Frame   Frame          `json:"frame"`
	Pins    []mapview.Pin  `json:"pins"`
	Camera  mapview.Camera `json:"camera"`
	Flights int            `json:"flights"`
	Scrolls []string       `json:"scrolls"`
	Renders int            `json:"renders"`
}

func (r *Recorder) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return View{
		Frame:   r.frame,
		Pins:    slices.Clone(r.pins),
		Camera:  r.camera,
		Flights: r.flights,
		Scrolls: slices.Clone(r.scrolls),
		Renders: r.renders,
	}
}

// Poll is View with the scroll requests drained, so each request reaches a
// polling client once.
func (r *Recorder) Poll() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := View{
		Frame:   r.frame,
		Pins:    slices.Clone(r.pins),
		Camera:  r.camera,
		Flights: r.flights,
		Scrolls: r.scrolls,
		Renders: r.renders,
	}
	r.scrolls = nil
	return v
}

// TakeScrolls returns and clears pending scroll requests.
func (r *Recorder) TakeScrolls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.scrolls
	r.scrolls = nil
	return out
}
