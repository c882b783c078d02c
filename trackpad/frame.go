package trackpad

import "github.com/lixenwraith/pointerd/vmath"

// TouchPhase mirrors the multi-touch driver's per-touch state machine
// (§4.2). The driver is an external collaborator (§6); this type is the
// distilled contract the smoother consumes from it.
type TouchPhase int

const (
	NotTouching TouchPhase = iota
	Hovering
	Making
	Touching
	Breaking
	Lingering
)

// IsActive reports whether phase counts toward "touching" (any phase
// other than NotTouching or Hovering).
func (p TouchPhase) IsActive() bool {
	return p != NotTouching && p != Hovering
}

// Touch is one finger's normalized position and phase within a frame.
type Touch struct {
	// Position is normalized to [0,1]x[0,1] over the trackpad surface.
	Position vmath.Point
	Phase    TouchPhase
}

// Frame is one sample of the multi-touch driver's data stream: the set
// of fingers present (possibly empty) at one instant.
type Frame struct {
	Touches []Touch
}

// touching reports whether any touch in the frame is active.
func (f Frame) touching() bool {
	for _, t := range f.Touches {
		if t.Phase.IsActive() {
			return true
		}
	}
	return false
}

// activeCount returns the number of active touches in the frame.
func (f Frame) activeCount() int {
	n := 0
	for _, t := range f.Touches {
		if t.Phase.IsActive() {
			n++
		}
	}
	return n
}

// centroid returns the arithmetic mean of all touch positions and
// whether the frame was non-empty.
func (f Frame) centroid() (vmath.Point, bool) {
	if len(f.Touches) == 0 {
		return vmath.Point{}, false
	}
	var sum vmath.Point
	for _, t := range f.Touches {
		sum.X += t.Position.X
		sum.Y += t.Position.Y
	}
	n := float64(len(f.Touches))
	return vmath.Point{X: sum.X / n, Y: sum.Y / n}, true
}
