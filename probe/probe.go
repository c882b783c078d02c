// Package probe implements the high-velocity probe of spec.md §4.10: it
// samples intermediate points along a fast raw-motion step so that an
// element the tick's single accessibility query would skip over still
// gets a chance at eligibility.
package probe

import (
	"math"
	"time"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/eligibility"
	"github.com/lixenwraith/pointerd/vmath"
)

const (
	minDistanceTouching = 12.0
	minDistanceGliding  = 18.0
	minSamples          = 3
	maxSamples          = 8
	sampleSpacing       = 35.0
)

// NeedsProbe reports whether this tick's raw step is fast enough to
// warrant sampling intermediate points, given that the current element
// is not already a candidate.
func NeedsProbe(currentIsCandidate bool, isGliding bool, previous, current vmath.Point) bool {
	if currentIsCandidate {
		return false
	}
	dist := current.Sub(previous).Magnitude()
	if isGliding {
		return dist >= minDistanceGliding
	}
	return dist >= minDistanceTouching
}

// Sample walks N evenly spaced interior points between previous and
// current, skipping any covered by a foreign overlay, and returns the
// first accessibility element that passes eligibility along with the
// sample point it was found at. Returns (nil, Point{}, false) if none
// of the samples qualify.
func Sample(
	previous, current vmath.Point,
	overlay collab.OverlayDetector,
	inspector collab.AccessibilityInspector,
	filter *eligibility.Filter,
	currentTarget *vmath.Rect,
	now time.Time,
) (*vmath.Rect, vmath.Point, bool) {
	dist := current.Sub(previous).Magnitude()
	n := int(math.Ceil(dist / sampleSpacing))
	if n < minSamples {
		n = minSamples
	}
	if n > maxSamples {
		n = maxSamples
	}

	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		p := vmath.Point{
			X: previous.X + (current.X-previous.X)*t,
			Y: previous.Y + (current.Y-previous.Y)*t,
		}

		if overlay != nil && overlay.IsKnownOverlayTopmost(p) {
			continue
		}

		info, ok := inspector.ElementInfoAt(p)
		if !ok {
			continue
		}
		if info.IsFilePickerPanel {
			continue
		}
		if currentTarget != nil && vmath.FramesEquivalent(info.Frame, *currentTarget) {
			continue
		}

		if rect := filter.Evaluate(info, true, p, now); rect != nil {
			r := *rect
			return &r, p, true
		}
	}
	return nil, vmath.Point{}, false
}
