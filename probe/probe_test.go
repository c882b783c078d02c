package probe

import (
	"testing"
	"time"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/eligibility"
	"github.com/lixenwraith/pointerd/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsProbe(t *testing.T) {
	cases := []struct {
		name        string
		isCandidate bool
		isGliding   bool
		previous    vmath.Point
		current     vmath.Point
		want        bool
	}{
		{"already a candidate, skip regardless of distance", true, false, vmath.Point{}, vmath.Point{X: 500}, false},
		{"touching, below threshold", false, false, vmath.Point{}, vmath.Point{X: 10}, false},
		{"touching, at threshold", false, false, vmath.Point{}, vmath.Point{X: 12}, true},
		{"gliding, below gliding threshold", false, true, vmath.Point{}, vmath.Point{X: 15}, false},
		{"gliding, at gliding threshold", false, true, vmath.Point{}, vmath.Point{X: 18}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NeedsProbe(c.isCandidate, c.isGliding, c.previous, c.current))
		})
	}
}

type pointInspector struct {
	at map[[2]int]collab.ElementInfo
}

func (p pointInspector) ElementInfoAt(pt vmath.Point) (collab.ElementInfo, bool) {
	info, ok := p.at[[2]int{int(pt.X), int(pt.Y)}]
	return info, ok
}

type noOverlay struct{}

func (noOverlay) IsKnownOverlayTopmost(vmath.Point) bool { return false }

type alwaysOverlay struct{}

func (alwaysOverlay) IsKnownOverlayTopmost(vmath.Point) bool { return true }

// A 120px horizontal step produces exactly 4 evenly-spaced interior
// samples at x = 124, 148, 172, 196 (y held at 100 throughout).
var (
	probeFrom = vmath.Point{X: 100, Y: 100}
	probeTo   = vmath.Point{X: 220, Y: 100}
	button    = vmath.Rect{X: 290, Y: 90, W: 80, H: 30}
)

func TestSampleFindsQualifyingInteriorPoint(t *testing.T) {
	filter := eligibility.NewFilter()
	inspector := pointInspector{
		at: map[[2]int]collab.ElementInfo{
			{172, 100}: {Frame: button, Role: "AXButton"},
		},
	}

	found, at, ok := Sample(probeFrom, probeTo, noOverlay{}, inspector, filter, nil, time.Unix(0, 0))
	require.True(t, ok)
	assert.Equal(t, button, *found)
	assert.Equal(t, vmath.Point{X: 172, Y: 100}, at)
}

func TestSampleSkipsPointsCoveredByOverlay(t *testing.T) {
	filter := eligibility.NewFilter()
	inspector := pointInspector{
		at: map[[2]int]collab.ElementInfo{
			{172, 100}: {Frame: button, Role: "AXButton"},
		},
	}

	_, _, ok := Sample(probeFrom, probeTo, alwaysOverlay{}, inspector, filter, nil, time.Unix(0, 0))
	assert.False(t, ok)
}

func TestSampleSkipsFilePickerPanel(t *testing.T) {
	filter := eligibility.NewFilter()
	inspector := pointInspector{
		at: map[[2]int]collab.ElementInfo{
			{172, 100}: {Frame: button, Role: "AXButton", IsFilePickerPanel: true},
		},
	}

	_, _, ok := Sample(probeFrom, probeTo, noOverlay{}, inspector, filter, nil, time.Unix(0, 0))
	assert.False(t, ok)
}

func TestSampleSkipsFrameEquivalentToCurrentTarget(t *testing.T) {
	filter := eligibility.NewFilter()
	inspector := pointInspector{
		at: map[[2]int]collab.ElementInfo{
			{172, 100}: {Frame: button, Role: "AXButton"},
		},
	}

	_, _, ok := Sample(probeFrom, probeTo, noOverlay{}, inspector, filter, &button, time.Unix(0, 0))
	assert.False(t, ok)
}

func TestSampleReturnsFalseWhenNoSampleQualifies(t *testing.T) {
	filter := eligibility.NewFilter()
	inspector := pointInspector{at: map[[2]int]collab.ElementInfo{}}

	_, _, ok := Sample(probeFrom, probeTo, noOverlay{}, inspector, filter, nil, time.Unix(0, 0))
	assert.False(t, ok)
}
