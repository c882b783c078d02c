package eligibility

import (
	"testing"
	"time"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestButtonQualifies(t *testing.T) {
	f := NewFilter()
	info := collab.ElementInfo{
		Frame: vmath.Rect{X: 100, Y: 100, W: 80, H: 30},
		Role:  "AXButton",
	}
	got := f.Evaluate(info, true, vmath.Point{X: 140, Y: 115}, time.Unix(0, 0))
	require.NotNil(t, got)
	assert.Equal(t, info.Frame, *got)
}

func TestFilePickerPanelRejectedAndResetsLinger(t *testing.T) {
	f := NewFilter()
	info := collab.ElementInfo{
		Frame:             vmath.Rect{X: 0, Y: 0, W: 500, H: 500},
		IsFilePickerPanel: true,
	}
	got := f.Evaluate(info, true, vmath.Point{X: 10, Y: 10}, time.Unix(0, 0))
	assert.Nil(t, got)
	assert.Nil(t, f.lastQualifying)
}

func TestIgnoredActionRejected(t *testing.T) {
	f := NewFilter()
	info := collab.ElementInfo{
		Frame:   vmath.Rect{X: 0, Y: 0, W: 80, H: 30},
		Role:    "AXButton",
		Actions: map[string]bool{"AXScrollToVisible": true},
	}
	got := f.Evaluate(info, true, vmath.Point{X: 10, Y: 10}, time.Unix(0, 0))
	assert.Nil(t, got)
}

func TestLingerReemitsWithinWindow(t *testing.T) {
	f := NewFilter()
	base := time.Unix(0, 0)
	info := collab.ElementInfo{
		Frame: vmath.Rect{X: 100, Y: 100, W: 80, H: 30},
		Role:  "AXButton",
	}
	got := f.Evaluate(info, true, vmath.Point{X: 140, Y: 115}, base)
	require.NotNil(t, got)

	// No element this tick, but within 60ms and inside padded frame.
	got = f.Evaluate(collab.ElementInfo{}, false, vmath.Point{X: 140, Y: 115}, base.Add(30*time.Millisecond))
	assert.NotNil(t, got)

	// Past the linger window.
	got = f.Evaluate(collab.ElementInfo{}, false, vmath.Point{X: 140, Y: 115}, base.Add(61*time.Millisecond))
	assert.Nil(t, got)
}

func TestExtremeAspectRejected(t *testing.T) {
	f := NewFilter()
	info := collab.ElementInfo{
		Frame: vmath.Rect{X: 0, Y: 0, W: 400, H: 10},
		Role:  "AXButton",
	}
	got := f.Evaluate(info, true, vmath.Point{X: 10, Y: 5}, time.Unix(0, 0))
	assert.Nil(t, got)
}

func TestProximityGateRejectsFarPoint(t *testing.T) {
	f := NewFilter()
	info := collab.ElementInfo{
		Frame: vmath.Rect{X: 1000, Y: 1000, W: 80, H: 30},
		Role:  "AXButton",
	}
	got := f.Evaluate(info, true, vmath.Point{X: 0, Y: 0}, time.Unix(0, 0))
	assert.Nil(t, got)
}
