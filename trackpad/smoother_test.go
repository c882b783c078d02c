package trackpad

import (
	"testing"
	"time"

	"github.com/lixenwraith/pointerd/events"
	"github.com/lixenwraith/pointerd/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchFrame(x, y float64) Frame {
	return Frame{Touches: []Touch{{Position: vmath.Point{X: x, Y: y}, Phase: Touching}}}
}

func TestSmootherTouchStateEdgePosted(t *testing.T) {
	q := events.NewQueue()
	s := NewSmoother(q)

	base := time.Unix(0, 0)
	s.ingest(touchFrame(0.5, 0.5), base, 2*time.Millisecond)

	got := q.Drain()
	require.Len(t, got, 1)
	assert.True(t, got[0].Touching)

	// No further transition on a second touching frame.
	s.ingest(touchFrame(0.51, 0.5), base.Add(2*time.Millisecond), 2*time.Millisecond)
	assert.Empty(t, q.Drain())

	s.ingest(Frame{}, base.Add(4*time.Millisecond), 2*time.Millisecond)
	got = q.Drain()
	require.Len(t, got, 1)
	assert.False(t, got[0].Touching)
}

func TestSmootherVelocitySmoothing(t *testing.T) {
	q := events.NewQueue()
	s := NewSmoother(q)
	base := time.Unix(0, 0)

	s.ingest(touchFrame(0.0, 0.0), base, 2*time.Millisecond)
	assert.Equal(t, vmath.Vec2{}, s.Snapshot().Velocity, "first frame has no prior centroid")

	s.ingest(touchFrame(0.1, 0.0), base.Add(2*time.Millisecond), 2*time.Millisecond)
	snap := s.Snapshot()
	// raw = 0.1 / 0.002 = 50 units/sec; smoothed = 0*(0.65) + 50*0.35 = 17.5
	assert.InDelta(t, 17.5, snap.Velocity.DX, 1e-6)
}

func TestSmootherMultiFingerSuppression(t *testing.T) {
	q := events.NewQueue()
	s := NewSmoother(q)
	base := time.Unix(0, 0)

	twoFingers := Frame{Touches: []Touch{
		{Position: vmath.Point{X: 0.1, Y: 0.1}, Phase: Touching},
		{Position: vmath.Point{X: 0.2, Y: 0.2}, Phase: Touching},
	}}
	s.ingest(twoFingers, base, 2*time.Millisecond)

	snap := s.Snapshot()
	assert.True(t, snap.ShouldSuppressGlide(base.Add(100*time.Millisecond)))
	assert.False(t, snap.ShouldSuppressGlide(base.Add(151*time.Millisecond)))
}
