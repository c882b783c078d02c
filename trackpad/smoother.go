package trackpad

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pointerd/events"
	"github.com/lixenwraith/pointerd/vmath"
)

// alpha is the exponential smoothing factor for velocity (§4.2).
const alpha = 0.35

// multiFingerSuppressWindow is how long shouldSuppressGlide() stays true
// after a frame carries more than one active touch.
const multiFingerSuppressWindow = 150 * time.Millisecond

// minFrameDT is the floor applied to the per-frame delta so a dropped or
// bursty frame cannot produce an unbounded velocity spike.
const minFrameDT = 1.0 / 500

// Snapshot is the value-type view of smoother state the tick thread
// reads once per tick (§5: "the tick thread reads a value-type snapshot
// per tick").
type Snapshot struct {
	Touching      bool
	Centroid      vmath.Point
	Velocity      vmath.Vec2 // smoothed, normalized units/sec
	SuppressUntil time.Time
}

// ShouldSuppressGlide reports whether glide should be suppressed at now,
// per the multi-finger suppression deadline.
func (s Snapshot) ShouldSuppressGlide(now time.Time) bool {
	return now.Before(s.SuppressUntil)
}

// Smoother consumes a lazy stream of touch frames on its own goroutine
// and publishes a Snapshot the tick thread reads without blocking.
//
// Internal fields below this comment are single-writer: only the
// goroutine running Consume touches them. The published snapshot is the
// only cross-goroutine communication besides the touch-state-change
// queue (§5).
type Smoother struct {
	snapshot atomic.Pointer[Snapshot]
	queue    *events.Queue

	hasPrev      bool
	wasTouching  bool
	prevCentroid vmath.Point
	smoothedVel  vmath.Vec2
	suppressUntil time.Time
}

// NewSmoother creates a smoother that posts touch-state transitions to
// queue.
func NewSmoother(queue *events.Queue) *Smoother {
	s := &Smoother{queue: queue}
	s.snapshot.Store(&Snapshot{})
	return s
}

// Snapshot returns the most recently published state. Safe to call from
// any goroutine; called once per tick by the tick thread.
func (s *Smoother) Snapshot() Snapshot {
	return *s.snapshot.Load()
}

// DrainTouchEvents returns all touch-state transitions queued since the
// last drain, in FIFO order. Safe to call only from the tick thread, the
// queue's single consumer (§5).
func (s *Smoother) DrainTouchEvents() []events.TouchStateEvent {
	return s.queue.Drain()
}

// Consume runs the smoother's frame-ingestion loop until stop is closed
// or frames is closed. It is meant to be launched via corerun.Go from a
// single asynchronous consumer task (§5).
func (s *Smoother) Consume(stop <-chan struct{}, frames <-chan Frame, now func() time.Time) {
	lastSample := now()
	for {
		select {
		case <-stop:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			t := now()
			s.ingest(f, t, t.Sub(lastSample))
			lastSample = t
		}
	}
}

// ingest applies one frame's worth of §4.2 logic and publishes a new
// snapshot.
func (s *Smoother) ingest(f Frame, now time.Time, dt time.Duration) {
	touching := f.touching()
	if touching != s.wasTouching {
		s.queue.Push(events.TouchStateEvent{Touching: touching})
		s.wasTouching = touching
	}

	centroid, nonEmpty := f.centroid()

	var raw vmath.Vec2
	if nonEmpty && s.hasPrev {
		seconds := dt.Seconds()
		if seconds < minFrameDT {
			seconds = minFrameDT
		}
		raw = centroid.Sub(s.prevCentroid).Scale(1 / seconds)
	}

	s.smoothedVel = s.smoothedVel.Scale(1 - alpha).Add(raw.Scale(alpha))

	if nonEmpty {
		s.prevCentroid = centroid
		s.hasPrev = true
	} else {
		// No finger present: the next touch starts a fresh baseline
		// rather than computing a velocity against a stale centroid.
		s.hasPrev = false
	}

	if f.activeCount() > 1 {
		s.suppressUntil = now.Add(multiFingerSuppressWindow)
	}

	snap := Snapshot{
		Touching:      touching,
		Centroid:      centroid,
		Velocity:      s.smoothedVel,
		SuppressUntil: s.suppressUntil,
	}
	s.snapshot.Store(&snap)
}
