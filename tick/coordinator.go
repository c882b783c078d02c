// Package tick implements the single dedicated tick thread described by
// spec.md §4.9 and §5: a steady-rate 500 Hz scheduler that drives the
// motion engine, the eligibility filter, and the high-velocity probe
// synchronously, and mirrors the result onto the OS cursor.
package tick

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/config"
	"github.com/lixenwraith/pointerd/corerun"
	"github.com/lixenwraith/pointerd/eligibility"
	"github.com/lixenwraith/pointerd/engine"
	"github.com/lixenwraith/pointerd/probe"
	"github.com/lixenwraith/pointerd/status"
	"github.com/lixenwraith/pointerd/trackpad"
	"github.com/lixenwraith/pointerd/vmath"
)

// tickInterval is the nominal scheduling period for 500 Hz (§4.9).
const tickInterval = 2 * time.Millisecond

// maxBehind caps how far the scheduler lets itself fall behind real time
// before resynchronizing the deadline, mirroring the teacher's clock
// scheduler catch-up cap.
const maxBehind = 4 * tickInterval

// Collaborators bundles the external-world dependencies §6 requires.
// Overlay may be nil if the daemon has no foreign-overlay list
// configured; the coordinator then never switches to hardware-cursor
// mode.
type Collaborators struct {
	Pointer    collab.PointerSource
	Cursor     collab.CursorSink
	Display    collab.DisplaySource
	Inspector  collab.AccessibilityInspector
	Overlay    collab.OverlayDetector
}

// Coordinator owns the tick thread. It is not safe for concurrent use
// from outside the goroutine it starts; the single-threaded contract of
// spec.md §4.3/§5 extends to the coordinator itself.
type Coordinator struct {
	engine   *engine.Engine
	smoother *trackpad.Smoother
	filter   *eligibility.Filter
	collab   Collaborators
	cfg      config.Config
	reg      *status.Registry

	wasTouching   bool
	hardwareMode  bool
	prevPreMagnet vmath.Point
	currentIsCand bool

	tickCount        atomic.Uint64
	ticksMetric      *atomic.Int64
	driftMicros      *status.AtomicFloat
	hardwareModeFlag *status.AtomicFloat

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// New creates a Coordinator. e and smoother must already be constructed
// (their lifetimes are independent of the coordinator's start/stop).
func New(e *engine.Engine, smoother *trackpad.Smoother, collaborators Collaborators, cfg config.Config, reg *status.Registry) *Coordinator {
	c := &Coordinator{
		engine:   e,
		smoother: smoother,
		filter:   eligibility.NewFilter(),
		collab:   collaborators,
		cfg:      cfg,
		reg:      reg,
		stopChan: make(chan struct{}),
	}
	if reg != nil {
		c.driftMicros = reg.Floats.Get(status.MetricTickDriftMicros)
		c.hardwareModeFlag = reg.Floats.Get(status.MetricHardwareMode)
		c.ticksMetric = reg.Ints.Get(status.MetricTicks)
	}
	e.SetCursorSink(collaborators.Cursor)
	return c
}

// Start launches the tick loop on a dedicated goroutine via corerun.Go,
// which guarantees the OS cursor is restored even if the loop panics
// (§5's "partial shutdown... must still restore the OS cursor").
func (c *Coordinator) Start() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.primeFromDisplays()
	c.wg.Add(1)
	corerun.Go(func() {
		defer c.wg.Done()
		c.loop()
	}, func(recovered any) {
		c.releaseCursor()
		slog.Error("tick loop crashed, OS cursor released", "panic", recovered)
	})
}

// Stop terminates the tick loop and releases the OS cursor and overlay
// state unconditionally (§5 cancellation contract).
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		if c.running.CompareAndSwap(true, false) {
			close(c.stopChan)
			c.wg.Wait()
			c.releaseCursor()
		}
	})
}

func (c *Coordinator) releaseCursor() {
	if c.collab.Cursor != nil {
		c.collab.Cursor.ShowCursor()
	}
}

// primeFromDisplays installs the initial desktop bounds and primes the
// engine at the physical pointer's current location (§4.3 "on daemon
// start").
func (c *Coordinator) primeFromDisplays() {
	if c.collab.Display != nil {
		bounds := unionRects(c.collab.Display.EnumerateDisplays())
		c.engine.UpdateDesktopBounds(bounds)
	}
	if c.collab.Pointer != nil {
		p := c.collab.Pointer.CurrentPointerLocation()
		c.engine.Prime(p)
		c.prevPreMagnet = p
	}
}

// unionRects returns the bounding union of rects, or a zero Rect if
// rects is empty.
func unionRects(rects []vmath.Rect) vmath.Rect {
	if len(rects) == 0 {
		return vmath.Rect{}
	}
	u := rects[0]
	for _, r := range rects[1:] {
		minX := minF(u.MinX(), r.MinX())
		minY := minF(u.MinY(), r.MinY())
		maxX := maxF(u.MaxX(), r.MaxX())
		maxY := maxF(u.MaxY(), r.MaxY())
		u = vmath.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
	}
	return u
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// loop runs the steady-rate scheduler (§4.9), grounded on the teacher
// clock scheduler's deadline-accumulation pattern but stripped of its
// pause/FSM machinery, which this domain has no use for.
func (c *Coordinator) loop() {
	lastTickTime := time.Now()
	nextDeadline := lastTickTime.Add(tickInterval)

	timer := time.NewTimer(tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-timer.C:
		}

		now := time.Now()
		dt := now.Sub(lastTickTime)
		if dt < tickInterval {
			dt = tickInterval
		}
		lastTickTime = now

		runAgain := c.tick(now, dt)

		nextDeadline = nextDeadline.Add(tickInterval)
		if now.Sub(nextDeadline) > maxBehind {
			nextDeadline = now.Add(tickInterval)
		}
		c.tickCount.Add(1)
		if c.ticksMetric != nil {
			c.ticksMetric.Add(1)
		}
		if c.driftMicros != nil {
			c.driftMicros.Set(float64(now.Sub(nextDeadline).Microseconds()))
		}

		if !runAgain {
			// Idle: sleep a full interval rather than busy-polling while
			// nothing is touching, gliding, or animating (§4.9 step 8).
			nextDeadline = time.Now().Add(tickInterval)
		}

		sleep := nextDeadline.Sub(time.Now())
		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}

// tick runs spec.md §4.9's eight steps once. It returns whether the loop
// should keep running at full rate (step 8's run condition).
func (c *Coordinator) tick(now time.Time, dt time.Duration) bool {
	seconds := dt.Seconds()

	snap := c.smoother.Snapshot()
	// Drain the touch-state-change queue on the tick thread even though
	// step 4 below derives touching/wasTouching from the snapshot
	// directly: draining is what keeps the single-consumer queue from
	// wrapping under sustained multi-finger chatter (§5).
	_ = c.smoother.DrainTouchEvents()

	var p vmath.Point
	if c.collab.Pointer != nil {
		p = c.collab.Pointer.CurrentPointerLocation()
	}

	touching := snap.Touching
	if touching && !c.wasTouching {
		c.engine.BeginTouch(p)
	}
	if touching {
		vel := snap.Velocity
		c.engine.HandleTouch(p, seconds, &vel)
	} else {
		suppress := snap.ShouldSuppressGlide(now)
		c.engine.HandleNoTouch(p, seconds, suppress, c.wasTouching)
	}
	c.wasTouching = touching

	st := c.engine.State()
	mag := c.engine.Magnet()

	candidate := c.queryEligibility(st, mag, now)
	c.engine.UpdateMagneticTarget(candidate)
	c.currentIsCand = candidate != nil
	c.prevPreMagnet = st.PreMagnetPosition

	c.applyPresentationMode(st.PreMagnetPosition, now)

	overlayAnimating := false // no overlay renderer in this module (§1 non-goal)
	return touching || c.engine.State().IsGliding || overlayAnimating
}

// queryEligibility implements step 5: query the accessibility inspector
// at the engine's raw position, run the eligibility filter, and fall
// back to the high-velocity probe when the step was fast and the
// current element did not already qualify (§4.10).
func (c *Coordinator) queryEligibility(st engine.State, mag engine.MagnetState, now time.Time) *vmath.Rect {
	if c.collab.Inspector == nil {
		return nil
	}

	raw := st.PreMagnetPosition
	info, hasElement := c.collab.Inspector.ElementInfoAt(raw)
	result := c.filter.Evaluate(info, hasElement, raw, now)

	if probe.NeedsProbe(result != nil, st.IsGliding, c.prevPreMagnet, raw) {
		if found, _, ok := probe.Sample(c.prevPreMagnet, raw, c.collab.Overlay, c.collab.Inspector, c.filter, mag.CurrentTarget, now); ok {
			return found
		}
	}

	return result
}

// applyPresentationMode implements step 7: switch between hardware-
// cursor passthrough and overlay mode depending on whether a foreign
// overlay owner is topmost at the raw point.
func (c *Coordinator) applyPresentationMode(rawPoint vmath.Point, now time.Time) {
	foreignOverlayTopmost := c.collab.Overlay != nil && c.collab.Overlay.IsKnownOverlayTopmost(rawPoint)

	if foreignOverlayTopmost {
		if !c.hardwareMode {
			c.hardwareMode = true
			c.setHardwareModeMetric(1)
		}
		pos := c.engine.State().Position
		if c.collab.Cursor != nil {
			c.collab.Cursor.ShowCursor()
			_ = c.collab.Cursor.WarpCursor(pos)
		}
		c.engine.Prime(pos)
		c.engine.SetMagnetismEnabled(false)
		return
	}

	if c.hardwareMode {
		c.hardwareMode = false
		c.setHardwareModeMetric(0)
		c.engine.SetMagnetismEnabled(c.cfg.MagnetismEnabled)
	}
	if c.collab.Cursor != nil {
		c.collab.Cursor.HideCursor()
		_ = c.collab.Cursor.WarpCursor(c.engine.State().Position)
	}
}

func (c *Coordinator) setHardwareModeMetric(v float64) {
	if c.hardwareModeFlag != nil {
		c.hardwareModeFlag.Set(v)
	}
}
