// Package engine implements the pointer motion engine and magnetism
// state machine: the real-time control loop described by spec.md §3-§4.
// Engine is a singleton, process-lived, single-threaded object — every
// exported method must be called from the tick thread only (§4.3: "No
// operation is re-entrant. All must be called from a single thread").
package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/config"
	"github.com/lixenwraith/pointerd/status"
	"github.com/lixenwraith/pointerd/vmath"
)

// VelocitySource records which stream supplied the engine's current
// velocity (§3).
type VelocitySource int

const (
	SourcePointer VelocitySource = iota
	SourceTrackpad
)

// State is the raw/virtual pointer state described in spec.md §3.
type State struct {
	Position                   vmath.Point
	PreviousPosition           vmath.Point
	PreMagnetPosition          vmath.Point
	PreviousPreMagnetPosition  vmath.Point
	Velocity                   vmath.Vec2
	LastInputDelta             vmath.Vec2
	IsGliding                  bool
	VelocitySource             VelocitySource
}

// MagnetState is the magnetism lock/candidate machine described in
// spec.md §3.
type MagnetState struct {
	CurrentTarget *vmath.Rect
	LockedTarget  *vmath.Rect
	IsLocked      bool

	PendingSwitchTarget     *vmath.Rect
	PendingSwitchConfidence int

	LastSeenCandidate    *vmath.Rect
	LastSeenCandidateTTL int

	LockStrainCounter int
	LockStrainTarget  *vmath.Rect

	MagnetismEnabled bool
}

// candidateTTL is the number of ticks a lost eligibility candidate is
// remembered for before being cleared (§3, §4.6).
const candidateTTL = 6

// Engine is the motion engine: the real-time control loop that owns
// State and MagnetState and exposes the operations of spec.md §4.3.
type Engine struct {
	cfg    config.Config
	cursor collab.CursorSink // optional; nil disables intra-frame warps

	state  State
	magnet MagnetState

	desktopBounds *vmath.Rect

	lastPhysicalMousePosition vmath.Point
	hasLastPhysicalMouse      bool
	rawFreshThisFrame         bool

	metrics engineMetrics
}

type engineMetrics struct {
	locks             *status.AtomicFloat
	unlocks           *status.AtomicFloat
	strainForceUnlock *status.AtomicFloat
	glideStarts       *status.AtomicFloat
	snaps             *status.AtomicFloat
	lockState         *atomic.Bool
	velocitySource    *status.AtomicString
}

// New creates an Engine with cfg as its immutable configuration
// snapshot (§9). reg may be nil; when non-nil the engine registers and
// updates the metrics named in the status package.
func New(cfg config.Config, reg *status.Registry) *Engine {
	e := &Engine{
		cfg:    cfg,
		magnet: MagnetState{MagnetismEnabled: cfg.MagnetismEnabled},
	}
	if reg != nil {
		e.metrics = engineMetrics{
			locks:             reg.Floats.Get(status.MetricLocks),
			unlocks:           reg.Floats.Get(status.MetricUnlocks),
			strainForceUnlock: reg.Floats.Get(status.MetricStrainForceUnlock),
			glideStarts:       reg.Floats.Get(status.MetricGlideStarts),
			snaps:             reg.Floats.Get(status.MetricSnaps),
			lockState:         reg.Bools.Get(status.MetricLockState),
			velocitySource:    reg.Strings.Get(status.MetricVelocitySource),
		}
	}
	return e
}

// SetCursorSink installs the OS cursor warp hook used for the
// intra-frame warp of §4.4 step 10. It is optional: a tick coordinator
// that always warps at tick end does not need it.
func (e *Engine) SetCursorSink(sink collab.CursorSink) {
	e.cursor = sink
}

// State returns a copy of the engine's public pointer state.
func (e *Engine) State() State {
	return e.state
}

// Magnet returns a copy of the engine's magnetism state.
func (e *Engine) Magnet() MagnetState {
	return e.magnet
}

// DesktopBounds returns the current desktop bounds, or nil if unset.
func (e *Engine) DesktopBounds() *vmath.Rect {
	return e.desktopBounds
}

// clampToBounds clamps p into desktopBounds, or returns p unchanged when
// bounds are unset (§3 invariant).
func (e *Engine) clampToBounds(p vmath.Point) vmath.Point {
	if e.desktopBounds == nil {
		return p
	}
	b := *e.desktopBounds
	return vmath.Point{
		X: vmath.Clamp(p.X, b.MinX(), b.MaxX()),
		Y: vmath.Clamp(p.Y, b.MinY(), b.MaxY()),
	}
}

func (e *Engine) clampPositions() {
	e.state.Position = e.clampToBounds(e.state.Position)
	e.state.PreMagnetPosition = e.clampToBounds(e.state.PreMagnetPosition)
}

// warp mirrors p onto the OS cursor if a sink is installed. Failures are
// logged by the sink implementation and never abort the tick (§7).
func (e *Engine) warp(p vmath.Point) {
	if e.cursor != nil {
		_ = e.cursor.WarpCursor(p)
	}
}

func (e *Engine) addFloat(m *status.AtomicFloat, delta float64) {
	if m != nil {
		m.Add(delta)
	}
}

func (e *Engine) setLockState(locked bool) {
	if e.metrics.lockState != nil {
		e.metrics.lockState.Store(locked)
	}
}

func (e *Engine) setVelocitySource(source VelocitySource) {
	if e.metrics.velocitySource == nil {
		return
	}
	name := "pointer"
	if source == SourceTrackpad {
		name = "trackpad"
	}
	e.metrics.velocitySource.Store(name)
}
