package engine

import "github.com/lixenwraith/pointerd/vmath"

const (
	// nominalDesktopWidth/Height are the fallback conversion basis for
	// trackpad normalized velocity when no display topology has been
	// reported yet (§4.4 step 6; see DESIGN.md for the rationale).
	nominalDesktopWidth  = 1920
	nominalDesktopHeight = 1080

	// intraFrameWarpRadiusFactor/Speed gate the intra-frame OS warp of
	// §4.4 step 10, applied only while closely tracking a target slowly.
	intraFrameWarpRadiusFactor = 1.15
	intraFrameWarpMaxSpeed     = 1500
)

// Prime resets the engine to a known pointer position, as on daemon
// start or after a multi-monitor reconfiguration that invalidates the
// previous frame of reference (§4.3).
func (e *Engine) Prime(p vmath.Point) {
	clamped := e.clampToBounds(p)
	e.state = State{
		Position:                  clamped,
		PreviousPosition:          clamped,
		PreMagnetPosition:         clamped,
		PreviousPreMagnetPosition: clamped,
	}
	e.magnet = MagnetState{MagnetismEnabled: e.magnet.MagnetismEnabled}
	e.hasLastPhysicalMouse = false
	e.rawFreshThisFrame = false
	e.setLockState(false)
}

// UpdateDesktopBounds installs the union of the current display
// topology and re-clamps both pointer positions into it (§4.3).
func (e *Engine) UpdateDesktopBounds(r vmath.Rect) {
	e.desktopBounds = &r
	e.clampPositions()
}

// SetMagnetismEnabled toggles magnetism. Disabling it drops any lock,
// candidate, and pending-switch state immediately (§4.3, §9 open
// question: magnetism-disabled is a hard cut, not a fade-out).
func (e *Engine) SetMagnetismEnabled(enabled bool) {
	if !enabled {
		e.magnet = MagnetState{MagnetismEnabled: false}
		e.setLockState(false)
		return
	}
	e.magnet.MagnetismEnabled = true
}

// BeginTouch starts a new touch gesture: velocity and lock state are
// cleared, but position is preserved so the virtual cursor does not
// jump (§4.4).
func (e *Engine) BeginTouch(p vmath.Point) {
	e.state.Velocity = vmath.Vec2{}
	e.state.LastInputDelta = vmath.Vec2{}
	e.state.IsGliding = false
	e.unlock()
	e.lastPhysicalMousePosition = p
	e.hasLastPhysicalMouse = true
}

// HandleTouch advances the engine by one tick's worth of physical
// pointer motion while a touch gesture is active (§4.4). trackpadVel,
// when non-nil, is the trackpad's normalized velocity for this tick
// (§4.2); it only takes over as the engine's velocity source when its
// pixel-space magnitude exceeds the pointer-derived velocity.
func (e *Engine) HandleTouch(p vmath.Point, dt float64, trackpadVel *vmath.Vec2) {
	var delta vmath.Vec2
	if e.hasLastPhysicalMouse {
		delta = p.Sub(e.lastPhysicalMousePosition)
	}
	e.lastPhysicalMousePosition = p
	e.hasLastPhysicalMouse = true

	rawStart := e.state.PreMagnetPosition
	rawEnd := rawStart.Add(delta)

	if e.rawStepIntercept(rawStart, rawEnd) {
		e.rawFreshThisFrame = true
		e.clampPositions()
		e.state.IsGliding = false
		return
	}

	scaledDelta := e.preBrake(delta, rawStart, rawEnd)

	e.state.PreviousPosition = e.state.Position
	e.state.Position = e.state.Position.Add(scaledDelta)

	pointerVelocity := scaledDelta.Scale(1 / maxF(dt, 1e-4))
	chosen := pointerVelocity
	source := SourcePointer
	if trackpadVel != nil {
		trackpadPixels := e.trackpadVelocityInPixels(*trackpadVel)
		if trackpadPixels.Magnitude() > pointerVelocity.Magnitude() {
			chosen = vmath.ClampMagnitude(trackpadPixels, e.cfg.MaxMomentumSpeed)
			source = SourceTrackpad
		}
	}
	e.state.Velocity = chosen
	e.state.VelocitySource = source
	e.setVelocitySource(source)
	e.state.LastInputDelta = scaledDelta
	e.state.PreviousPreMagnetPosition = e.state.PreMagnetPosition
	e.state.PreMagnetPosition = e.state.Position

	e.rawFreshThisFrame = true
	e.applyMagnetism()

	e.clampPositions()

	if e.shouldIntraFrameWarp() {
		e.warp(e.state.Position)
	}

	e.state.IsGliding = false
}

// trackpadVelocityInPixels converts a normalized-per-second trackpad
// velocity into screen pixels per second, scaled by desktop bounds (or
// a nominal 1920x1080 frame before bounds are known) and the configured
// gain.
func (e *Engine) trackpadVelocityInPixels(norm vmath.Vec2) vmath.Vec2 {
	w, h := float64(nominalDesktopWidth), float64(nominalDesktopHeight)
	if e.desktopBounds != nil {
		w, h = e.desktopBounds.W, e.desktopBounds.H
	}
	return vmath.Vec2{
		DX: norm.DX * w * e.cfg.TrackpadVelocityGain,
		DY: norm.DY * h * e.cfg.TrackpadVelocityGain,
	}
}

// shouldIntraFrameWarp reports whether the raw cursor is close enough
// to, and slow enough near, the current target to warrant warping the
// OS cursor mid-tick rather than waiting for the tick coordinator's
// end-of-tick mirror (§4.4 step 10).
func (e *Engine) shouldIntraFrameWarp() bool {
	t := e.magnet.CurrentTarget
	if t == nil {
		return false
	}
	params := e.deriveParams(*t)
	d := e.state.PreMagnetPosition.Sub(t.Center()).Magnitude()
	return d <= intraFrameWarpRadiusFactor*params.Radius &&
		e.state.Velocity.Magnitude() < intraFrameWarpMaxSpeed
}
