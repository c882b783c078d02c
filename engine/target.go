package engine

import "github.com/lixenwraith/pointerd/vmath"

// UpdateMagneticTarget folds one tick's eligibility result into the
// magnet state machine (§4.6 updateMagneticTarget). frame is nil for
// "no candidate this tick".
func (e *Engine) UpdateMagneticTarget(frame *vmath.Rect) {
	if !e.magnet.MagnetismEnabled {
		e.magnet = MagnetState{MagnetismEnabled: false}
		e.setLockState(false)
		return
	}

	if frame == nil {
		e.magnet.CurrentTarget = nil
		e.magnet.PendingSwitchTarget = nil
		e.magnet.PendingSwitchConfidence = 0
		if e.magnet.LastSeenCandidateTTL > 0 {
			e.magnet.LastSeenCandidateTTL--
			if e.magnet.LastSeenCandidateTTL == 0 {
				e.magnet.LastSeenCandidate = nil
			}
		}
		return
	}

	f := *frame
	e.magnet.LastSeenCandidate = &f
	e.magnet.LastSeenCandidateTTL = candidateTTL

	if !e.magnet.IsLocked {
		e.magnet.CurrentTarget = &f
		e.triggerMagnetismIfFresh()
		return
	}

	locked := *e.magnet.LockedTarget

	if vmath.FramesEquivalent(f, locked) {
		e.magnet.LockedTarget = &f
		e.magnet.CurrentTarget = &f
		e.magnet.PendingSwitchTarget = nil
		e.magnet.PendingSwitchConfidence = 0
		e.triggerMagnetismIfFresh()
		return
	}

	if ov, ok := vmath.Overlap(locked, f); ok {
		denom := maxF(minF(locked.Area(), f.Area()), 1)
		rawToLockedCenter := e.state.PreMagnetPosition.Sub(locked.Center()).Magnitude()
		if ov.Area()/denom >= 0.65 && rawToLockedCenter <= 6 {
			e.magnet.CurrentTarget = &locked
			e.triggerMagnetismIfFresh()
			return
		}
	}

	if f.Inset(8, 8).Contains(e.state.PreMagnetPosition) && !vmath.FramesEquivalent(f, locked) {
		e.unlock()
		e.magnet.CurrentTarget = &f
		e.triggerMagnetismIfFresh()
		return
	}

	lockedParams := e.deriveParams(locked)
	minor := minorOf(locked)
	exitThreshold := maxF(lockedParams.Snap*1.1, minor*0.75)

	base := e.cfg.TargetSwitchMinDistance
	preliminary := maxF(minor*0.95, lockedParams.Snap*1.5)
	switchThreshold := minF(base, maxF(preliminary, maxF(minor, base*0.35)))

	rawDist := e.state.PreMagnetPosition.Sub(locked.Center()).Magnitude()

	if rawDist > switchThreshold {
		e.unlock()
		e.magnet.CurrentTarget = &f
		e.triggerMagnetismIfFresh()
		return
	}

	if rawDist > exitThreshold {
		newDist := e.state.PreMagnetPosition.Sub(f.Center()).Magnitude()
		align := e.alignmentToward(f.Center())
		sufficientMotion := e.state.Velocity.Magnitude() > 30 || e.state.LastInputDelta.Magnitude() > 1.5
		matches := newDist < rawDist && align != nil && *align > 0.35 && sufficientMotion

		switch {
		case matches && e.magnet.PendingSwitchTarget != nil && vmath.FramesEquivalent(*e.magnet.PendingSwitchTarget, f):
			e.magnet.PendingSwitchConfidence++
		case matches:
			e.magnet.PendingSwitchTarget = &f
			e.magnet.PendingSwitchConfidence = 1
		default:
			e.magnet.PendingSwitchTarget = nil
			e.magnet.PendingSwitchConfidence = 0
		}

		if e.magnet.PendingSwitchConfidence >= 3 {
			e.unlock()
			e.magnet.CurrentTarget = &f
			e.triggerMagnetismIfFresh()
			return
		}
	}

	e.magnet.CurrentTarget = &f
	e.triggerMagnetismIfFresh()
}

// triggerMagnetismIfFresh runs applyMagnetism once per tick when raw
// integration produced a fresh position this tick, then clears the
// flag (§4.6: "if rawFreshThisFrame is set, call applyMagnetism() and
// clear the flag").
func (e *Engine) triggerMagnetismIfFresh() {
	if e.rawFreshThisFrame {
		e.applyMagnetism()
		e.rawFreshThisFrame = false
	}
}

// alignmentToward computes the weighted alignment of velocity and
// lastInputDelta with the unit direction from the raw cursor to center
// (§4.6 Alignment). Returns nil when both weights are zero.
func (e *Engine) alignmentToward(center vmath.Point) *float64 {
	dir := center.Sub(e.state.PreMagnetPosition)
	if dir.IsZero() {
		return nil
	}
	unit := dir.Normalize()

	vWeight := minF(e.state.Velocity.Magnitude()/300, 1)
	dWeight := minF(e.state.LastInputDelta.Magnitude()/10, 1)
	if vWeight == 0 && dWeight == 0 {
		return nil
	}

	var sum, weightSum float64
	if vWeight > 0 {
		sum += vWeight * e.state.Velocity.Normalize().Dot(unit)
		weightSum += vWeight
	}
	if dWeight > 0 {
		sum += dWeight * e.state.LastInputDelta.Normalize().Dot(unit)
		weightSum += dWeight
	}
	result := sum / weightSum
	return &result
}
