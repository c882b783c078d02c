package engine

import "github.com/lixenwraith/pointerd/vmath"

// dedupTargets gathers {lockedTarget, currentTarget, lastSeenCandidate},
// skipping nils and frame-equivalent duplicates (§4.4 step 3).
func (e *Engine) dedupTargets() []vmath.Rect {
	var out []vmath.Rect
	add := func(r *vmath.Rect) {
		if r == nil {
			return
		}
		for _, o := range out {
			if vmath.FramesEquivalent(o, *r) {
				return
			}
		}
		out = append(out, *r)
	}
	add(e.magnet.LockedTarget)
	add(e.magnet.CurrentTarget)
	add(e.magnet.LastSeenCandidate)
	return out
}

// crossesCaptureZone reports whether segment [a,b] crosses frame's padded
// rect, or a circle of radius r centered on frame's center. It is the
// crossing test of raw-step interception (§4.4); applyMagnetism's
// candidate/current-target capture rules (§4.6) do their own tests.
func crossesCaptureZone(a, b vmath.Point, frame vmath.Rect, r float64) bool {
	return vmath.SegmentRect(a, b, paddedRect(frame)) ||
		vmath.SegmentCircle(a, b, frame.Center(), r)
}

// movingToward reports whether traveling from a to b moves toward
// center, i.e. travel . toCenter > 0.
func movingToward(a, b, center vmath.Point) bool {
	toCenter := center.Sub(a)
	travel := b.Sub(a)
	return travel.Dot(toCenter) > 0
}

// rawStepIntercept implements §4.4 step 3: snap immediately to the
// center of the first deduplicated target the raw step is moving toward
// and would cross (padded rect or a 1.5x-snap-radius circle). Returns
// true if an interception fired.
func (e *Engine) rawStepIntercept(rawStart, rawEnd vmath.Point) bool {
	for _, f := range e.dedupTargets() {
		center := f.Center()
		if !movingToward(rawStart, rawEnd, center) {
			continue
		}
		params := e.deriveParams(f)
		if crossesCaptureZone(rawStart, rawEnd, f, 1.5*params.Snap) {
			e.snapLockTo(f)
			return true
		}
	}
	return false
}

// preBrake implements §4.4 step 4: when a deduplicated target exists,
// the raw step is scaled down as it approaches the target with the
// largest magnetic radius. Gated by cfg.PreBrakeEnabled per spec.md's
// open question on making the deformation optional.
func (e *Engine) preBrake(delta vmath.Vec2, rawStart, rawEnd vmath.Point) vmath.Vec2 {
	if !e.cfg.PreBrakeEnabled {
		return delta
	}
	targets := e.dedupTargets()
	if len(targets) == 0 {
		return delta
	}

	best := targets[0]
	bestRadius := e.deriveParams(best).Radius
	for _, t := range targets[1:] {
		r := e.deriveParams(t).Radius
		if r > bestRadius {
			bestRadius, best = r, t
		}
	}

	approach := vmath.PointSegmentDistance(best.Center(), rawStart, rawEnd)
	if approach >= 1.6*bestRadius {
		return delta
	}
	scale := vmath.Clamp(sq(approach/(1.6*bestRadius)), 0.15, 1.0)
	return delta.Scale(scale)
}

func sq(x float64) float64 { return x * x }

// snapLockTo places the virtual cursor at frame's center with zero
// velocity and locks onto it (the "snap" operation, glossary).
func (e *Engine) snapLockTo(frame vmath.Rect) {
	e.state.Position = frame.Center()
	e.state.Velocity = vmath.Vec2{}
	e.state.IsGliding = false
	e.lockTo(frame)
	e.addFloat(e.metrics.snaps, 1)
}

// lockTo commits the engine to frame, resetting the pending-switch
// debouncer and lock-strain accounting.
func (e *Engine) lockTo(frame vmath.Rect) {
	wasLocked := e.magnet.IsLocked
	f := frame
	e.magnet.LockedTarget = &f
	e.magnet.IsLocked = true
	e.magnet.PendingSwitchTarget = nil
	e.magnet.PendingSwitchConfidence = 0
	e.magnet.LockStrainCounter = 0
	e.magnet.LockStrainTarget = nil
	if !wasLocked {
		e.addFloat(e.metrics.locks, 1)
	}
	e.setLockState(true)
}

// unlock releases any current lock and clears the strain/pending-switch
// debouncers (§3 invariant: isLocked <=> lockedTarget.is_some()).
func (e *Engine) unlock() {
	if e.magnet.IsLocked {
		e.addFloat(e.metrics.unlocks, 1)
	}
	e.magnet.IsLocked = false
	e.magnet.LockedTarget = nil
	e.magnet.LockStrainCounter = 0
	e.magnet.LockStrainTarget = nil
	e.magnet.PendingSwitchTarget = nil
	e.magnet.PendingSwitchConfidence = 0
	e.setLockState(false)
}
