package engine

import "github.com/lixenwraith/pointerd/vmath"

// updateLockStrain implements §4.7: a consecutive-tick counter of
// "pushing away from the locked target along its constrained axis",
// used to escape sticky locks on elongated narrow elements. Runs as
// step 2 of applyMagnetism, every tick while locked.
func (e *Engine) updateLockStrain() {
	if !e.magnet.IsLocked {
		return
	}
	locked := *e.magnet.LockedTarget

	if e.magnet.LockStrainTarget == nil || !vmath.FramesEquivalent(*e.magnet.LockStrainTarget, locked) {
		t := locked
		e.magnet.LockStrainTarget = &t
		e.magnet.LockStrainCounter = 0
	}

	decay := func() {
		e.magnet.LockStrainCounter = maxInt(e.magnet.LockStrainCounter-1, 0)
	}

	rawStep := e.state.PreMagnetPosition.Sub(e.state.PreviousPreMagnetPosition).Magnitude()
	if rawStep < 2.2 {
		decay()
		return
	}

	center := locked.Center()
	delta := e.state.LastInputDelta
	fromCenter := e.state.PreMagnetPosition.Sub(center)
	if delta.Dot(fromCenter) <= 0 {
		decay()
		return
	}

	minor := minorOf(locked)
	aspect := aspectOf(locked)
	if aspect <= 1.8 || minor >= 110 {
		decay()
		return
	}

	vertical := locked.H > locked.W
	var directionalIntent bool
	if vertical {
		directionalIntent = absF(delta.DX) > absF(delta.DY)*0.9 && absF(delta.DX) > 2.5
	} else {
		directionalIntent = absF(delta.DY) > absF(delta.DX)*0.9 && absF(delta.DY) > 2.5
	}
	if !directionalIntent {
		decay()
		return
	}

	params := e.deriveParams(locked)
	threshold := maxF(minor*0.38, maxF(params.Snap*0.6, 16))
	if fromCenter.Magnitude() < threshold {
		decay()
		return
	}

	e.magnet.LockStrainCounter++
	if e.magnet.LockStrainCounter >= 3 {
		e.addFloat(e.metrics.strainForceUnlock, 1)
		e.unlock()
		if e.magnet.LastSeenCandidate != nil {
			c := *e.magnet.LastSeenCandidate
			e.magnet.CurrentTarget = &c
		}
	}
}
