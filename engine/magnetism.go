package engine

import (
	"math"

	"github.com/lixenwraith/pointerd/vmath"
)

func (e *Engine) desktopArea() float64 {
	if e.desktopBounds == nil {
		return 0
	}
	return e.desktopBounds.Area()
}

// applyMagnetism runs the ordered magnetism resolution procedure of
// §4.6 after every raw position update. Later steps observe state
// mutated by earlier steps within the same call.
func (e *Engine) applyMagnetism() {
	// Step 1: raw escape from an existing lock.
	if e.magnet.IsLocked {
		locked := *e.magnet.LockedTarget
		params := e.deriveParams(locked)
		minor := minorOf(locked)
		aspect := aspectOf(locked)
		center := locked.Center()

		escapeDistance := e.state.PreMagnetPosition.Sub(center).Magnitude()
		unlockDistance := maxF(minor*0.65, params.Snap*0.9)

		if aspect > 1.8 && minor < 110 {
			delta := e.state.LastInputDelta
			fromCenter := e.state.PreMagnetPosition.Sub(center)
			movingAway := delta.Dot(fromCenter) > 0
			vertical := locked.H > locked.W
			var directionalIntent bool
			if vertical {
				directionalIntent = absF(delta.DX) > absF(delta.DY)*0.9 && absF(delta.DX) > 2.5
			} else {
				directionalIntent = absF(delta.DY) > absF(delta.DX)*0.9 && absF(delta.DY) > 2.5
			}
			if directionalIntent && movingAway {
				cap := maxF(minor*0.48, maxF(params.Snap*0.75, 18))
				unlockDistance = minF(unlockDistance, cap)
			}
		}

		if escapeDistance > unlockDistance {
			e.unlock()
			if e.magnet.LastSeenCandidate != nil {
				c := *e.magnet.LastSeenCandidate
				e.magnet.CurrentTarget = &c
			}
		}
	}

	// Step 2: lock-strain accounting (§4.7); may force-unlock.
	e.updateLockStrain()

	// Step 3: candidate adoption and immediate crossing capture.
	if e.magnet.LastSeenCandidate != nil {
		candidate := *e.magnet.LastSeenCandidate
		desktopArea := e.desktopArea()
		if desktopArea == 0 || candidate.Area() <= 0.35*desktopArea {
			cParams := e.deriveParams(candidate)
			centerDist := e.state.PreMagnetPosition.Sub(candidate.Center()).Magnitude()
			rectDist := vmath.PointRectDistance(e.state.PreMagnetPosition, candidate)

			if centerDist <= cParams.Radius*1.9+12 || rectDist <= cParams.Snap*1.8 {
				replace := e.magnet.CurrentTarget == nil
				if e.magnet.CurrentTarget != nil {
					cur := *e.magnet.CurrentTarget
					curBest := minF(
						e.state.PreMagnetPosition.Sub(cur.Center()).Magnitude(),
						vmath.PointRectDistance(e.state.PreMagnetPosition, cur),
					)
					candBest := minF(centerDist, rectDist)
					replace = candBest+12 <= curBest
				}
				if replace {
					e.magnet.CurrentTarget = &candidate
				}
			}

			rawStart := e.state.PreviousPreMagnetPosition
			rawEnd := e.state.PreMagnetPosition
			if movingToward(rawStart, rawEnd, candidate.Center()) {
				stepLen := rawEnd.Sub(rawStart).Magnitude()
				mid := midpoint(rawStart, rawEnd)
				padded := paddedRect(candidate)
				captured := vmath.SegmentCircle(rawStart, rawEnd, candidate.Center(), cParams.Snap*1.5) ||
					vmath.SegmentRect(rawStart, rawEnd, padded) ||
					(stepLen > 2*cParams.Radius && padded.Contains(mid))
				if captured {
					e.snapLockTo(candidate)
					return
				}
			}
		}
	}

	// Step 4: candidate pre-brake when no current target is set.
	if e.magnet.CurrentTarget == nil && e.magnet.LastSeenCandidate != nil {
		candidate := *e.magnet.LastSeenCandidate
		cParams := e.deriveParams(candidate)
		speed := e.state.Velocity.Magnitude()
		if speed > 70 {
			centerDist := e.state.Position.Sub(candidate.Center()).Magnitude()
			rectDist := vmath.PointRectDistance(e.state.Position, candidate)
			segDist := vmath.PointSegmentDistance(candidate.Center(), e.state.PreviousPreMagnetPosition, e.state.PreMagnetPosition)
			minDist := minF(centerDist, minF(rectDist, segDist))
			if minDist < cParams.Radius*1.6 {
				e.brakeVelocity(minDist, cParams.Radius, speed)
			}
		}
	}

	// Step 5: bail when no target is resolved at all.
	if e.magnet.CurrentTarget == nil {
		e.unlock()
		return
	}

	target := *e.magnet.CurrentTarget
	params := e.deriveParams(target)
	padded := paddedRect(target)

	// Step 6: current-target resolution.
	distance := e.state.Position.Sub(target.Center()).Magnitude()
	rectDistance := vmath.PointRectDistance(e.state.Position, target)
	rawDistance := e.state.PreMagnetPosition.Sub(target.Center()).Magnitude()
	rawRectDistance := vmath.PointRectDistance(e.state.PreMagnetPosition, target)

	entered := padded.Contains(e.state.Position) ||
		distance <= params.Radius ||
		rawDistance <= params.Radius ||
		rectDistance <= params.Radius

	// Step 7: raw-crossing capture against the current target.
	rawStart := e.state.PreviousPreMagnetPosition
	rawEnd := e.state.PreMagnetPosition
	if movingToward(rawStart, rawEnd, target.Center()) {
		stepLen := rawEnd.Sub(rawStart).Magnitude()
		mid := midpoint(rawStart, rawEnd)
		captured := vmath.SegmentCircle(rawStart, rawEnd, target.Center(), params.Snap) ||
			vmath.SegmentCircle(rawStart, rawEnd, target.Center(), params.Radius) ||
			vmath.SegmentCircle(rawStart, rawEnd, target.Center(), params.Snap*1.25) ||
			vmath.SegmentRect(rawStart, rawEnd, padded) ||
			(stepLen > 2*params.Radius && padded.Contains(mid))
		if captured {
			e.snapLockTo(target)
			return
		}
	}

	// Step 8: refresh the lock to track the current target.
	if e.magnet.IsLocked {
		t := target
		e.magnet.LockedTarget = &t
	}

	// Step 9: unlocked but already entered -> snap and lock.
	if !e.magnet.IsLocked && entered {
		e.snapLockTo(target)
		return
	}

	// Step 10: close enough on raw alone -> snap and lock.
	if rawDistance <= params.Snap*1.25 || rawRectDistance <= maxF(params.Snap*1.25, 10) {
		e.snapLockTo(target)
		return
	}

	// Step 11: soft approach assist.
	if !entered && !e.magnet.IsLocked && !e.state.IsGliding && e.magnet.PendingSwitchTarget == nil {
		assistOuter := maxF(params.Radius*1.6, params.Snap+22)
		if distance > params.Radius && distance <= assistOuter {
			alignForAssist := 0.3
			if align := e.alignmentToward(target.Center()); align != nil {
				alignForAssist = *align
			}
			if alignForAssist > -0.5 {
				rangeV := assistOuter - params.Radius
				t := vmath.Clamp((assistOuter-distance)/rangeV, 0, 1)
				intensity := math.Pow(t, 1.25)
				speedEase := 1 - vmath.Clamp(e.state.Velocity.Magnitude()/165, 0, 1)
				deltaEase := 1 - vmath.Clamp(e.state.LastInputDelta.Magnitude()/3.2, 0, 1)
				pullFactor := vmath.Clamp(intensity*speedEase*deltaEase, 0, 1)
				e.state.Position = e.state.Position.Add(target.Center().Sub(e.state.Position).Scale(pullFactor))
				distance = e.state.Position.Sub(target.Center()).Magnitude()
				rectDistance = vmath.PointRectDistance(e.state.Position, target)
			}
		}
	}

	// Step 12: high-speed brake and partial snap assist.
	brake := 0.0
	speed := e.state.Velocity.Magnitude()
	if speed > 70 {
		minDist := minF(distance, rectDistance)
		if minDist < params.Radius*1.6 {
			brake = e.brakeVelocity(minDist, params.Radius, speed)
		}
	}
	if brake > 0.32 {
		weight := vmath.Clamp(0.38+brake*0.5, 0, 1)
		e.state.Position = e.state.Position.Add(target.Center().Sub(e.state.Position).Scale(weight))
		distance = e.state.Position.Sub(target.Center()).Magnitude()
		rectDistance = vmath.PointRectDistance(e.state.Position, target)
	}

	// Step 13: outside-gate early exit.
	rawInside := padded.Contains(e.state.PreMagnetPosition) || rawDistance <= params.Radius || rawRectDistance <= params.Radius
	rectInside := padded.Contains(e.state.Position) || distance <= params.Radius || rectDistance <= params.Radius
	if !rawInside && !rectInside {
		e.unlock()
		return
	}

	// Step 14: ensure a lock exists.
	if !e.magnet.IsLocked {
		e.lockTo(target)
	}

	// Step 15: glide-near snap.
	if e.state.IsGliding && minF(distance, rectDistance) < params.Radius && e.state.Velocity.Magnitude() > 35 {
		e.snapLockTo(target)
		return
	}

	// Step 16: near-center snap.
	if distance < params.Snap {
		e.snapLockTo(target)
		return
	}

	// Step 17: outer-zone attractive pull with alignment gating.
	a := 0.0
	if align := e.alignmentToward(target.Center()); align != nil {
		a = *align
	}
	slowIntent := e.state.Velocity.Magnitude() < 30 && e.state.LastInputDelta.Magnitude() < 1.35

	var escapeScale float64
	switch {
	case a <= -0.55:
		e.unlock()
		return
	case a <= 0 && slowIntent && a > -0.4:
		escapeScale = 0.08 * maxF(0, 1+a/0.4)
	case a <= 0:
		escapeScale = 0
	case a < 0.2:
		escapeScale = sq(a/0.2) * ternary(slowIntent, 0.22, 0.12)
	default:
		base := ternary(slowIntent, 0.25, 0.15)
		escapeScale = minF(1, base+((a-0.2)/0.8)*(1-base))
	}

	if escapeScale > 0 {
		baseProximity := maxF(0, 1-distance/params.Radius)
		shaped := math.Pow(baseProximity, 1.18)
		pull := params.Strength * (0.18 + shaped*0.92)
		speedMult := minF(1+(e.state.Velocity.Magnitude()/e.cfg.MaxMomentumSpeed)*0.72+baseProximity*0.6, 1.9)
		adjusted := pull * speedMult * escapeScale

		e.state.Position = e.state.Position.Add(target.Center().Sub(e.state.Position).Scale(adjusted))
		e.state.Velocity = e.state.Velocity.Scale(maxF(0.08, 1-pull*1.05*escapeScale))
	}
}

// brakeVelocity dampens velocity and lastInputDelta by the proximity
// brake shared by step 4 and step 12, returning the computed brake
// strength so step 12 can decide whether to add a partial snap.
func (e *Engine) brakeVelocity(minDist, radius, speed float64) float64 {
	proximityBrake := maxF(0, 1-minDist/(radius*1.6))
	brake := maxF(proximityBrake, 0.24) * vmath.Clamp((speed-38)/210, 0, 1)
	damp := maxF(0.03, 1-0.96*brake)
	e.state.Velocity = e.state.Velocity.Scale(damp)
	e.state.LastInputDelta = e.state.LastInputDelta.Scale(damp)
	return brake
}
