package engine

import "github.com/lixenwraith/pointerd/vmath"

// HandleNoTouch advances the engine by one tick while no finger is in
// contact (§4.5). touchJustEnded marks the first no-touch tick after a
// touch; suppressGlide carries the trackpad smoother's multi-finger
// suppression flag for that transition.
func (e *Engine) HandleNoTouch(p vmath.Point, dt float64, suppressGlide, touchJustEnded bool) {
	e.lastPhysicalMousePosition = p
	e.hasLastPhysicalMouse = true

	if touchJustEnded {
		if suppressGlide {
			e.state.IsGliding = false
			e.state.Velocity = vmath.Vec2{}
		} else {
			e.beginGlideIfNeeded()
		}
	}

	if !e.state.IsGliding {
		return
	}

	e.state.Velocity = e.state.Velocity.Scale(maxF(0, 1-e.cfg.GlideDecayPerSecond*dt))

	e.state.PreviousPosition = e.state.Position
	delta := e.state.Velocity.Scale(dt)
	e.state.Position = e.state.Position.Add(delta)
	e.state.LastInputDelta = delta

	e.state.PreviousPreMagnetPosition = e.state.PreMagnetPosition
	e.state.PreMagnetPosition = e.state.PreMagnetPosition.Add(delta)

	e.rawFreshThisFrame = true
	e.applyMagnetism()

	e.clampPositions()
	e.warp(e.state.Position)

	if !e.state.IsGliding {
		// applyMagnetism may have snapped and cleared isGliding already.
		return
	}
	if e.state.Velocity.Magnitude() < e.cfg.MinimumGlideVelocity*e.cfg.GlideStopSpeedMultiplier {
		e.state.IsGliding = false
		e.state.Velocity = vmath.Vec2{}
	}
}

// beginGlideIfNeeded starts a glide when the current velocity meets the
// minimum glide threshold, otherwise cancels any glide outright (§4.5
// step 2).
func (e *Engine) beginGlideIfNeeded() {
	if e.state.Velocity.Magnitude() >= e.cfg.MinimumGlideVelocity {
		e.state.IsGliding = true
		e.addFloat(e.metrics.glideStarts, 1)
		e.warp(e.state.Position)
		return
	}
	e.state.IsGliding = false
	e.state.Velocity = vmath.Vec2{}
}
