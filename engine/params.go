package engine

import "github.com/lixenwraith/pointerd/vmath"

// targetParams is the per-frame derivation of radius/snap/strength from
// spec.md §4.6 "Parameter derivation for a frame f".
type targetParams struct {
	Radius   float64
	Snap     float64
	Strength float64
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

// deriveParams computes radius/snap/strength for frame f using cfg's
// base magnetismRadius/snapThreshold/magneticStrength.
func (e *Engine) deriveParams(f vmath.Rect) targetParams {
	minor := maxF(minF(f.W, f.H), 1)
	major := maxF(f.W, f.H)
	aspect := major / minor
	norm := vmath.Clamp(minor/110, 0.22, 1)

	radius := vmath.Clamp(e.cfg.MagnetismRadius*norm*1.05, minor*0.85, minor*1.8+18)
	snap := maxF(e.cfg.SnapThreshold*norm*0.9, maxF(minor*0.55, 12))
	strength := vmath.Clamp(e.cfg.MagneticStrength*(0.66+norm*0.5), 0.4, e.cfg.MagneticStrength*1.12)

	if aspect > 2.4 {
		k := minF(0.6, (aspect-2.4)*0.12)
		radius *= 1 - k
		snap *= 1 - 0.85*k
		strength *= maxF(0.55, 1-0.9*k)
	}

	return targetParams{Radius: radius, Snap: snap, Strength: strength}
}

// paddedRect returns f padded for "near-rect" tests (§4.6): padX =
// clamp(w*0.22, 6, 18), padY = clamp(h*0.6, 6, 18).
func paddedRect(f vmath.Rect) vmath.Rect {
	padX := vmath.Clamp(f.W*0.22, 6, 18)
	padY := vmath.Clamp(f.H*0.60, 6, 18)
	return f.Inset(padX, padY)
}

// minorOf returns max(min(f.W, f.H), 1), the "minor" axis used
// throughout §4.6-§4.7.
func minorOf(f vmath.Rect) float64 {
	return maxF(minF(f.W, f.H), 1)
}

// aspectOf returns max(f.W, f.H) / minorOf(f).
func aspectOf(f vmath.Rect) float64 {
	return maxF(f.W, f.H) / minorOf(f)
}
