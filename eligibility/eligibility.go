// Package eligibility implements the target eligibility filter of
// spec.md §4.8: it turns one tick's accessibility query result into
// either a candidate magnetism rectangle or "no target", applying
// role/action/URL qualification, shape rejection, a proximity gate, and
// a short linger window that survives brief accessibility-query gaps.
package eligibility

import (
	"time"

	"github.com/lixenwraith/pointerd/collab"
	"github.com/lixenwraith/pointerd/vmath"
)

// openSavePanelBundleID identifies the shared Open/Save file picker
// service; its panels are never magnetic (§4.8 rule 1).
const openSavePanelBundleID = "com.apple.appkit.xpc.openAndSavePanelService"

// fileBrowserBundleID and mailBundleID gate the bundle-specific
// non-interactive suppression rules of §4.8 rule 3.
const (
	fileBrowserBundleID = "com.apple.finder"
	mailBundleID        = "com.apple.mail"
)

var ignoredActions = map[string]bool{
	"AXScrollToVisible": true,
}

var magneticRoles = map[string]bool{
	"AXButton":             true,
	"AXLink":               true,
	"AXTextField":          true,
	"AXTextArea":           true,
	"AXCheckBox":           true,
	"AXRadioButton":        true,
	"AXPopUpButton":        true,
	"AXMenuButton":         true,
	"AXComboBox":           true,
	"AXSlider":             true,
	"AXDisclosureTriangle": true,
}

var pressLikeActions = map[string]bool{
	"Press":    true,
	"Confirm":  true,
	"Pick":     true,
	"ShowMenu": true,
}

var listLikeRoles = map[string]bool{
	"AXRow":        true,
	"AXOutline":    true,
	"AXImage":      true,
	"AXStaticText": true,
	"AXGroup":      true,
}

func maxAreaForRole(role string) float64 {
	switch role {
	case "AXLink":
		return 30000
	case "AXTextArea":
		return 12000
	case "AXGroup":
		return 10500
	case "AXStaticText":
		return 13500
	default:
		return 15000
	}
}

func hasAnyAction(actions map[string]bool, set map[string]bool) bool {
	for a := range set {
		if actions[a] {
			return true
		}
	}
	return false
}

// Filter holds the per-daemon linger memory for §4.8 rule 10. It is not
// safe for concurrent use; the tick coordinator owns a single instance.
type Filter struct {
	lastQualifying   *vmath.Rect
	lastQualifyingAt time.Time
}

// NewFilter creates an empty Filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Evaluate runs the eligibility rules against one tick's accessibility
// result. hasElement mirrors AccessibilityInspector.ElementInfoAt's
// second return; rawPoint is the engine's raw cursor this tick.
func (f *Filter) Evaluate(info collab.ElementInfo, hasElement bool, rawPoint vmath.Point, now time.Time) *vmath.Rect {
	rect, forceReset := f.primary(info, hasElement, rawPoint)
	if rect != nil {
		r := *rect
		f.lastQualifying = &r
		f.lastQualifyingAt = now
		return &r
	}
	if forceReset {
		f.clearLinger()
		return nil
	}
	return f.linger(rawPoint, now)
}

func (f *Filter) clearLinger() {
	f.lastQualifying = nil
}

// linger re-emits the last qualifying frame when it is still fresh (<60
// ms old) and the raw pointer remains inside its 12px-padded frame
// (§4.8 rule 10).
func (f *Filter) linger(rawPoint vmath.Point, now time.Time) *vmath.Rect {
	if f.lastQualifying == nil {
		return nil
	}
	if now.Sub(f.lastQualifyingAt) >= 60*time.Millisecond {
		f.clearLinger()
		return nil
	}
	if !f.lastQualifying.Inset(12, 12).Contains(rawPoint) {
		f.clearLinger()
		return nil
	}
	r := *f.lastQualifying
	return &r
}

// primary applies eligibility rules 1-9, returning a candidate rect (or
// nil) and whether the caller must force-clear the linger memory
// regardless of rule 10 (rule 1's file-picker exclusion).
func (f *Filter) primary(info collab.ElementInfo, hasElement bool, rawPoint vmath.Point) (*vmath.Rect, bool) {
	if !hasElement {
		return nil, false
	}

	// Rule 1.
	if info.IsFilePickerPanel || info.BundleID == openSavePanelBundleID {
		return nil, true
	}

	// Rule 2.
	if hasAnyAction(info.Actions, ignoredActions) {
		return nil, false
	}

	// Rule 3: bundle-specific non-interactive suppression.
	if info.BundleID == fileBrowserBundleID && listLikeRoles[info.Role] && info.Role != "AXButton" {
		return nil, false
	}
	if info.BundleID == mailBundleID && isMailSidebarNoise(info) {
		return nil, false
	}

	// Rule 4.
	qualifiesByRole := magneticRoles[info.Role]
	hasPressAction := hasAnyAction(info.Actions, pressLikeActions)
	hasLink := info.HasURL

	// Rule 5.
	frame := info.Frame
	area := frame.W * frame.H
	maxArea := maxAreaForRole(info.Role)

	// Rule 6.
	qualifiesByActionsOrURL := hasPressAction || hasLink
	qualifiesImplicitly := info.Role == "" && qualifiesByActionsOrURL && area > 100 && area <= 15000

	// Rule 7.
	baseCandidacy := ((qualifiesByRole || qualifiesByActionsOrURL) && area <= maxArea) || qualifiesImplicitly
	if !baseCandidacy {
		return nil, false
	}

	// Rule 8.
	if rejectedShape(frame, info.Role) {
		return nil, false
	}

	// Rule 9.
	if !qualifiesImplicitly && !proximityGate(frame, rawPoint) {
		return nil, false
	}

	return &frame, false
}

func isMailSidebarNoise(info collab.ElementInfo) bool {
	w, h := info.Frame.W, info.Frame.H
	if w >= 100 || h >= 100 {
		return false
	}
	aspect := w / maxF(h, 1)
	if aspect <= 0.5 || aspect >= 2 {
		return false
	}
	return listLikeRoles[info.Role]
}

func rejectedShape(frame vmath.Rect, role string) bool {
	w, h := frame.W, frame.H
	minor := maxF(minF(w, h), 1)
	aspect := maxF(w, h) / minor

	if aspect > 8 && h < 25 {
		return true
	}
	if listLikeRoles[role] && aspect > 1.5 && w > 120 {
		return true
	}
	if (role == "AXStaticText" || role == "AXGroup" || role == "AXButton") && aspect > 1.8 && w > 140 && h < 50 {
		return true
	}
	if aspect > 2.2 && w > 160 && h < 45 && w*h < 12000 {
		return true
	}
	return false
}

func proximityGate(frame vmath.Rect, p vmath.Point) bool {
	insetX := vmath.Clamp(frame.W*0.2, 8, 32)
	insetY := vmath.Clamp(frame.H*0.6, 8, 36)
	if frame.Inset(insetX, insetY).Contains(p) {
		return true
	}
	d := p.Sub(frame.Center()).Magnitude()
	return d <= maxF(frame.H*1.35, 180)
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
