// Package collab defines the external collaborators spec.md §6 requires
// but places out of scope: the OS pointer, the OS cursor, the display
// topology, the accessibility inspector, and the foreign-overlay
// detector. The engine and tick coordinator depend only on these small
// interfaces; concrete OS-specific implementations live outside this
// module (per spec.md §1, a non-goal).
package collab

import "github.com/lixenwraith/pointerd/vmath"

// PointerSource reports the physical pointer's current location in
// global screen space.
type PointerSource interface {
	CurrentPointerLocation() vmath.Point
}

// CursorSink mirrors the virtual cursor onto the OS cursor and owns its
// visibility. WarpCursor must be idempotent within a tick and must
// translate global to display-local coordinates across multi-display
// boundaries (§6).
type CursorSink interface {
	WarpCursor(vmath.Point) error
	HideCursor()
	ShowCursor()
}

// DisplaySource enumerates the current display topology; desktop bounds
// is the union of the returned frames.
type DisplaySource interface {
	EnumerateDisplays() []vmath.Rect
}

// ElementInfo is the distilled shape of an accessibility query result
// (§6, §4.8): a tagged "no element" case is the boolean return of
// AccessibilityInspector.ElementInfoAt rather than a nullable field.
type ElementInfo struct {
	Frame             vmath.Rect
	Role              string
	Actions           map[string]bool
	URL               string
	HasURL            bool
	BundleID          string
	IsFilePickerPanel bool
}

// HasAction reports whether action is present in the element's action
// set.
func (e ElementInfo) HasAction(action string) bool {
	return e.Actions[action]
}

// AccessibilityInspector resolves a screen point to the UI element
// found there, if any. The engine tolerates false (no element) and
// flicker between calls; the eligibility filter's linger window absorbs
// stutter (§6, §4.8).
type AccessibilityInspector interface {
	ElementInfoAt(vmath.Point) (ElementInfo, bool)
}

// OverlayDetector reports whether the frontmost visible window at a
// point is owned by one of a configured list of known screenshot or
// utility applications. The engine uses it to switch into
// hardware-cursor passthrough mode (§6, §4.9).
type OverlayDetector interface {
	IsKnownOverlayTopmost(vmath.Point) bool
}
