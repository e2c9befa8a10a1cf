// Package layout implements the adaptive layout and interaction engine:
// viewport classification, the resizable split-pane state machine, the
// auto-hide sidebar state machine, the view toggle, and the graceful
// degradation layer. It is UI-agnostic: everything works in abstract pixel
// units and is driven through injected boundaries (clock, storage, focus
// ring, reporter), so the same engine can back a terminal frontend or tests.
package layout

// Breakpoint is a discrete viewport-width class driving default layout
// proportions.
type Breakpoint string

const (
	BreakpointMobile       Breakpoint = "mobile"
	BreakpointTablet       Breakpoint = "tablet"
	BreakpointDesktop      Breakpoint = "desktop"
	BreakpointLargeDesktop Breakpoint = "large-desktop"
)

// IsValid returns true if the breakpoint is a recognized value
func (b Breakpoint) IsValid() bool {
	switch b {
	case BreakpointMobile, BreakpointTablet, BreakpointDesktop, BreakpointLargeDesktop:
		return true
	}
	return false
}

// Thresholds holds the width boundaries between breakpoints, in pixels.
// A width below Tablet is mobile; below Desktop is tablet; below
// LargeDesktop is desktop; anything at or above LargeDesktop is
// large-desktop.
type Thresholds struct {
	Tablet       int
	Desktop      int
	LargeDesktop int
}

// DefaultThresholds are the stock breakpoint boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Tablet: 768, Desktop: 1024, LargeDesktop: 1200}
}

// Classify maps a viewport width to its breakpoint. First match wins.
func (t Thresholds) Classify(width int) Breakpoint {
	switch {
	case width < t.Tablet:
		return BreakpointMobile
	case width < t.Desktop:
		return BreakpointTablet
	case width < t.LargeDesktop:
		return BreakpointDesktop
	default:
		return BreakpointLargeDesktop
	}
}

// ConstraintTag labels an extreme viewport condition that forces a
// fallback behavior. Tags are independent; several can hold at once.
type ConstraintTag string

const (
	TagExtremelyNarrow    ConstraintTag = "extremely-narrow"
	TagVeryNarrow         ConstraintTag = "very-narrow"
	TagVeryShort          ConstraintTag = "very-short"
	TagExtremeAspectRatio ConstraintTag = "extreme-aspect-ratio"
)

// Constraint thresholds, in pixels.
const (
	extremelyNarrowWidth = 320
	veryNarrowWidth      = 480
	veryShortHeight      = 400
	wideAspectRatio      = 3.0
	tallAspectRatio      = 0.33
)

// ConstraintSet is the set of tags active for a viewport.
type ConstraintSet map[ConstraintTag]bool

// Has reports whether the tag is active.
func (s ConstraintSet) Has(tag ConstraintTag) bool { return s[tag] }

// ClassifyConstraints evaluates every constraint tag for the given viewport.
// It is a pure function of the dimensions and must be re-run on every
// resize or orientation event.
func ClassifyConstraints(width, height int) ConstraintSet {
	tags := make(ConstraintSet)
	if width < extremelyNarrowWidth {
		tags[TagExtremelyNarrow] = true
	}
	if width < veryNarrowWidth {
		tags[TagVeryNarrow] = true
	}
	if height < veryShortHeight {
		tags[TagVeryShort] = true
	}
	if height > 0 {
		ratio := float64(width) / float64(height)
		if ratio > wideAspectRatio || ratio < tallAspectRatio {
			tags[TagExtremeAspectRatio] = true
		}
	}
	return tags
}
