package layout

import (
	"sync"
	"time"
)

// View identifies the main content view.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewData      View = "data"
)

// IsValid returns true if the view is a recognized value
func (v View) IsValid() bool {
	return v == ViewDashboard || v == ViewData
}

// ViewToggle is the two-state view switcher. The dashboard option is
// guarded: it is unreachable while no chart data exists, via click,
// Enter/Space, and arrow navigation alike.
type ViewToggle struct {
	mu        sync.Mutex
	current   View
	hasCharts bool

	// OnViewChange fires once per committed view change.
	OnViewChange func(View)
}

// NewViewToggle creates the toggle. An initial dashboard selection without
// chart data is coerced to the data view.
func NewViewToggle(initial View, hasCharts bool) *ViewToggle {
	if !initial.IsValid() {
		initial = ViewData
	}
	if initial == ViewDashboard && !hasCharts {
		initial = ViewData
	}
	return &ViewToggle{current: initial, hasCharts: hasCharts}
}

// Current returns the selected view.
func (t *ViewToggle) Current() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Disabled reports whether the given option is currently unreachable.
func (t *ViewToggle) Disabled(v View) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return v == ViewDashboard && !t.hasCharts
}

// SetHasCharts updates the guard input. Losing chart data while the
// dashboard is selected forces the data view.
func (t *ViewToggle) SetHasCharts(has bool) {
	t.mu.Lock()
	t.hasCharts = has
	var fire bool
	if !has && t.current == ViewDashboard {
		t.current = ViewData
		fire = true
	}
	cur := t.current
	t.mu.Unlock()
	if fire && t.OnViewChange != nil {
		t.OnViewChange(cur)
	}
}

// Select activates a view. Under the guard the call is a no-op and
// reports false; the callback never fires for a blocked or redundant
// selection.
func (t *ViewToggle) Select(v View) bool {
	if !v.IsValid() {
		return false
	}
	t.mu.Lock()
	if v == t.current || (v == ViewDashboard && !t.hasCharts) {
		t.mu.Unlock()
		return false
	}
	t.current = v
	t.mu.Unlock()
	if t.OnViewChange != nil {
		t.OnViewChange(v)
	}
	return true
}

// Step handles arrow navigation: it wraps between the two options, which
// with two tabs always means activating the other one. The guard applies.
func (t *ViewToggle) Step() bool {
	t.mu.Lock()
	target := ViewDashboard
	if t.current == ViewDashboard {
		target = ViewData
	}
	t.mu.Unlock()
	return t.Select(target)
}

// ViewTransition animates the hand-off between views: the content swap is
// deferred briefly so exit styling can begin, then a transitioning flag
// holds for the animation duration. Under reduced motion the swap is
// immediate with no intermediate frame.
type ViewTransition struct {
	mu            sync.Mutex
	clock         Clock
	duration      time.Duration
	deferDelay    time.Duration
	reducedMotion bool

	displayed     View
	transitioning bool

	deferTimer, settleTimer Timer
	seq                     uint64
}

// DefaultTransitionDefer is how long the swap waits for exit styling.
const DefaultTransitionDefer = 10 * time.Millisecond

// NewViewTransition creates the wrapper showing the initial view.
func NewViewTransition(clock Clock, initial View, duration time.Duration, reducedMotion bool) *ViewTransition {
	if clock == nil {
		clock = SystemClock()
	}
	return &ViewTransition{
		clock:         clock,
		duration:      duration,
		deferDelay:    DefaultTransitionDefer,
		reducedMotion: reducedMotion,
		displayed:     initial,
	}
}

// Displayed returns the view whose content is currently shown.
func (vt *ViewTransition) Displayed() View {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.displayed
}

// Transitioning reports whether the animated hand-off is in progress.
func (vt *ViewTransition) Transitioning() bool {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.transitioning
}

// SetReducedMotion updates the reduced-motion signal.
func (vt *ViewTransition) SetReducedMotion(reduced bool) {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.reducedMotion = reduced
}

// SetView requests a content swap to the given view. The last request
// always wins: a request back to the displayed view cancels any pending
// deferred swap instead of letting it land late.
func (vt *ViewTransition) SetView(v View) {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	vt.seq++
	seq := vt.seq
	vt.stopTimersLocked()

	if v == vt.displayed {
		vt.transitioning = false
		return
	}

	if vt.reducedMotion || vt.duration == 0 {
		vt.displayed = v
		vt.transitioning = false
		return
	}

	vt.deferTimer = vt.clock.AfterFunc(vt.deferDelay, func() {
		vt.mu.Lock()
		defer vt.mu.Unlock()
		if seq != vt.seq {
			return
		}
		vt.deferTimer = nil
		vt.displayed = v
		vt.transitioning = true
		vt.settleTimer = vt.clock.AfterFunc(vt.duration, func() {
			vt.mu.Lock()
			defer vt.mu.Unlock()
			if seq != vt.seq {
				return
			}
			vt.settleTimer = nil
			vt.transitioning = false
		})
	})
}

func (vt *ViewTransition) stopTimersLocked() {
	if vt.deferTimer != nil {
		vt.deferTimer.Stop()
		vt.deferTimer = nil
	}
	if vt.settleTimer != nil {
		vt.settleTimer.Stop()
		vt.settleTimer = nil
	}
}

// Dispose cancels pending swap timers.
func (vt *ViewTransition) Dispose() {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	vt.seq++
	vt.stopTimersLocked()
	vt.transitioning = false
}
