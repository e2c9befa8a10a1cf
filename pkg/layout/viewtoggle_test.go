package layout

import (
	"testing"
	"time"
)

func TestViewToggleGuardBlocksDashboard(t *testing.T) {
	vt := NewViewToggle(ViewData, false)
	calls := 0
	vt.OnViewChange = func(View) { calls++ }

	if vt.Select(ViewDashboard) {
		t.Error("dashboard must be unreachable without charts")
	}
	if vt.Step() {
		t.Error("arrow navigation must honor the guard")
	}
	if calls != 0 {
		t.Errorf("onViewChange fired %d times under the guard, want 0", calls)
	}
	if !vt.Disabled(ViewDashboard) {
		t.Error("dashboard option should render disabled")
	}
}

func TestViewToggleSelect(t *testing.T) {
	vt := NewViewToggle(ViewData, true)
	var got []View
	vt.OnViewChange = func(v View) { got = append(got, v) }

	if !vt.Select(ViewDashboard) {
		t.Fatal("select should commit with charts present")
	}
	if vt.Select(ViewDashboard) {
		t.Error("re-selecting the active view must not fire")
	}
	if len(got) != 1 || got[0] != ViewDashboard {
		t.Errorf("onViewChange calls = %v, want [dashboard]", got)
	}
}

func TestViewToggleStepWraps(t *testing.T) {
	vt := NewViewToggle(ViewDashboard, true)

	vt.Step()
	if vt.Current() != ViewData {
		t.Errorf("current = %s, want data", vt.Current())
	}
	vt.Step()
	if vt.Current() != ViewDashboard {
		t.Errorf("current = %s, want dashboard (wrapped)", vt.Current())
	}
}

func TestViewToggleLosingChartsForcesDataView(t *testing.T) {
	vt := NewViewToggle(ViewDashboard, true)
	var got []View
	vt.OnViewChange = func(v View) { got = append(got, v) }

	vt.SetHasCharts(false)
	if vt.Current() != ViewData {
		t.Errorf("current = %s, want data after charts vanished", vt.Current())
	}
	if len(got) != 1 || got[0] != ViewData {
		t.Errorf("onViewChange calls = %v, want [data]", got)
	}
}

func TestViewTransitionDeferredSwap(t *testing.T) {
	clock := newFakeClock()
	tr := NewViewTransition(clock, ViewData, 250*time.Millisecond, false)

	tr.SetView(ViewDashboard)
	if tr.Displayed() != ViewData {
		t.Fatal("content swapped before the defer elapsed")
	}

	clock.Advance(DefaultTransitionDefer)
	if tr.Displayed() != ViewDashboard {
		t.Fatal("content not swapped after the defer")
	}
	if !tr.Transitioning() {
		t.Error("transitioning flag should hold during the animation")
	}

	clock.Advance(250 * time.Millisecond)
	if tr.Transitioning() {
		t.Error("transitioning flag should clear after the duration")
	}
}

func TestViewTransitionReducedMotionIsImmediate(t *testing.T) {
	clock := newFakeClock()
	tr := NewViewTransition(clock, ViewData, 250*time.Millisecond, true)

	tr.SetView(ViewDashboard)
	if tr.Displayed() != ViewDashboard {
		t.Error("reduced motion must swap with no intermediate frame")
	}
	if tr.Transitioning() {
		t.Error("reduced motion must skip the transitioning flag")
	}
}

func TestViewTransitionSupersededSwap(t *testing.T) {
	clock := newFakeClock()
	tr := NewViewTransition(clock, ViewData, 250*time.Millisecond, false)

	tr.SetView(ViewDashboard)
	tr.SetView(ViewData) // displayed already data: cancels the pending swap
	clock.Advance(time.Second)

	if tr.Displayed() != ViewData {
		t.Errorf("displayed = %s, want data (second request wins)", tr.Displayed())
	}
	if tr.Transitioning() {
		t.Error("stale transition flag left behind")
	}
}

func TestViewTransitionDispose(t *testing.T) {
	clock := newFakeClock()
	tr := NewViewTransition(clock, ViewData, 250*time.Millisecond, false)

	tr.SetView(ViewDashboard)
	tr.Dispose()
	clock.Advance(time.Second)

	if tr.Displayed() != ViewData {
		t.Error("disposed transition still swapped content")
	}
}
