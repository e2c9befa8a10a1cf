package layout

import (
	"testing"
	"time"
)

func fixedGeometry(left, width int) GeometryFunc {
	return func() (Rect, bool) { return Rect{Left: left, Width: width}, true }
}

func newTestSplitPane(t *testing.T, width int, bp Breakpoint, chat float64) (*SplitPane, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	sp := NewSplitPane(DefaultSplitPaneConfig(), clock, fixedGeometry(0, width), bp, chat)
	return sp, clock
}

func TestSplitPaneDragCommit(t *testing.T) {
	// Container 1000px, desktop default 33: a pointer at x=250 commits 25%.
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 33)

	var gotChat, gotDash float64
	calls := 0
	sp.OnResize = func(chat, dash float64) {
		gotChat, gotDash = chat, dash
		calls++
	}

	if !sp.PointerDown(330) {
		t.Fatal("PointerDown should start the drag")
	}
	if !sp.IsResizing() {
		t.Error("expected isResizing during drag")
	}
	sp.PointerMove(250)
	sp.PointerUp()

	if sp.ChatWidth() != 25 {
		t.Errorf("chat width = %v, want 25", sp.ChatWidth())
	}
	if calls != 1 {
		t.Errorf("onResize fired %d times, want 1", calls)
	}
	if gotChat != 25 || gotDash != 75 {
		t.Errorf("onResize got (%v, %v), want (25, 75)", gotChat, gotDash)
	}
	if sp.IsResizing() {
		t.Error("expected idle after release")
	}
}

func TestSplitPaneWidthsSumTo100(t *testing.T) {
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 33)

	sp.PointerDown(330)
	for _, x := range []int{250, 400, 190, 615, 500} {
		sp.PointerMove(x)
		if sum := sp.ChatWidth() + sp.DashboardWidth(); sum != 100 {
			t.Fatalf("after move to %d: chat+dashboard = %v, want 100", x, sum)
		}
	}
	sp.PointerUp()
}

func TestSplitPanePercentClamp(t *testing.T) {
	// x=190 on a 1000px container is 19%, below the 20% minimum.
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 33)

	sp.PointerDown(330)
	sp.PointerMove(190)

	if sp.ChatWidth() != 20 {
		t.Errorf("chat width = %v, want clamped 20", sp.ChatWidth())
	}
}

func TestSplitPaneSnapToDefault(t *testing.T) {
	// 31% is within the 3-point snap band around the desktop default 33.
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 40)

	sp.PointerDown(400)
	sp.PointerMove(310)

	if sp.ChatWidth() != 33 {
		t.Errorf("chat width = %v, want snapped 33", sp.ChatWidth())
	}
}

func TestSplitPaneSettleAfterSnapRelease(t *testing.T) {
	sp, clock := newTestSplitPane(t, 1000, BreakpointDesktop, 40)

	sp.PointerDown(400)
	sp.PointerMove(320) // snaps to 33
	sp.PointerUp()

	if !sp.IsSettling() {
		t.Fatal("expected settle transition after releasing on the default")
	}
	clock.Advance(249 * time.Millisecond)
	if !sp.IsSettling() {
		t.Error("settle cleared early")
	}
	clock.Advance(time.Millisecond)
	if sp.IsSettling() {
		t.Error("settle not cleared after duration")
	}
}

func TestSplitPanePixelMinimumsOverridePercentClamp(t *testing.T) {
	// On a 600px container the 200px chat minimum is 33.33%, above the
	// 20% percentage floor: the pixel pass wins.
	sp, _ := newTestSplitPane(t, 600, BreakpointDesktop, 40)

	sp.PointerDown(240)
	sp.PointerMove(150) // 25%

	chat := sp.ChatWidth()
	if px := chat / 100 * 600; px < 200 {
		t.Errorf("chat pixel width = %v, want >= 200", px)
	}
	if dash := (100 - chat) / 100 * 600; dash < 300 {
		t.Errorf("dashboard pixel width = %v, want >= 300", dash)
	}
	if chat <= 25 {
		t.Errorf("chat width = %v, want pixel re-clamp above 25", chat)
	}
}

func TestSplitPaneRejectsWhenContainerTooSmall(t *testing.T) {
	// 400px cannot hold 200px chat + 300px dashboard.
	sp, _ := newTestSplitPane(t, 400, BreakpointDesktop, 40)

	sp.PointerDown(160)
	sp.PointerMove(100)

	if sp.ChatWidth() != 40 {
		t.Errorf("chat width = %v, want unchanged 40", sp.ChatWidth())
	}
}

func TestSplitPaneKeyboardStep(t *testing.T) {
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 40)

	if !sp.StepRight(false) {
		t.Fatal("StepRight should commit")
	}
	if sp.ChatWidth() != 45 {
		t.Errorf("chat width = %v, want 45", sp.ChatWidth())
	}
	if !sp.StepLeft(true) {
		t.Fatal("StepLeft should commit")
	}
	if sp.ChatWidth() != 35 {
		t.Errorf("chat width = %v, want 35", sp.ChatWidth())
	}
}

func TestSplitPaneKeyboardRejectsPixelViolation(t *testing.T) {
	// 600px container: 30% chat would be 180px, under the 200px minimum.
	// Keyboard requests are rejected outright, not re-clamped.
	sp, _ := newTestSplitPane(t, 600, BreakpointDesktop, 40)

	if sp.StepLeft(true) {
		t.Error("StepLeft should be rejected")
	}
	if sp.ChatWidth() != 40 {
		t.Errorf("chat width = %v, want unchanged 40", sp.ChatWidth())
	}
}

func TestSplitPaneShortcuts(t *testing.T) {
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 40)

	sp.MaximizeDashboard()
	if sp.ChatWidth() != 20 {
		t.Errorf("after MaximizeDashboard chat = %v, want 20", sp.ChatWidth())
	}
	sp.MaximizeChat()
	if sp.ChatWidth() != 60 {
		t.Errorf("after MaximizeChat chat = %v, want 60", sp.ChatWidth())
	}
	sp.ResetToDefault()
	if sp.ChatWidth() != 33 {
		t.Errorf("after ResetToDefault chat = %v, want 33", sp.ChatWidth())
	}
}

func TestSplitPaneBreakpointChangeDeferredDuringDrag(t *testing.T) {
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 33)

	sp.PointerDown(330)
	sp.PointerMove(450)
	sp.SetBreakpoint(BreakpointTablet, 40)

	if sp.Breakpoint() != BreakpointDesktop {
		t.Error("breakpoint applied mid-drag")
	}
	if sp.ChatWidth() != 45 {
		t.Errorf("width jumped mid-drag: %v, want 45", sp.ChatWidth())
	}

	sp.PointerUp()
	if sp.Breakpoint() != BreakpointTablet {
		t.Error("deferred breakpoint not applied on release")
	}
	if sp.ChatWidth() != 40 {
		t.Errorf("chat width = %v, want deferred 40", sp.ChatWidth())
	}
}

func TestSplitPaneMobileDisablesResize(t *testing.T) {
	sp, _ := newTestSplitPane(t, 600, BreakpointMobile, 33)

	if sp.Enabled() {
		t.Error("resize should be disabled on mobile")
	}
	if sp.ChatWidth() != 100 {
		t.Errorf("mobile chat width = %v, want stacked 100", sp.ChatWidth())
	}
	if sp.PointerDown(100) {
		t.Error("PointerDown should refuse on mobile")
	}
	if sp.StepRight(false) {
		t.Error("keyboard resize should refuse on mobile")
	}
}

func TestSplitPaneSkipsWhenGeometryUnavailable(t *testing.T) {
	clock := newFakeClock()
	measurable := false
	geom := func() (Rect, bool) { return Rect{Width: 1000}, measurable }
	sp := NewSplitPane(DefaultSplitPaneConfig(), clock, geom, BreakpointDesktop, 33)

	if sp.PointerDown(330) {
		t.Error("PointerDown should refuse while unmeasurable")
	}

	measurable = true
	if !sp.PointerDown(330) {
		t.Fatal("PointerDown should start once measurable")
	}
	measurable = false
	sp.PointerMove(250) // cannot validate: skipped for this frame
	if sp.ChatWidth() != 33 {
		t.Errorf("chat width = %v, want unchanged 33", sp.ChatWidth())
	}
}

func TestSplitPaneNoDuplicateCallback(t *testing.T) {
	sp, _ := newTestSplitPane(t, 1000, BreakpointDesktop, 33)

	calls := 0
	sp.OnResize = func(chat, dash float64) { calls++ }

	sp.PointerDown(330)
	sp.PointerMove(250)
	sp.PointerMove(250)
	sp.PointerMove(250)
	sp.PointerUp()

	if calls != 1 {
		t.Errorf("onResize fired %d times for one logical change, want 1", calls)
	}
}

func TestSplitPaneDispose(t *testing.T) {
	sp, clock := newTestSplitPane(t, 1000, BreakpointDesktop, 40)

	sp.PointerDown(400)
	sp.PointerMove(320)
	sp.PointerUp()
	sp.Dispose()

	// The settle timer must be a no-op after dispose.
	clock.Advance(time.Second)
	if sp.IsSettling() {
		t.Error("settling after dispose")
	}
}
