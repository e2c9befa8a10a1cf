package layout

import (
	"math"
	"sync"
	"time"
)

// Rect is the measured geometry of the split-pane container, in pixels.
type Rect struct {
	Left  int
	Width int
}

// GeometryFunc reports the current container geometry. ok is false while
// the container cannot be measured yet (zero-width, not mounted); the
// engine skips validation for that frame rather than applying garbage.
type GeometryFunc func() (rect Rect, ok bool)

// SplitPaneConfig tunes the resize engine. Zero values fall back to the
// defaults from DefaultSplitPaneConfig.
type SplitPaneConfig struct {
	// MinChatPercent and MaxChatPercent bound the chat pane share.
	MinChatPercent float64
	MaxChatPercent float64

	// Defaults maps each breakpoint to its default chat share.
	Defaults map[Breakpoint]float64

	// SnapThreshold is the distance, in percentage points, within which a
	// drag is forced to the breakpoint default.
	SnapThreshold float64

	// MinChatPx and MinDashboardPx are the functional pixel minimums each
	// pane must keep regardless of percentages.
	MinChatPx      int
	MinDashboardPx int

	// KeyStep and KeyStepLarge are the ArrowLeft/ArrowRight adjustment
	// sizes, in percentage points (large applies with Shift held).
	KeyStep      float64
	KeyStepLarge float64

	// SettleDuration is how long the post-snap settle state lasts after a
	// drag releases on the default width.
	SettleDuration time.Duration
}

// DefaultSplitPaneConfig returns the stock tuning.
func DefaultSplitPaneConfig() SplitPaneConfig {
	return SplitPaneConfig{
		MinChatPercent: 20,
		MaxChatPercent: 60,
		Defaults: map[Breakpoint]float64{
			BreakpointMobile:       100,
			BreakpointTablet:       40,
			BreakpointDesktop:      33,
			BreakpointLargeDesktop: 30,
		},
		SnapThreshold:  3,
		MinChatPx:      200,
		MinDashboardPx: 300,
		KeyStep:        5,
		KeyStepLarge:   10,
		SettleDuration: 250 * time.Millisecond,
	}
}

// SplitPane owns the chat/dashboard pane split. It is a state machine over
// {idle, dragging} for pointer input and a validated request/response path
// for keyboard input. Every committed width change satisfies both the
// percentage bounds and the pixel minimums, and is reported once through
// the OnResize callback.
type SplitPane struct {
	mu       sync.Mutex
	cfg      SplitPaneConfig
	clock    Clock
	geometry GeometryFunc

	// OnResize is called with the committed (chat, dashboard) percentages
	// after every change. Set before first use; never called re-entrantly.
	OnResize func(chatWidth, dashboardWidth float64)

	chatWidth  float64
	breakpoint Breakpoint
	enabled    bool

	dragging bool

	settling    bool
	settleTimer Timer
	settleSeq   uint64

	// pending holds a breakpoint change deferred until the drag ends.
	pending *pendingBreakpoint
}

type pendingBreakpoint struct {
	bp    Breakpoint
	width float64
}

// NewSplitPane creates the engine at the given breakpoint and initial chat
// width (already validated by the preference store, but re-clamped here).
func NewSplitPane(cfg SplitPaneConfig, clock Clock, geometry GeometryFunc, bp Breakpoint, chatWidth float64) *SplitPane {
	if cfg.SettleDuration == 0 {
		cfg.SettleDuration = DefaultSplitPaneConfig().SettleDuration
	}
	if clock == nil {
		clock = SystemClock()
	}
	sp := &SplitPane{
		cfg:        cfg,
		clock:      clock,
		geometry:   geometry,
		breakpoint: bp,
		enabled:    bp != BreakpointMobile,
	}
	sp.chatWidth = clampFloat(chatWidth, cfg.MinChatPercent, cfg.MaxChatPercent)
	if bp == BreakpointMobile {
		sp.chatWidth = cfg.Defaults[bp]
		if sp.chatWidth == 0 {
			sp.chatWidth = 100
		}
	}
	return sp
}

// ChatWidth returns the committed chat pane share.
func (sp *SplitPane) ChatWidth() float64 {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.chatWidth
}

// DashboardWidth returns the committed dashboard pane share.
func (sp *SplitPane) DashboardWidth() float64 {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return 100 - sp.chatWidth
}

// IsResizing reports whether a pointer drag is active.
func (sp *SplitPane) IsResizing() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.dragging
}

// IsSettling reports whether the post-snap settle transition is playing.
func (sp *SplitPane) IsSettling() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.settling
}

// Breakpoint returns the breakpoint the engine currently lays out for.
func (sp *SplitPane) Breakpoint() Breakpoint {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.breakpoint
}

// SetEnabled turns pointer and keyboard resize on or off. The degradation
// layer disables resize entirely under extreme constraints.
func (sp *SplitPane) SetEnabled(enabled bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.enabled = enabled
	if !enabled {
		sp.dragging = false
	}
}

// Enabled reports whether resize interaction is active.
func (sp *SplitPane) Enabled() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.enabled
}

// DefaultWidth returns the default chat share for the active breakpoint.
func (sp *SplitPane) DefaultWidth() float64 {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.defaultWidthLocked()
}

func (sp *SplitPane) defaultWidthLocked() float64 {
	if w, ok := sp.cfg.Defaults[sp.breakpoint]; ok {
		return w
	}
	return DefaultSplitPaneConfig().Defaults[sp.breakpoint]
}

// PointerDown starts a drag at pointer x. It reports whether the drag
// began; the caller attaches its global move/up listeners only on true and
// detaches them when PointerUp runs.
func (sp *SplitPane) PointerDown(x int) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if !sp.enabled || sp.dragging || sp.breakpoint == BreakpointMobile {
		return false
	}
	if _, ok := sp.geometry(); !ok {
		return false
	}
	sp.dragging = true
	return true
}

// PointerMove handles a pointer move during an active drag. Geometry is
// re-measured on every move: the drag itself can change container size.
func (sp *SplitPane) PointerMove(x int) {
	sp.mu.Lock()
	if !sp.dragging {
		sp.mu.Unlock()
		return
	}
	rect, ok := sp.geometry()
	if !ok || rect.Width <= 0 {
		sp.mu.Unlock()
		return
	}
	candidate := float64(x-rect.Left) / float64(rect.Width) * 100
	changed, chat := sp.commitLocked(candidate, true, false)
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
}

// PointerUp ends the drag. A release on the snapped default width plays a
// short settle transition before the engine returns to idle. A breakpoint
// change deferred during the drag is applied now.
func (sp *SplitPane) PointerUp() {
	sp.mu.Lock()
	if !sp.dragging {
		sp.mu.Unlock()
		return
	}
	sp.dragging = false

	if sp.chatWidth == sp.defaultWidthLocked() {
		sp.startSettleLocked()
	}

	var changed bool
	var chat float64
	if p := sp.pending; p != nil {
		sp.pending = nil
		changed, chat = sp.applyBreakpointLocked(p.bp, p.width)
	}
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
}

func (sp *SplitPane) startSettleLocked() {
	sp.settling = true
	sp.settleSeq++
	seq := sp.settleSeq
	if sp.settleTimer != nil {
		sp.settleTimer.Stop()
	}
	sp.settleTimer = sp.clock.AfterFunc(sp.cfg.SettleDuration, func() {
		sp.mu.Lock()
		defer sp.mu.Unlock()
		if seq != sp.settleSeq {
			return
		}
		sp.settling = false
		sp.settleTimer = nil
	})
}

// AdjustBy moves the chat width by delta percentage points through the
// validated path. Unlike pointer drags, a keyboard request that would
// violate the pixel minimums is rejected outright, leaving state unchanged.
func (sp *SplitPane) AdjustBy(delta float64) bool {
	sp.mu.Lock()
	if !sp.enabled {
		sp.mu.Unlock()
		return false
	}
	changed, chat := sp.commitLocked(sp.chatWidth+delta, false, true)
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
	return changed
}

// StepLeft shrinks the chat pane by the keyboard step.
func (sp *SplitPane) StepLeft(large bool) bool { return sp.AdjustBy(-sp.step(large)) }

// StepRight grows the chat pane by the keyboard step.
func (sp *SplitPane) StepRight(large bool) bool { return sp.AdjustBy(sp.step(large)) }

func (sp *SplitPane) step(large bool) float64 {
	if large {
		if sp.cfg.KeyStepLarge > 0 {
			return sp.cfg.KeyStepLarge
		}
		return DefaultSplitPaneConfig().KeyStepLarge
	}
	if sp.cfg.KeyStep > 0 {
		return sp.cfg.KeyStep
	}
	return DefaultSplitPaneConfig().KeyStep
}

// ResetToDefault sets the chat width to the breakpoint default (Home key,
// modifier+R shortcut).
func (sp *SplitPane) ResetToDefault() bool {
	sp.mu.Lock()
	if !sp.enabled {
		sp.mu.Unlock()
		return false
	}
	changed, chat := sp.commitLocked(sp.defaultWidthLocked(), false, true)
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
	return changed
}

// MaximizeDashboard sets the chat pane to its minimum (End/PageDown,
// modifier+M shortcut).
func (sp *SplitPane) MaximizeDashboard() bool {
	sp.mu.Lock()
	if !sp.enabled {
		sp.mu.Unlock()
		return false
	}
	changed, chat := sp.commitLocked(sp.cfg.MinChatPercent, false, true)
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
	return changed
}

// MaximizeChat sets the chat pane to its maximum (PageUp, modifier+C
// shortcut).
func (sp *SplitPane) MaximizeChat() bool {
	sp.mu.Lock()
	if !sp.enabled {
		sp.mu.Unlock()
		return false
	}
	changed, chat := sp.commitLocked(sp.cfg.MaxChatPercent, false, true)
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
	return changed
}

// SetBreakpoint switches the engine to a new breakpoint with the width the
// preference store holds for it. Mid-drag the change is deferred until the
// drag ends; a gesture is never interrupted by a forced jump.
func (sp *SplitPane) SetBreakpoint(bp Breakpoint, width float64) {
	sp.mu.Lock()
	if sp.dragging {
		sp.pending = &pendingBreakpoint{bp: bp, width: width}
		sp.mu.Unlock()
		return
	}
	changed, chat := sp.applyBreakpointLocked(bp, width)
	sp.mu.Unlock()
	if changed {
		sp.fireResize(chat)
	}
}

func (sp *SplitPane) applyBreakpointLocked(bp Breakpoint, width float64) (bool, float64) {
	sp.breakpoint = bp
	sp.enabled = bp != BreakpointMobile
	w := clampFloat(width, sp.cfg.MinChatPercent, sp.cfg.MaxChatPercent)
	if bp == BreakpointMobile {
		// Stacked layout: chat takes the full width, no resize.
		w = sp.cfg.Defaults[bp]
		if w == 0 {
			w = 100
		}
	}
	if w == sp.chatWidth {
		return false, w
	}
	sp.chatWidth = w
	return true, w
}

// commitLocked runs the full validated-mutation path: percentage clamp,
// snap hysteresis toward the default, then the pixel-validity pass. With
// strict set, a pixel violation rejects the change instead of re-clamping.
// It reports whether the width changed and the new value.
func (sp *SplitPane) commitLocked(candidate float64, snap, strict bool) (bool, float64) {
	c := clampFloat(candidate, sp.cfg.MinChatPercent, sp.cfg.MaxChatPercent)

	if snap {
		def := sp.defaultWidthLocked()
		if diff := c - def; diff <= sp.cfg.SnapThreshold && diff >= -sp.cfg.SnapThreshold {
			c = def
		}
	}

	rect, ok := sp.geometry()
	if !ok || rect.Width <= 0 {
		// Cannot validate yet; skip this frame.
		return false, sp.chatWidth
	}
	w := float64(rect.Width)
	pixelMin := float64(sp.cfg.MinChatPx) / w * 100
	// The percent-to-pixel round trip can land a hair under the minimum
	// (200px/600px*100 back through c/100*w gives 199.999...). Nudge the
	// bound until the round trip honors it.
	for pixelMin/100*w < float64(sp.cfg.MinChatPx) {
		pixelMin = math.Nextafter(pixelMin, pixelMin+1)
	}
	pixelMax := (w - float64(sp.cfg.MinDashboardPx)) / w * 100
	for (100-pixelMax)/100*w < float64(sp.cfg.MinDashboardPx) {
		pixelMax = math.Nextafter(pixelMax, pixelMax-1)
	}
	if pixelMin > pixelMax {
		// Container too small for both panes; reject and let the
		// degradation layer take over.
		return false, sp.chatWidth
	}
	if c < pixelMin || c > pixelMax {
		if strict {
			return false, sp.chatWidth
		}
		// Pixel minimums override the earlier percentage clamp.
		c = clampFloat(c, pixelMin, pixelMax)
	}

	if c == sp.chatWidth {
		return false, sp.chatWidth
	}
	sp.chatWidth = c
	return true, c
}

func (sp *SplitPane) fireResize(chat float64) {
	if sp.OnResize != nil {
		sp.OnResize(chat, 100-chat)
	}
}

// Dispose cancels the settle timer. A timer firing after Dispose is a
// no-op.
func (sp *SplitPane) Dispose() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.settleSeq++
	if sp.settleTimer != nil {
		sp.settleTimer.Stop()
		sp.settleTimer = nil
	}
	sp.settling = false
	sp.dragging = false
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
