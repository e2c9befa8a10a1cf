package layout

import (
	"sync"
	"time"
)

// SidebarMode selects the sidebar's interaction model. The degradation
// layer picks it from viewport constraints.
type SidebarMode string

const (
	// SidebarAutoHide is the full trigger-zone / hide-timer behavior.
	SidebarAutoHide SidebarMode = "auto-hide"
	// SidebarAlwaysVisible pins the sidebar open and disables hiding.
	SidebarAlwaysVisible SidebarMode = "always-visible"
	// SidebarOverlay disables pointer tracking; the sidebar opens only
	// through explicit toggles and overlays the content when shown.
	SidebarOverlay SidebarMode = "overlay"
)

// IsValid returns true if the mode is a recognized value
func (m SidebarMode) IsValid() bool {
	switch m {
	case SidebarAutoHide, SidebarAlwaysVisible, SidebarOverlay:
		return true
	}
	return false
}

// AnimationState tags the sidebar's transition styling. It never gates
// logic, only rendering.
type AnimationState string

const (
	AnimIdle     AnimationState = "idle"
	AnimEntering AnimationState = "entering"
	AnimExiting  AnimationState = "exiting"
)

// FocusRing abstracts the host's focusable elements so the sidebar machine
// can trap and restore focus without knowing about widgets.
type FocusRing interface {
	// Current returns the id of the focused element, if any.
	Current() (string, bool)
	// First and Last return the boundary focusables inside the sidebar.
	First() (string, bool)
	Last() (string, bool)
	// Focus moves focus to the element with the given id.
	Focus(id string)
	// Attached reports whether the element still exists.
	Attached(id string) bool
}

// SidebarConfig tunes the auto-hide machine.
type SidebarConfig struct {
	// TriggerWidth is the screen-edge zone, in pixels, whose pointer or
	// touch entry opens the sidebar.
	TriggerWidth int

	// HideDelay is how long the pointer must stay outside the sidebar
	// before it hides.
	HideDelay time.Duration

	// AnimationDuration is the show/hide transition length; the post-show
	// focus move waits this long.
	AnimationDuration time.Duration

	// Swipe gesture thresholds for the mobile breakpoint.
	SwipeMinDX       int
	SwipeMaxDY       int
	SwipeMaxDuration time.Duration

	// SwipeCooldown suppresses a second swipe-open from the same
	// continuous gesture.
	SwipeCooldown time.Duration
}

// DefaultSidebarConfig returns the stock tuning.
func DefaultSidebarConfig() SidebarConfig {
	return SidebarConfig{
		TriggerWidth:      20,
		HideDelay:         time.Second,
		AnimationDuration: 250 * time.Millisecond,
		SwipeMinDX:        30,
		SwipeMaxDY:        100,
		SwipeMaxDuration:  300 * time.Millisecond,
		SwipeCooldown:     400 * time.Millisecond,
	}
}

type touchPoint struct {
	x, y int
	at   time.Time
}

// Sidebar is the auto-hide sidebar state machine: hidden/visible with
// trigger-zone detection, a cancelable hide-delay timer, touch swipe
// recognition on mobile, and focus capture/restore around visibility.
type Sidebar struct {
	mu    sync.Mutex
	cfg   SidebarConfig
	clock Clock

	// contains reports whether a point lies inside the sidebar's own
	// bounding box; used for hover-driven hiding.
	contains func(x, y int) bool
	focus    FocusRing

	// OnVisibilityChange fires once per logical visibility flip.
	OnVisibilityChange func(visible bool)

	visible       bool
	inTriggerZone bool
	anim          AnimationState
	breakpoint    Breakpoint
	mode          SidebarMode

	hideTimer Timer
	hideSeq   uint64

	focusTimer Timer
	focusSeq   uint64

	animTimer Timer
	animSeq   uint64

	touchStart    *touchPoint
	cooldownUntil time.Time

	remembered    string
	hasRemembered bool
}

// NewSidebar creates the machine. contains and focus may be nil when the
// host has no hover geometry or focus management (both paths then no-op).
func NewSidebar(cfg SidebarConfig, clock Clock, contains func(x, y int) bool, focus FocusRing, bp Breakpoint, visible bool) *Sidebar {
	if clock == nil {
		clock = SystemClock()
	}
	return &Sidebar{
		cfg:        cfg,
		clock:      clock,
		contains:   contains,
		focus:      focus,
		breakpoint: bp,
		mode:       SidebarAutoHide,
		visible:    visible,
		anim:       AnimIdle,
	}
}

// Visible reports the logical visibility.
func (s *Sidebar) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// InTriggerZone reports whether the pointer is inside the edge trigger
// zone. Tracked on the desktop breakpoints only.
func (s *Sidebar) InTriggerZone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTriggerZone
}

// Animation returns the current transition tag.
func (s *Sidebar) Animation() AnimationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anim
}

// Mode returns the active interaction mode.
func (s *Sidebar) Mode() SidebarMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode applies the degradation layer's sidebar mode. Switching to
// always-visible shows the sidebar and cancels pending hides.
func (s *Sidebar) SetMode(mode SidebarMode) {
	if !mode.IsValid() {
		mode = SidebarAutoHide
	}
	s.mu.Lock()
	s.mode = mode
	var fire, vis bool
	if mode == SidebarAlwaysVisible && !s.visible {
		fire, vis = s.showLocked()
	}
	if mode != SidebarAutoHide {
		s.cancelHideLocked()
		s.inTriggerZone = false
	}
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
}

// SetBreakpoint switches between the pointer-driven and touch-driven
// interaction models. Gesture state is dropped on every switch.
func (s *Sidebar) SetBreakpoint(bp Breakpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.breakpoint = bp
	s.touchStart = nil
	if bp == BreakpointMobile {
		s.inTriggerZone = false
	}
}

// PointerMoved handles continuous pointer tracking on the desktop and
// tablet breakpoints. Entering the edge trigger zone shows the sidebar
// immediately; leaving the sidebar's bounds while visible arms the hide
// timer, and re-entering disarms it.
func (s *Sidebar) PointerMoved(x, y int) {
	s.mu.Lock()
	if s.breakpoint == BreakpointMobile || s.mode != SidebarAutoHide {
		s.mu.Unlock()
		return
	}

	if s.breakpoint == BreakpointDesktop || s.breakpoint == BreakpointLargeDesktop {
		s.inTriggerZone = x <= s.cfg.TriggerWidth
	}

	var fire, vis bool
	if !s.visible && x <= s.cfg.TriggerWidth {
		s.cancelHideLocked()
		fire, vis = s.showLocked()
		s.mu.Unlock()
		if fire {
			s.fireVisibility(vis)
		}
		return
	}

	visible := s.visible
	contains := s.contains
	s.mu.Unlock()
	if !visible || contains == nil {
		return
	}

	// The hit test runs outside the lock: the host's callback is free to
	// read sidebar state (Visible, Mode) while computing geometry.
	inside := contains(x, y)

	s.mu.Lock()
	if s.visible {
		if inside {
			if s.hideTimer != nil {
				s.cancelHideLocked()
			}
		} else if s.hideTimer == nil {
			s.armHideLocked()
		}
	}
	s.mu.Unlock()
}

func (s *Sidebar) armHideLocked() {
	s.cancelHideLocked()
	s.hideSeq++
	seq := s.hideSeq
	s.hideTimer = s.clock.AfterFunc(s.cfg.HideDelay, func() {
		s.mu.Lock()
		if seq != s.hideSeq {
			s.mu.Unlock()
			return
		}
		s.hideTimer = nil
		fire, vis := s.hideLocked()
		s.mu.Unlock()
		if fire {
			s.fireVisibility(vis)
		}
	})
}

func (s *Sidebar) cancelHideLocked() {
	s.hideSeq++
	if s.hideTimer != nil {
		s.hideTimer.Stop()
		s.hideTimer = nil
	}
}

// TouchStart begins gesture tracking on the mobile breakpoint. A touch
// inside the trigger zone opens the sidebar on the start event itself.
func (s *Sidebar) TouchStart(x, y int) {
	s.mu.Lock()
	if s.breakpoint != BreakpointMobile {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	s.touchStart = &touchPoint{x: x, y: y, at: now}

	var fire, vis bool
	if !s.visible && x <= s.cfg.TriggerWidth && !now.Before(s.cooldownUntil) {
		fire, vis = s.showLocked()
		s.touchStart = nil
	}
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
}

// TouchMove evaluates the tracked gesture as a swipe-open. A sequence that
// exceeds the vertical budget is a scroll and permanently disqualifies the
// gesture; a qualifying swipe shows the sidebar, clears the gesture state,
// and starts the re-trigger cooldown.
func (s *Sidebar) TouchMove(x, y int) {
	s.mu.Lock()
	start := s.touchStart
	if s.breakpoint != BreakpointMobile || start == nil {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	dx := x - start.x
	dy := y - start.y
	if dy < 0 {
		dy = -dy
	}
	elapsed := now.Sub(start.at)

	if dy >= s.cfg.SwipeMaxDY || elapsed >= s.cfg.SwipeMaxDuration {
		s.touchStart = nil
		s.mu.Unlock()
		return
	}

	var fire, vis bool
	if dx > s.cfg.SwipeMinDX && start.x <= 2*s.cfg.TriggerWidth && !now.Before(s.cooldownUntil) {
		if !s.visible {
			fire, vis = s.showLocked()
		}
		s.touchStart = nil
		s.cooldownUntil = now.Add(s.cfg.SwipeCooldown)
	}
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
}

// TouchEnd clears any tracked gesture.
func (s *Sidebar) TouchEnd() {
	s.mu.Lock()
	s.touchStart = nil
	s.mu.Unlock()
}

// BackdropTap hides the sidebar from a tap or click outside its bounds.
// A backdrop exists on mobile and whenever the sidebar overlays content.
func (s *Sidebar) BackdropTap() {
	s.mu.Lock()
	if !s.visible || (s.breakpoint != BreakpointMobile && s.mode != SidebarOverlay) {
		s.mu.Unlock()
		return
	}
	fire, vis := s.hideLocked()
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
}

// Toggle flips visibility (the Ctrl/Cmd+S shortcut and the visually hidden
// open button both land here).
func (s *Sidebar) Toggle() {
	s.mu.Lock()
	if s.mode == SidebarAlwaysVisible {
		s.mu.Unlock()
		return
	}
	var fire, vis bool
	if s.visible {
		fire, vis = s.hideLocked()
	} else {
		fire, vis = s.showLocked()
	}
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
}

// Show opens the sidebar through the explicit entry point.
func (s *Sidebar) Show() {
	s.mu.Lock()
	fire, vis := s.showLocked()
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
}

// HandleEscape hides the sidebar when visible. It reports whether the key
// was consumed.
func (s *Sidebar) HandleEscape() bool {
	s.mu.Lock()
	if !s.visible || s.mode == SidebarAlwaysVisible {
		s.mu.Unlock()
		return false
	}
	fire, vis := s.hideLocked()
	s.mu.Unlock()
	if fire {
		s.fireVisibility(vis)
	}
	return true
}

// HandleTab wraps focus at the sidebar edges while visible: Tab on the
// last focusable moves to the first, Shift+Tab on the first moves to the
// last. It reports whether the key was consumed.
func (s *Sidebar) HandleTab(shift bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible || s.focus == nil {
		return false
	}
	cur, ok := s.focus.Current()
	if !ok {
		return false
	}
	if shift {
		first, ok := s.focus.First()
		if ok && cur == first {
			if last, ok := s.focus.Last(); ok {
				s.focus.Focus(last)
				return true
			}
		}
		return false
	}
	last, ok := s.focus.Last()
	if ok && cur == last {
		if first, ok := s.focus.First(); ok {
			s.focus.Focus(first)
			return true
		}
	}
	return false
}

// showLocked flips to visible. It returns whether the caller must fire the
// visibility callback (outside the lock) and the new value.
func (s *Sidebar) showLocked() (bool, bool) {
	if s.visible {
		return false, true
	}
	s.visible = true
	s.setAnimLocked(AnimEntering)

	if s.focus != nil {
		if cur, ok := s.focus.Current(); ok {
			s.remembered = cur
			s.hasRemembered = true
		}
		s.focusSeq++
		seq := s.focusSeq
		if s.focusTimer != nil {
			s.focusTimer.Stop()
		}
		// Focus moves only after the show transition completes.
		s.focusTimer = s.clock.AfterFunc(s.cfg.AnimationDuration, func() {
			s.mu.Lock()
			if seq != s.focusSeq || !s.visible {
				s.mu.Unlock()
				return
			}
			s.focusTimer = nil
			first, ok := s.focus.First()
			s.mu.Unlock()
			if ok {
				s.focus.Focus(first)
			}
		})
	}
	return true, true
}

// hideLocked flips to hidden and restores the remembered focus if its
// element is still attached.
func (s *Sidebar) hideLocked() (bool, bool) {
	if !s.visible {
		return false, false
	}
	s.visible = false
	s.setAnimLocked(AnimExiting)
	s.cancelHideLocked()

	s.focusSeq++
	if s.focusTimer != nil {
		s.focusTimer.Stop()
		s.focusTimer = nil
	}
	if s.focus != nil && s.hasRemembered {
		if s.focus.Attached(s.remembered) {
			s.focus.Focus(s.remembered)
		}
	}
	s.remembered = ""
	s.hasRemembered = false
	return true, false
}

func (s *Sidebar) setAnimLocked(state AnimationState) {
	s.anim = state
	s.animSeq++
	seq := s.animSeq
	if s.animTimer != nil {
		s.animTimer.Stop()
	}
	s.animTimer = s.clock.AfterFunc(s.cfg.AnimationDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.animSeq {
			return
		}
		s.anim = AnimIdle
		s.animTimer = nil
	})
}

func (s *Sidebar) fireVisibility(visible bool) {
	if s.OnVisibilityChange != nil {
		s.OnVisibilityChange(visible)
	}
}

// Dispose cancels every outstanding timer; timers firing afterwards are
// no-ops.
func (s *Sidebar) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideSeq++
	s.focusSeq++
	s.animSeq++
	for _, t := range []Timer{s.hideTimer, s.focusTimer, s.animTimer} {
		if t != nil {
			t.Stop()
		}
	}
	s.hideTimer, s.focusTimer, s.animTimer = nil, nil, nil
	s.touchStart = nil
}
