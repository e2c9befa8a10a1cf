package prefs

import (
	"github.com/Darhlilove/dashly-sub001/pkg/layout"
)

// LayoutVersion is the current layout preference schema version. Bumping
// it invalidates every stored layout record (forward-only migration).
const LayoutVersion = 3

// UserVersion is the schema version of the UserPreferences envelope,
// counted independently of the layout schema.
const UserVersion = 1

// Superseded default chat widths from earlier releases. A stored record
// carrying one of these was written before the defaults changed and is
// reset rather than migrated.
var legacyChatDefaults = []float64{35, 16.67}

// LayoutPreferences is the persisted layout state for one breakpoint.
type LayoutPreferences struct {
	ChatPaneWidth      float64           `json:"chat_pane_width"`
	DashboardPaneWidth float64           `json:"dashboard_pane_width"`
	CurrentView        layout.View       `json:"current_view"`
	SidebarVisible     bool              `json:"sidebar_visible"`
	LastBreakpoint     layout.Breakpoint `json:"last_breakpoint"`
	Version            int               `json:"version"`
}

// DefaultLayoutPreferences returns the defaults for a breakpoint.
func DefaultLayoutPreferences(bp layout.Breakpoint) LayoutPreferences {
	width := layout.DefaultSplitPaneConfig().Defaults[bp]
	if width == 0 || !bp.IsValid() {
		width = layout.DefaultSplitPaneConfig().Defaults[layout.BreakpointDesktop]
	}
	return LayoutPreferences{
		ChatPaneWidth:      width,
		DashboardPaneWidth: 100 - width,
		CurrentView:        layout.ViewData,
		SidebarVisible:     false,
		LastBreakpoint:     bp,
		Version:            LayoutVersion,
	}
}

// AnimationPreferences is a flat option bag for motion settings.
type AnimationPreferences struct {
	Enabled       bool `json:"enabled"`
	DurationMS    int  `json:"duration_ms"`
	ReducedMotion bool `json:"reduced_motion"`
}

// AccessibilityPreferences is a flat option bag for accessibility
// settings.
type AccessibilityPreferences struct {
	HighContrast  bool `json:"high_contrast"`
	KeyboardHints bool `json:"keyboard_hints"`
	FocusTrap     bool `json:"focus_trap"`
}

// UIPreferences is a flat option bag for miscellaneous UI settings.
type UIPreferences struct {
	ShowHelpFooter  bool `json:"show_help_footer"`
	TableRowNumbers bool `json:"table_row_numbers"`
	PageSize        int  `json:"page_size"`
}

// UserPreferences combines the option bags under one envelope with its
// own version counter.
type UserPreferences struct {
	Version       int                      `json:"version"`
	Animation     AnimationPreferences     `json:"animation"`
	Accessibility AccessibilityPreferences `json:"accessibility"`
	UI            UIPreferences            `json:"ui"`
}

// Bounds for validated integer options.
const (
	maxAnimationMS = 1000
	minPageSize    = 10
	maxPageSize    = 500
)

// DefaultUserPreferences returns the stock envelope.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Version: UserVersion,
		Animation: AnimationPreferences{
			Enabled:    true,
			DurationMS: 250,
		},
		Accessibility: AccessibilityPreferences{
			KeyboardHints: true,
			FocusTrap:     true,
		},
		UI: UIPreferences{
			ShowHelpFooter:  true,
			TableRowNumbers: false,
			PageSize:        50,
		},
	}
}

// normalize clamps the bounded fields into range.
func (p UserPreferences) normalize() UserPreferences {
	if p.Animation.DurationMS < 0 {
		p.Animation.DurationMS = 0
	}
	if p.Animation.DurationMS > maxAnimationMS {
		p.Animation.DurationMS = maxAnimationMS
	}
	if p.UI.PageSize < minPageSize {
		p.UI.PageSize = minPageSize
	}
	if p.UI.PageSize > maxPageSize {
		p.UI.PageSize = maxPageSize
	}
	p.Version = UserVersion
	return p
}
