package prefs

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Darhlilove/dashly-sub001/pkg/layout"
)

func newTestStore() (*Store, *MemoryStorage) {
	storage := NewMemoryStorage()
	return NewStore(storage, layout.DefaultSplitPaneConfig()), storage
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	store, _ := newTestStore()
	p := store.Load(layout.BreakpointDesktop)
	want := DefaultLayoutPreferences(layout.BreakpointDesktop)
	if p != want {
		t.Errorf("expected defaults %+v, got %+v", want, p)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	p := DefaultLayoutPreferences(layout.BreakpointDesktop)
	p.ChatPaneWidth = 45
	p.DashboardPaneWidth = 55
	p.CurrentView = layout.ViewDashboard
	p.SidebarVisible = true

	store.Save(p, layout.BreakpointDesktop)
	got := store.Load(layout.BreakpointDesktop)

	if got.ChatPaneWidth != 45 {
		t.Errorf("expected chat width 45, got %v", got.ChatPaneWidth)
	}
	if got.DashboardPaneWidth != 55 {
		t.Errorf("expected dashboard width 55, got %v", got.DashboardPaneWidth)
	}
	if got.CurrentView != layout.ViewDashboard {
		t.Errorf("expected dashboard view, got %s", got.CurrentView)
	}
	if !got.SidebarVisible {
		t.Error("expected sidebar visible to persist")
	}
}

func TestSaveClampsOutOfBoundsWidth(t *testing.T) {
	store, _ := newTestStore()

	tests := []struct {
		name  string
		width float64
		want  float64
	}{
		{"below minimum", 5, 20},
		{"above maximum", 90, 60},
		{"at minimum", 20, 20},
		{"at maximum", 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultLayoutPreferences(layout.BreakpointDesktop)
			p.ChatPaneWidth = tt.width
			store.Save(p, layout.BreakpointDesktop)

			got := store.Load(layout.BreakpointDesktop)
			if got.ChatPaneWidth != tt.want {
				t.Errorf("width %v: expected clamped %v, got %v", tt.width, tt.want, got.ChatPaneWidth)
			}
			if got.DashboardPaneWidth != 100-tt.want {
				t.Errorf("width %v: dashboard should be %v, got %v", tt.width, 100-tt.want, got.DashboardPaneWidth)
			}
		})
	}
}

func TestLoadIsDeterministic(t *testing.T) {
	store, _ := newTestStore()
	p := DefaultLayoutPreferences(layout.BreakpointTablet)
	p.ChatPaneWidth = 150
	store.Save(p, layout.BreakpointTablet)

	first := store.Load(layout.BreakpointTablet)
	second := store.Load(layout.BreakpointTablet)
	if first != second {
		t.Errorf("repeated loads differ: %+v vs %+v", first, second)
	}
}

func TestSavePreservesOtherBreakpoints(t *testing.T) {
	store, _ := newTestStore()

	desktop := DefaultLayoutPreferences(layout.BreakpointDesktop)
	desktop.ChatPaneWidth = 50
	store.Save(desktop, layout.BreakpointDesktop)

	tablet := DefaultLayoutPreferences(layout.BreakpointTablet)
	tablet.ChatPaneWidth = 25
	store.Save(tablet, layout.BreakpointTablet)

	if got := store.Load(layout.BreakpointDesktop).ChatPaneWidth; got != 50 {
		t.Errorf("desktop entry lost after tablet save: got %v", got)
	}
	if got := store.Load(layout.BreakpointTablet).ChatPaneWidth; got != 25 {
		t.Errorf("expected tablet width 25, got %v", got)
	}
}

func TestLoadMalformedRecordReturnsDefaults(t *testing.T) {
	store, storage := newTestStore()
	storage.Set(layoutKey, "{not json")

	p := store.Load(layout.BreakpointDesktop)
	want := DefaultLayoutPreferences(layout.BreakpointDesktop)
	if p != want {
		t.Errorf("expected defaults for malformed record, got %+v", p)
	}
}

func TestLoadCoercesFieldsIndependently(t *testing.T) {
	store, storage := newTestStore()

	// One bad field must not poison the valid ones.
	rec := map[string]any{
		"version": LayoutVersion,
		"breakpoints": map[string]any{
			"desktop": map[string]any{
				"chat_pane_width": 42.0,
				"current_view":    "sideways",
				"sidebar_visible": true,
			},
		},
	}
	data, _ := json.Marshal(rec)
	storage.Set(layoutKey, string(data))

	p := store.Load(layout.BreakpointDesktop)
	if p.ChatPaneWidth != 42 {
		t.Errorf("expected valid width 42 to survive, got %v", p.ChatPaneWidth)
	}
	if p.CurrentView != layout.ViewData {
		t.Errorf("expected invalid view to revert to default, got %s", p.CurrentView)
	}
	if !p.SidebarVisible {
		t.Error("expected valid sidebar flag to survive")
	}
}

func TestLoadRejectsNonFiniteWidth(t *testing.T) {
	store, storage := newTestStore()
	// NaN cannot survive json.Marshal; write it by hand.
	storage.Set(layoutKey, `{"version":3,"breakpoints":{"desktop":{"chat_pane_width":1e400}}}`)

	p := store.Load(layout.BreakpointDesktop)
	want := DefaultLayoutPreferences(layout.BreakpointDesktop).ChatPaneWidth
	if p.ChatPaneWidth != want || math.IsInf(p.ChatPaneWidth, 0) {
		t.Errorf("expected default width %v for non-finite value, got %v", want, p.ChatPaneWidth)
	}
}

func TestReset(t *testing.T) {
	store, _ := newTestStore()

	desktop := DefaultLayoutPreferences(layout.BreakpointDesktop)
	desktop.ChatPaneWidth = 55
	store.Save(desktop, layout.BreakpointDesktop)
	tablet := DefaultLayoutPreferences(layout.BreakpointTablet)
	tablet.ChatPaneWidth = 22
	store.Save(tablet, layout.BreakpointTablet)

	got := store.Reset(layout.BreakpointDesktop)
	if got != DefaultLayoutPreferences(layout.BreakpointDesktop) {
		t.Errorf("reset should return defaults, got %+v", got)
	}
	if w := store.Load(layout.BreakpointDesktop).ChatPaneWidth; w != DefaultLayoutPreferences(layout.BreakpointDesktop).ChatPaneWidth {
		t.Errorf("desktop entry should be gone, got width %v", w)
	}
	if w := store.Load(layout.BreakpointTablet).ChatPaneWidth; w != 22 {
		t.Errorf("tablet entry should survive a desktop reset, got %v", w)
	}
}

func TestResetAll(t *testing.T) {
	store, storage := newTestStore()
	p := DefaultLayoutPreferences(layout.BreakpointDesktop)
	p.ChatPaneWidth = 55
	store.Save(p, layout.BreakpointDesktop)

	store.ResetAll()
	if _, ok := storage.Get(layoutKey); ok {
		t.Error("expected layout record removed")
	}
}

func TestMigrateFlatRecordFansOut(t *testing.T) {
	store, storage := newTestStore()
	storage.Set(layoutKey, `{"version":1,"chat_pane_width":48,"current_view":"dashboard","sidebar_visible":true}`)

	store.Migrate()

	for _, bp := range []layout.Breakpoint{layout.BreakpointMobile, layout.BreakpointTablet, layout.BreakpointDesktop} {
		p := store.Load(bp)
		if p.ChatPaneWidth != 48 {
			t.Errorf("%s: expected fanned-out width 48, got %v", bp, p.ChatPaneWidth)
		}
		if p.CurrentView != layout.ViewDashboard {
			t.Errorf("%s: expected fanned-out view, got %s", bp, p.CurrentView)
		}
		if !p.SidebarVisible {
			t.Errorf("%s: expected fanned-out sidebar flag", bp)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store, storage := newTestStore()
	storage.Set(layoutKey, `{"version":1,"chat_pane_width":48}`)

	store.Migrate()
	after1, _ := storage.Get(layoutKey)
	store.Migrate()
	after2, _ := storage.Get(layoutKey)

	if after1 != after2 {
		t.Errorf("second migrate changed the record:\n%s\nvs\n%s", after1, after2)
	}
}

func TestMigrateResetsStaleVersion(t *testing.T) {
	store, storage := newTestStore()
	storage.Set(layoutKey, `{"version":2,"breakpoints":{"desktop":{"chat_pane_width":45}}}`)

	store.Migrate()
	if _, ok := storage.Get(layoutKey); ok {
		t.Error("expected stale-version record removed")
	}
}

func TestMigrateResetsLegacyDefaultWidths(t *testing.T) {
	tests := []struct {
		name  string
		width string
	}{
		{"old desktop default", "35"},
		{"old sixth split", "16.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, storage := newTestStore()
			storage.Set(layoutKey, `{"version":3,"breakpoints":{"desktop":{"chat_pane_width":`+tt.width+`}}}`)

			store.Migrate()
			if _, ok := storage.Get(layoutKey); ok {
				t.Errorf("expected record carrying legacy width %s removed", tt.width)
			}
		})
	}
}

func TestMigrateLeavesCurrentRecordAlone(t *testing.T) {
	store, storage := newTestStore()
	p := DefaultLayoutPreferences(layout.BreakpointDesktop)
	p.ChatPaneWidth = 45
	store.Save(p, layout.BreakpointDesktop)
	before, _ := storage.Get(layoutKey)

	store.Migrate()
	after, _ := storage.Get(layoutKey)
	if before != after {
		t.Errorf("migrate modified an up-to-date record:\n%s\nvs\n%s", before, after)
	}
}

func TestMigrateResetsUnreadableRecord(t *testing.T) {
	store, storage := newTestStore()
	storage.Set(layoutKey, "garbage")

	store.Migrate()
	if _, ok := storage.Get(layoutKey); ok {
		t.Error("expected unreadable record removed")
	}
}

func TestUserPreferencesRoundTrip(t *testing.T) {
	store, _ := newTestStore()

	p := DefaultUserPreferences()
	p.Animation.Enabled = false
	p.Animation.ReducedMotion = true
	p.Accessibility.HighContrast = true
	p.UI.PageSize = 100
	store.SaveUser(p)

	got := store.LoadUser()
	if got.Animation.Enabled {
		t.Error("expected animation disabled to persist")
	}
	if !got.Animation.ReducedMotion {
		t.Error("expected reduced motion to persist")
	}
	if !got.Accessibility.HighContrast {
		t.Error("expected high contrast to persist")
	}
	if got.UI.PageSize != 100 {
		t.Errorf("expected page size 100, got %d", got.UI.PageSize)
	}
}

func TestUserPreferencesNormalizedOnLoad(t *testing.T) {
	store, _ := newTestStore()

	p := DefaultUserPreferences()
	p.Animation.DurationMS = 9000
	p.UI.PageSize = 2
	store.SaveUser(p)

	got := store.LoadUser()
	if got.Animation.DurationMS != 1000 {
		t.Errorf("expected duration clamped to 1000, got %d", got.Animation.DurationMS)
	}
	if got.UI.PageSize != 10 {
		t.Errorf("expected page size clamped to 10, got %d", got.UI.PageSize)
	}
}

func TestUserPreferencesMalformedReturnsDefaults(t *testing.T) {
	store, storage := newTestStore()
	storage.Set(userKey, "{broken")

	got := store.LoadUser()
	if got != DefaultUserPreferences() {
		t.Errorf("expected defaults for malformed envelope, got %+v", got)
	}
}
