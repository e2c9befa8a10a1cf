package prefs

import (
	"encoding/json"
	"log"
	"math"

	"github.com/Darhlilove/dashly-sub001/pkg/layout"
)

// Storage keys. One record holds every breakpoint's layout entry; the
// user envelope lives under its own key with an independent version.
const (
	layoutKey = "dashly.layout"
	userKey   = "dashly.user"
)

// Store is the preference store: it validates everything it reads, merges
// everything it writes, and never lets a persistence error reach its
// callers. It is the only shared mutable resource between layout
// components; writes are serialized by the single event loop, so
// read-merge-write needs no locking beyond the store's own.
type Store struct {
	storage          Storage
	minChat, maxChat float64
}

// NewStore creates a store bounded by the split-pane configuration.
func NewStore(storage Storage, cfg layout.SplitPaneConfig) *Store {
	minChat, maxChat := cfg.MinChatPercent, cfg.MaxChatPercent
	if minChat == 0 && maxChat == 0 {
		d := layout.DefaultSplitPaneConfig()
		minChat, maxChat = d.MinChatPercent, d.MaxChatPercent
	}
	return &Store{storage: storage, minChat: minChat, maxChat: maxChat}
}

// layoutRecord is the persisted multi-breakpoint document. Entries are
// kept weakly typed so a single corrupt field reverts to its default
// instead of failing the whole load.
type layoutRecord struct {
	Version     int                       `json:"version"`
	Breakpoints map[string]map[string]any `json:"breakpoints"`
}

func (s *Store) readRecord() (layoutRecord, bool) {
	raw, ok := s.storage.Get(layoutKey)
	if !ok {
		return layoutRecord{}, false
	}
	var rec layoutRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Printf("Warning: malformed layout preferences, using defaults: %v", err)
		return layoutRecord{}, false
	}
	if rec.Breakpoints == nil {
		rec.Breakpoints = make(map[string]map[string]any)
	}
	return rec, true
}

func (s *Store) writeRecord(rec layoutRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("Warning: could not encode layout preferences: %v", err)
		return
	}
	if err := s.storage.Set(layoutKey, string(data)); err != nil {
		log.Printf("Warning: could not save layout preferences: %v", err)
	}
}

// Load returns the preferences for a breakpoint. An absent or invalid
// record yields defaults; individual invalid fields revert to their own
// defaults; the chat width is always re-clamped, never trusted raw.
func (s *Store) Load(bp layout.Breakpoint) LayoutPreferences {
	p := DefaultLayoutPreferences(bp)
	rec, ok := s.readRecord()
	if !ok {
		return p
	}
	entry, ok := rec.Breakpoints[string(bp)]
	if !ok {
		return p
	}

	if w, ok := entry["chat_pane_width"].(float64); ok && !math.IsNaN(w) && !math.IsInf(w, 0) {
		p.ChatPaneWidth = clamp(w, s.minChat, s.maxChat)
	}
	p.DashboardPaneWidth = 100 - p.ChatPaneWidth
	if v, ok := entry["current_view"].(string); ok && layout.View(v).IsValid() {
		p.CurrentView = layout.View(v)
	}
	if b, ok := entry["sidebar_visible"].(bool); ok {
		p.SidebarVisible = b
	}
	if lb, ok := entry["last_breakpoint"].(string); ok && layout.Breakpoint(lb).IsValid() {
		p.LastBreakpoint = layout.Breakpoint(lb)
	}
	p.Version = LayoutVersion
	return p
}

// Save merges the given preferences into the stored record, overwriting
// only that breakpoint's entry. Other breakpoints' entries survive
// (read-merge-write, never read-replace-write).
func (s *Store) Save(p LayoutPreferences, bp layout.Breakpoint) {
	rec, ok := s.readRecord()
	if !ok {
		rec = layoutRecord{Breakpoints: make(map[string]map[string]any)}
	}
	rec.Version = LayoutVersion

	chat := clamp(p.ChatPaneWidth, s.minChat, s.maxChat)
	view := p.CurrentView
	if !view.IsValid() {
		view = DefaultLayoutPreferences(bp).CurrentView
	}
	rec.Breakpoints[string(bp)] = map[string]any{
		"chat_pane_width":      chat,
		"dashboard_pane_width": 100 - chat,
		"current_view":         string(view),
		"sidebar_visible":      p.SidebarVisible,
		"last_breakpoint":      string(bp),
		"version":              LayoutVersion,
	}
	s.writeRecord(rec)
}

// Reset deletes one breakpoint's entry and returns its defaults.
func (s *Store) Reset(bp layout.Breakpoint) LayoutPreferences {
	if rec, ok := s.readRecord(); ok {
		delete(rec.Breakpoints, string(bp))
		s.writeRecord(rec)
	}
	return DefaultLayoutPreferences(bp)
}

// ResetAll deletes the entire layout record.
func (s *Store) ResetAll() {
	if err := s.storage.Remove(layoutKey); err != nil {
		log.Printf("Warning: could not clear layout preferences: %v", err)
	}
}

// Migrate upgrades or discards outdated stored shapes. It must run once
// at startup, before any Load, and is idempotent:
//
//   - a pre-breakpoint-aware flat record is fanned out into the mobile,
//     tablet, and desktop slots with identical values;
//   - a record below the current version, or one carrying a superseded
//     default chat width, is reset wholesale.
func (s *Store) Migrate() {
	raw, ok := s.storage.Get(layoutKey)
	if !ok {
		return
	}

	var probe map[string]any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		log.Printf("Warning: unreadable layout preferences, resetting: %v", err)
		s.ResetAll()
		return
	}

	if _, flat := probe["chat_pane_width"]; flat {
		s.fanOutFlatRecord(probe)
		return
	}

	rec, ok := s.readRecord()
	if !ok {
		s.ResetAll()
		return
	}
	if rec.Version < LayoutVersion {
		s.ResetAll()
		return
	}
	for _, entry := range rec.Breakpoints {
		if w, ok := entry["chat_pane_width"].(float64); ok && isLegacyWidth(w) {
			s.ResetAll()
			return
		}
	}
}

// fanOutFlatRecord converts a single flat pre-breakpoint record into
// identical per-breakpoint entries.
func (s *Store) fanOutFlatRecord(probe map[string]any) {
	chat := DefaultLayoutPreferences(layout.BreakpointDesktop).ChatPaneWidth
	if w, ok := probe["chat_pane_width"].(float64); ok && !math.IsNaN(w) && !isLegacyWidth(w) {
		chat = clamp(w, s.minChat, s.maxChat)
	}
	view := string(layout.ViewData)
	if v, ok := probe["current_view"].(string); ok && layout.View(v).IsValid() {
		view = v
	}
	sidebar := false
	if b, ok := probe["sidebar_visible"].(bool); ok {
		sidebar = b
	}

	rec := layoutRecord{Version: LayoutVersion, Breakpoints: make(map[string]map[string]any)}
	for _, bp := range []layout.Breakpoint{layout.BreakpointMobile, layout.BreakpointTablet, layout.BreakpointDesktop} {
		rec.Breakpoints[string(bp)] = map[string]any{
			"chat_pane_width":      chat,
			"dashboard_pane_width": 100 - chat,
			"current_view":         view,
			"sidebar_visible":      sidebar,
			"last_breakpoint":      string(bp),
			"version":              LayoutVersion,
		}
	}
	s.writeRecord(rec)
}

func isLegacyWidth(w float64) bool {
	for _, legacy := range legacyChatDefaults {
		if math.Abs(w-legacy) < 0.005 {
			return true
		}
	}
	return false
}

// LoadUser returns the user preference envelope, normalized. An absent,
// malformed, or outdated envelope yields defaults.
func (s *Store) LoadUser() UserPreferences {
	raw, ok := s.storage.Get(userKey)
	if !ok {
		return DefaultUserPreferences()
	}
	var p UserPreferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("Warning: malformed user preferences, using defaults: %v", err)
		return DefaultUserPreferences()
	}
	if p.Version < UserVersion {
		return DefaultUserPreferences()
	}
	return p.normalize()
}

// SaveUser persists the envelope after normalizing bounded fields.
func (s *Store) SaveUser(p UserPreferences) {
	data, err := json.Marshal(p.normalize())
	if err != nil {
		log.Printf("Warning: could not encode user preferences: %v", err)
		return
	}
	if err := s.storage.Set(userKey, string(data)); err != nil {
		log.Printf("Warning: could not save user preferences: %v", err)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
