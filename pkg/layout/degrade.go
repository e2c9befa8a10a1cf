package layout

import (
	"fmt"
	"log"
	"runtime"
	"sort"
	"time"
)

// TableMode selects how the data table renders.
type TableMode string

const (
	TableVirtual   TableMode = "virtual"
	TablePaginated TableMode = "paginated"
	TableSimple    TableMode = "simple"
)

// Capabilities describes what the host environment supports. The terminal
// frontend fills this from the detected terminal; tests construct it
// directly.
type Capabilities struct {
	Mouse     bool
	AltScreen bool
	Color     bool
	Unicode   bool
	Storage   bool
}

// FullCapabilities returns a host that supports everything.
func FullCapabilities() Capabilities {
	return Capabilities{Mouse: true, AltScreen: true, Color: true, Unicode: true, Storage: true}
}

// PerformanceClass is a coarse device speed bucket.
type PerformanceClass string

const (
	PerfLow  PerformanceClass = "low"
	PerfMid  PerformanceClass = "mid"
	PerfHigh PerformanceClass = "high"
)

// DetectPerformance buckets the device from its logical CPU count. Memory
// is not portably detectable, so the middle bucket is the fallback
// whenever the signal is weak.
func DetectPerformance() PerformanceClass {
	switch cpus := runtime.NumCPU(); {
	case cpus <= 2:
		return PerfLow
	case cpus >= 12:
		return PerfHigh
	default:
		return PerfMid
	}
}

// Signals carries coarse environment hints that force cheaper behavior.
type Signals struct {
	SlowNetwork bool
	DataSaver   bool
}

// Features toggles optional data-table behaviors.
type Features struct {
	Search       bool
	Sort         bool
	Export       bool
	ColumnResize bool
}

// AdaptiveConfig is the derived behavior configuration the interactive
// components run under.
type AdaptiveConfig struct {
	ResizeEnabled     bool
	AnimationsEnabled bool
	SidebarMode       SidebarMode
	TableMode         TableMode
	ScrollBuffer      int
	AnimationDuration time.Duration
	DebounceDelay     time.Duration
	Features          Features
}

// shortScrollBuffer caps the virtual-scroll buffer on very short viewports.
const shortScrollBuffer = 10

// ComputeAdaptiveConfig derives the configuration from viewport constraint
// tags, host capabilities, performance class, and environment signals. It
// is pure: same inputs, same output. Extreme constraint tags apply hard
// overrides after the capability/performance baseline.
func ComputeAdaptiveConfig(tags ConstraintSet, caps Capabilities, perf PerformanceClass, sig Signals) AdaptiveConfig {
	cfg := AdaptiveConfig{
		ResizeEnabled:     true,
		AnimationsEnabled: true,
		SidebarMode:       SidebarAutoHide,
		TableMode:         TableVirtual,
		ScrollBuffer:      50,
		AnimationDuration: 250 * time.Millisecond,
		DebounceDelay:     500 * time.Millisecond,
		Features:          Features{Search: true, Sort: true, Export: true, ColumnResize: true},
	}

	switch perf {
	case PerfLow:
		cfg.AnimationsEnabled = false
		cfg.AnimationDuration = 0
		cfg.TableMode = TablePaginated
		cfg.ScrollBuffer = 20
		cfg.DebounceDelay = time.Second
		cfg.Features.ColumnResize = false
	case PerfMid:
		cfg.ScrollBuffer = 30
	}

	if !caps.Mouse {
		// No pointer: the trigger zone and drag handle are unusable, so
		// the sidebar opens through toggles only. Keyboard resize stays.
		cfg.SidebarMode = SidebarOverlay
	}
	if !caps.Color || !caps.AltScreen {
		cfg.AnimationsEnabled = false
		cfg.AnimationDuration = 0
	}
	if !caps.Unicode {
		cfg.TableMode = TableSimple
	}

	// Hard overrides from extreme viewport constraints.
	if tags.Has(TagVeryNarrow) {
		cfg.TableMode = TableSimple
		cfg.Features.ColumnResize = false
	}
	if tags.Has(TagExtremelyNarrow) {
		cfg.ResizeEnabled = false
		cfg.SidebarMode = SidebarOverlay
	}
	if tags.Has(TagVeryShort) {
		cfg.SidebarMode = SidebarOverlay
		if cfg.ScrollBuffer > shortScrollBuffer {
			cfg.ScrollBuffer = shortScrollBuffer
		}
	}
	if tags.Has(TagExtremeAspectRatio) {
		cfg.AnimationsEnabled = false
		cfg.AnimationDuration = 0
	}
	if sig.SlowNetwork || sig.DataSaver {
		cfg.AnimationDuration = 0
	}

	return cfg
}

// Reporter is the one-way degradation reporting sink: fire-and-forget,
// never blocks or panics back into the caller.
type Reporter interface {
	Report(component, strategy string, meta map[string]any)
}

// LogReporter writes degradation events through the standard logger.
type LogReporter struct{}

// Report logs the event with its metadata in a stable key order.
func (LogReporter) Report(component, strategy string, meta map[string]any) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	line := ""
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, meta[k])
	}
	log.Printf("degraded: component=%s strategy=%s%s", component, strategy, line)
}

// NopReporter discards events.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(string, string, map[string]any) {}
