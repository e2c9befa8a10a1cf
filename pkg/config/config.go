// Package config loads the optional dashly configuration file from
// ~/.config/dashly/config.yaml. A missing file yields defaults; a
// malformed file yields defaults with a warning, never an error.
package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Darhlilove/dashly-sub001/pkg/layout"
)

const (
	configDir      = "dashly"
	configFileName = "config.yaml"
)

// Config is the top-level configuration.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Layout     LayoutConfig     `yaml:"layout"`
	Sidebar    SidebarConfig    `yaml:"sidebar"`
	Animation  AnimationConfig  `yaml:"animation"`
	Watch      WatchConfig      `yaml:"watch"`
	StorageDir string           `yaml:"storage_dir"`
}

// DatasetConfig points at the data to load on startup.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// LayoutConfig tunes breakpoint thresholds and split-pane behavior.
// Thresholds are in layout pixels.
type LayoutConfig struct {
	TabletThreshold       int     `yaml:"tablet_threshold"`
	DesktopThreshold      int     `yaml:"desktop_threshold"`
	LargeDesktopThreshold int     `yaml:"large_desktop_threshold"`
	SnapThreshold         float64 `yaml:"snap_threshold"`
}

// SidebarConfig tunes the auto-hide sidebar.
type SidebarConfig struct {
	TriggerWidth int           `yaml:"trigger_width"`
	HideDelay    time.Duration `yaml:"hide_delay"`
}

// AnimationConfig holds motion settings.
type AnimationConfig struct {
	ReducedMotion bool `yaml:"reduced_motion"`
}

// WatchConfig controls dataset file watching.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	bt := layout.DefaultThresholds()
	sp := layout.DefaultSplitPaneConfig()
	sb := layout.DefaultSidebarConfig()
	return Config{
		Layout: LayoutConfig{
			TabletThreshold:       bt.Tablet,
			DesktopThreshold:      bt.Desktop,
			LargeDesktopThreshold: bt.LargeDesktop,
			SnapThreshold:         sp.SnapThreshold,
		},
		Sidebar: SidebarConfig{
			TriggerWidth: sb.TriggerWidth,
			HideDelay:    sb.HideDelay,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 250 * time.Millisecond,
		},
	}
}

// DefaultPath returns the expected config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", configDir, configFileName)
	}
	return filepath.Join(base, configDir, configFileName)
}

// Load reads the config file at path, falling back to DefaultPath when
// path is empty. Absent keys keep their defaults.
func Load(path string) Config {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not read config %s: %v", path, err)
		}
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("Warning: malformed config %s, using defaults: %v", path, err)
		return Default()
	}
	return cfg.sanitize()
}

// sanitize clamps values that would break the layout engine back to
// their defaults.
func (c Config) sanitize() Config {
	def := Default()
	if c.Layout.TabletThreshold <= 0 ||
		c.Layout.DesktopThreshold <= c.Layout.TabletThreshold ||
		c.Layout.LargeDesktopThreshold <= c.Layout.DesktopThreshold {
		c.Layout.TabletThreshold = def.Layout.TabletThreshold
		c.Layout.DesktopThreshold = def.Layout.DesktopThreshold
		c.Layout.LargeDesktopThreshold = def.Layout.LargeDesktopThreshold
	}
	if c.Layout.SnapThreshold < 0 {
		c.Layout.SnapThreshold = def.Layout.SnapThreshold
	}
	if c.Sidebar.TriggerWidth <= 0 {
		c.Sidebar.TriggerWidth = def.Sidebar.TriggerWidth
	}
	// Zero is a valid setting (instant hide); only negatives are garbage.
	// An absent key never reaches here as zero because Load unmarshals
	// over the defaults.
	if c.Sidebar.HideDelay < 0 {
		c.Sidebar.HideDelay = def.Sidebar.HideDelay
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = def.Watch.Debounce
	}
	return c
}

// Thresholds converts the layout section into engine thresholds.
func (c Config) Thresholds() layout.Thresholds {
	return layout.Thresholds{
		Tablet:       c.Layout.TabletThreshold,
		Desktop:      c.Layout.DesktopThreshold,
		LargeDesktop: c.Layout.LargeDesktopThreshold,
	}
}
