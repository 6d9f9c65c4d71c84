// Package config loads the hub's TOML configuration: daemon settings,
// per-tool blocks, and persisted hotkey registrations.
package config

import (
	"fmt"
	"time"

	"github.com/loykin/toolhub/internal/catalog"
	"github.com/loykin/toolhub/internal/hotkey"
	"github.com/loykin/toolhub/internal/logger"
	"github.com/loykin/toolhub/internal/store"
	"github.com/spf13/viper"
)

const (
	DefaultListen            = "127.0.0.1:8390"
	DefaultBasePath          = "/api"
	DefaultReconcileInterval = 2 * time.Second
	DefaultScanInterval      = 30 * time.Second
)

// FileConfig represents the top-level TOML structure.
type FileConfig struct {
	Listen            string         `toml:"listen" mapstructure:"listen"`
	BasePath          string         `toml:"base_path" mapstructure:"base_path"`
	Metrics           bool           `toml:"metrics" mapstructure:"metrics"`
	ReconcileInterval time.Duration  `toml:"reconcile_interval" mapstructure:"reconcile_interval"`
	ScanInterval      time.Duration  `toml:"scan_interval" mapstructure:"scan_interval"`
	StderrDir         string         `toml:"stderr_dir" mapstructure:"stderr_dir"`
	EnvFile           string         `toml:"env_file" mapstructure:"env_file"`
	Log               *logger.Config `toml:"log" mapstructure:"log"`
	Store             *store.Config  `toml:"store" mapstructure:"store"`
	Tools             []ToolConfig   `toml:"tools" mapstructure:"tools"`
	Hotkeys           []HotkeyEntry  `toml:"hotkeys" mapstructure:"hotkeys"`
}

// ToolConfig is one [[tools]] block.
type ToolConfig struct {
	Name        string            `toml:"name" mapstructure:"name"`
	Enabled     *bool             `toml:"enabled" mapstructure:"enabled"`
	Autostart   bool              `toml:"autostart" mapstructure:"autostart"`
	Hotkey      string            `toml:"hotkey" mapstructure:"hotkey"`
	SpecialCode uint32            `toml:"special_code" mapstructure:"special_code"`
	Settings    map[string]string `toml:"settings" mapstructure:"settings"`
}

// HotkeyEntry is one persisted [[hotkeys]] registration.
type HotkeyEntry struct {
	Tool   string `toml:"tool" mapstructure:"tool"`
	Action string `toml:"action" mapstructure:"action"`
	Chord  string `toml:"chord" mapstructure:"chord"`
}

// Tool is the resolved per-tool configuration.
type Tool struct {
	Enabled   bool
	Autostart bool
	Hotkey    hotkey.Key
	Modifiers hotkey.Modifiers
	Settings  map[string]string
}

// Config is the validated, parsed form handed to the daemon.
type Config struct {
	Listen            string
	BasePath          string
	Metrics           bool
	ReconcileInterval time.Duration
	ScanInterval      time.Duration
	StderrDir         string
	EnvFile           string
	Log               logger.Config
	Store             store.Config
	Tools             map[catalog.ID]Tool
	Hotkeys           []hotkey.Registered
}

// Load reads and validates the TOML file at path. Unknown tool names and
// unparseable chords are errors so a typo surfaces at startup, not as a
// hotkey that silently never fires.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, err
	}
	return resolve(fc)
}

func resolve(fc FileConfig) (*Config, error) {
	cfg := &Config{
		Listen:            fc.Listen,
		BasePath:          fc.BasePath,
		Metrics:           fc.Metrics,
		ReconcileInterval: fc.ReconcileInterval,
		ScanInterval:      fc.ScanInterval,
		StderrDir:         fc.StderrDir,
		EnvFile:           fc.EnvFile,
		Tools:             make(map[catalog.ID]Tool),
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.BasePath == "" {
		cfg.BasePath = DefaultBasePath
	}
	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = DefaultReconcileInterval
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = DefaultScanInterval
	}
	if fc.Log != nil {
		cfg.Log = *fc.Log
	}
	if fc.Store != nil {
		cfg.Store = *fc.Store
	}

	// Every catalog tool gets a resolved entry; blocks only override.
	for _, id := range catalog.All() {
		cfg.Tools[id] = Tool{Enabled: true}
	}
	for _, tc := range fc.Tools {
		id, err := catalog.Parse(tc.Name)
		if err != nil {
			return nil, fmt.Errorf("tools block: %w", err)
		}
		t := Tool{Enabled: true, Autostart: tc.Autostart, Settings: tc.Settings}
		if tc.Enabled != nil {
			t.Enabled = *tc.Enabled
		}
		switch {
		case tc.Hotkey != "" && tc.SpecialCode != 0:
			return nil, fmt.Errorf("tool %s: hotkey and special_code are mutually exclusive", tc.Name)
		case tc.Hotkey != "":
			key, mods, err := hotkey.ParseChord(tc.Hotkey)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", tc.Name, err)
			}
			t.Hotkey = key
			t.Modifiers = mods
		case tc.SpecialCode != 0:
			t.Hotkey = hotkey.Code(tc.SpecialCode)
		}
		cfg.Tools[id] = t
	}

	for _, he := range fc.Hotkeys {
		id, err := catalog.Parse(he.Tool)
		if err != nil {
			return nil, fmt.Errorf("hotkeys block: %w", err)
		}
		key, mods, err := hotkey.ParseChord(he.Chord)
		if err != nil {
			return nil, fmt.Errorf("hotkey for %s: %w", he.Tool, err)
		}
		cfg.Hotkeys = append(cfg.Hotkeys, hotkey.Registered{
			Owner:     id,
			Action:    he.Action,
			Key:       key,
			Modifiers: mods,
		})
	}
	return cfg, nil
}
