package toolhub

import (
	"net/http"

	"github.com/loykin/toolhub/internal/catalog"
	cfg "github.com/loykin/toolhub/internal/config"
	"github.com/loykin/toolhub/internal/hotkey"
	"github.com/loykin/toolhub/internal/metrics"
	iapi "github.com/loykin/toolhub/internal/server"
	"github.com/loykin/toolhub/internal/supervisor"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Tool = catalog.ID

const (
	DeskTalk       = catalog.DeskTalk
	SpeakSelected  = catalog.SpeakSelected
	QuickAssistant = catalog.QuickAssistant
	FlattenString  = catalog.FlattenString
	TypoFix        = catalog.TypoFix
	OcrPaste       = catalog.OcrPaste
)

type Status = supervisor.Status

type LaunchConfig = supervisor.LaunchConfig

type Hotkey = hotkey.Key

type HotkeyModifiers = hotkey.Modifiers

type RegisteredHotkey = hotkey.Registered

// Hub is a thin facade over internal/supervisor.Supervisor for embedding.
type Hub struct {
	inner *supervisor.Supervisor
	keys  *hotkey.Registry
}

func New() *Hub {
	return &Hub{inner: supervisor.New(supervisor.Options{}), keys: hotkey.NewRegistry()}
}

func Tools() []Tool { return catalog.All() }

func ParseTool(s string) (Tool, error) { return catalog.Parse(s) }

func ParseHotkey(chord string) (Hotkey, HotkeyModifiers, error) { return hotkey.ParseChord(chord) }

func (h *Hub) Start(t Tool, lc LaunchConfig) error { return h.inner.Start(t, lc) }
func (h *Hub) Stop(t Tool) error                   { return h.inner.Stop(t) }
func (h *Hub) StopAll()                            { h.inner.StopAll() }
func (h *Hub) Status(t Tool) Status                { return h.inner.Status(t) }
func (h *Hub) StatusAll() []Status                 { return h.inner.StatusAll() }
func (h *Hub) Scan() error                         { return h.inner.FullScan() }

func (h *Hub) RegisterHotkey(t Tool, action string, key Hotkey, mods HotkeyModifiers) error {
	return h.keys.Register(t, action, key, mods)
}
func (h *Hub) UnregisterHotkey(key Hotkey, mods HotkeyModifiers) { h.keys.Unregister(key, mods) }
func (h *Hub) Hotkeys() []RegisteredHotkey                       { return h.keys.All() }

// LoadConfig parses the hub's TOML configuration file.
func LoadConfig(path string) (*cfg.Config, error) { return cfg.Load(path) }

// NewHTTPServer starts an HTTP server exposing the control API for the
// given hub.
func NewHTTPServer(addr, basePath string, h *Hub) *http.Server {
	return iapi.NewServer(addr, iapi.NewRouter(h.inner, h.keys, basePath, false))
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }
