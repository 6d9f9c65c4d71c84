// Package catalog enumerates the fixed set of helper tools the hub manages.
// The set is closed by design: there is no plugin mechanism, and every other
// package keys its state by catalog.ID.
package catalog

import (
	"fmt"
	"runtime"
)

// ID identifies one tool of the suite. Values are stable and appear in
// config files and on the HTTP API.
type ID string

const (
	DeskTalk       ID = "desk-talk"
	SpeakSelected  ID = "speak-selected"
	QuickAssistant ID = "quick-assistant"
	FlattenString  ID = "flatten-string"
	TypoFix        ID = "typo-fix"
	OcrPaste       ID = "ocr-paste"
)

// CredentialEnvVar is the single environment variable injected into tools
// that declare NeedsCredential.
const CredentialEnvVar = "OPENAI_API_KEY"

// Meta carries the static per-tool metadata.
type Meta struct {
	DisplayName string
	Description string
	// Binary is the executable base name without platform suffix.
	Binary string
	// DevDir is the tool's directory name under tools/ in a development
	// checkout; used only by the locator's dev-mode probing.
	DevDir string
	// NeedsCredential marks tools that receive the shared credential.
	NeedsCredential bool
	// HotkeyFlag and SpecialHotkeyFlag are the command-line flag names the
	// tool accepts for a named hotkey and a numeric scan-code hotkey.
	// Empty means the tool takes no such flag (it keeps its own config).
	HotkeyFlag        string
	SpecialHotkeyFlag string
}

var metas = map[ID]Meta{
	DeskTalk: {
		DisplayName:     "DeskTalk",
		Description:     "Voice-to-text transcription with push-to-talk",
		Binary:          "desk-talk",
		DevDir:          "desk-talk",
		NeedsCredential: true,
	},
	SpeakSelected: {
		DisplayName:       "Speak Selected",
		Description:       "Read selected text aloud using AI",
		Binary:            "speak-selected",
		DevDir:            "speak-selected",
		NeedsCredential:   true,
		HotkeyFlag:        "--ptt-key",
		SpecialHotkeyFlag: "--special-ptt-key",
	},
	QuickAssistant: {
		DisplayName:       "Quick Assistant",
		Description:       "Voice-activated AI assistant",
		Binary:            "quick-assistant",
		DevDir:            "quick-assistant",
		NeedsCredential:   true,
		HotkeyFlag:        "--ptt-key",
		SpecialHotkeyFlag: "--special-ptt-key",
	},
	FlattenString: {
		DisplayName: "Flatten String",
		Description: "Flatten clipboard text (remove newlines)",
		Binary:      "strflatten",
		DevDir:      "flatten-string",
		HotkeyFlag:  "--trigger-key",
	},
	TypoFix: {
		DisplayName:     "Typo Fix",
		Description:     "Fix typos in selected text using AI",
		Binary:          "typo-fix",
		DevDir:          "typo-fix",
		NeedsCredential: true,
	},
	OcrPaste: {
		DisplayName:     "OCR Paste",
		Description:     "OCR from clipboard images",
		Binary:          "ocrp",
		DevDir:          "ocr-paste",
		NeedsCredential: true,
		HotkeyFlag:      "--trigger-key",
	},
}

// all preserves a stable display order.
var all = []ID{DeskTalk, SpeakSelected, QuickAssistant, FlattenString, TypoFix, OcrPaste}

// All returns every tool identity in stable order.
func All() []ID {
	out := make([]ID, len(all))
	copy(out, all)
	return out
}

// Parse validates a tool name coming from config or the API.
func Parse(s string) (ID, error) {
	id := ID(s)
	if _, ok := metas[id]; !ok {
		return "", fmt.Errorf("unknown tool: %q", s)
	}
	return id, nil
}

// Valid reports whether id is a member of the catalog.
func (id ID) Valid() bool {
	_, ok := metas[id]
	return ok
}

// Meta returns the static metadata for id. Unknown IDs return the zero Meta.
func (id ID) Meta() Meta { return metas[id] }

func (id ID) DisplayName() string { return metas[id].DisplayName }

func (id ID) Binary() string { return metas[id].Binary }

// ExeName returns the platform executable name for id.
func (id ID) ExeName() string {
	return ExeName(metas[id].Binary)
}

// ExeName applies the platform executable suffix to a base name.
func ExeName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
