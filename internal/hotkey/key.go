// Package hotkey models trigger keys and brokers their exclusive ownership
// across tools. A key is either a named key from a closed enumeration or an
// opaque platform scan code; the two variants never compare equal, even when
// they denote the same physical key. Mapping a named key to its platform
// code is a presentation concern handled outside this package.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
)

// NamedKey is a portable key name.
type NamedKey string

const (
	F1  NamedKey = "F1"
	F2  NamedKey = "F2"
	F3  NamedKey = "F3"
	F4  NamedKey = "F4"
	F5  NamedKey = "F5"
	F6  NamedKey = "F6"
	F7  NamedKey = "F7"
	F8  NamedKey = "F8"
	F9  NamedKey = "F9"
	F10 NamedKey = "F10"
	F11 NamedKey = "F11"
	F12 NamedKey = "F12"
	F13 NamedKey = "F13"
	F14 NamedKey = "F14"
	F15 NamedKey = "F15"
	F16 NamedKey = "F16"
	F17 NamedKey = "F17"
	F18 NamedKey = "F18"
	F19 NamedKey = "F19"
	F20 NamedKey = "F20"
	F21 NamedKey = "F21"
	F22 NamedKey = "F22"
	F23 NamedKey = "F23"
	F24 NamedKey = "F24"

	Insert   NamedKey = "Insert"
	Delete   NamedKey = "Delete"
	Home     NamedKey = "Home"
	End      NamedKey = "End"
	PageUp   NamedKey = "PageUp"
	PageDown NamedKey = "PageDown"

	UpArrow    NamedKey = "UpArrow"
	DownArrow  NamedKey = "DownArrow"
	LeftArrow  NamedKey = "LeftArrow"
	RightArrow NamedKey = "RightArrow"

	Num0           NamedKey = "Num0"
	Num1           NamedKey = "Num1"
	Num2           NamedKey = "Num2"
	Num3           NamedKey = "Num3"
	Num4           NamedKey = "Num4"
	Num5           NamedKey = "Num5"
	Num6           NamedKey = "Num6"
	Num7           NamedKey = "Num7"
	Num8           NamedKey = "Num8"
	Num9           NamedKey = "Num9"
	NumLock        NamedKey = "NumLock"
	NumpadDivide   NamedKey = "NumpadDivide"
	NumpadMultiply NamedKey = "NumpadMultiply"
	NumpadSubtract NamedKey = "NumpadSubtract"
	NumpadAdd      NamedKey = "NumpadAdd"
	NumpadEnter    NamedKey = "NumpadEnter"

	Escape      NamedKey = "Escape"
	Tab         NamedKey = "Tab"
	CapsLock    NamedKey = "CapsLock"
	Space       NamedKey = "Space"
	Backspace   NamedKey = "Backspace"
	Return      NamedKey = "Return"
	PrintScreen NamedKey = "PrintScreen"
	ScrollLock  NamedKey = "ScrollLock"
	Pause       NamedKey = "Pause"

	MediaPlayPause NamedKey = "MediaPlayPause"
	MediaStop      NamedKey = "MediaStop"
	MediaPrevious  NamedKey = "MediaPrevious"
	MediaNext      NamedKey = "MediaNext"
	VolumeUp       NamedKey = "VolumeUp"
	VolumeDown     NamedKey = "VolumeDown"
	VolumeMute     NamedKey = "VolumeMute"
)

var namedKeys = func() map[string]NamedKey {
	ks := []NamedKey{
		F1, F2, F3, F4, F5, F6, F7, F8, F9, F10, F11, F12,
		F13, F14, F15, F16, F17, F18, F19, F20, F21, F22, F23, F24,
		Insert, Delete, Home, End, PageUp, PageDown,
		UpArrow, DownArrow, LeftArrow, RightArrow,
		Num0, Num1, Num2, Num3, Num4, Num5, Num6, Num7, Num8, Num9,
		NumLock, NumpadDivide, NumpadMultiply, NumpadSubtract, NumpadAdd, NumpadEnter,
		Escape, Tab, CapsLock, Space, Backspace, Return,
		PrintScreen, ScrollLock, Pause,
		MediaPlayPause, MediaStop, MediaPrevious, MediaNext,
		VolumeUp, VolumeDown, VolumeMute,
	}
	m := make(map[string]NamedKey, len(ks))
	for _, k := range ks {
		m[strings.ToLower(string(k))] = k
	}
	return m
}()

// ParseNamedKey resolves a key name case-insensitively.
func ParseNamedKey(s string) (NamedKey, bool) {
	k, ok := namedKeys[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// Key is a tagged variant: either a named key (Name set, Code zero) or an
// opaque scan code (Name empty). The zero Key is invalid. Key is comparable
// and can be used as a map key.
type Key struct {
	Name NamedKey
	Code uint32
}

// Named wraps a portable key name.
func Named(n NamedKey) Key { return Key{Name: n} }

// Code wraps a platform scan code for keys with no portable name.
func Code(c uint32) Key { return Key{Code: c} }

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool { return k.Name == "" && k.Code == 0 }

func (k Key) String() string {
	if k.Name != "" {
		return string(k.Name)
	}
	return "code:" + strconv.FormatUint(uint64(k.Code), 10)
}

// Modifiers is a bitmask set of modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "meta")
	}
	return strings.Join(parts, "+")
}

// ParseChord parses config-style chord strings such as "F13",
// "ctrl+alt+Home" or "ctrl+code:124". The final segment is the key; every
// preceding segment must be a modifier name.
func ParseChord(s string) (Key, Modifiers, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, 0, fmt.Errorf("empty hotkey")
	}
	parts := strings.Split(s, "+")
	var mods Modifiers
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		case "meta", "win", "super", "cmd":
			mods |= ModMeta
		default:
			return Key{}, 0, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}
	last := strings.TrimSpace(parts[len(parts)-1])
	if code, ok := strings.CutPrefix(strings.ToLower(last), "code:"); ok {
		n, err := strconv.ParseUint(code, 10, 32)
		if err != nil {
			return Key{}, 0, fmt.Errorf("invalid scan code in %q: %w", s, err)
		}
		// Code 0 would collide with the zero Key, which everywhere else
		// means "no hotkey".
		if n == 0 {
			return Key{}, 0, fmt.Errorf("invalid scan code in %q: must be nonzero", s)
		}
		return Code(uint32(n)), mods, nil
	}
	nk, ok := ParseNamedKey(last)
	if !ok {
		return Key{}, 0, fmt.Errorf("unknown key %q in %q", last, s)
	}
	return Named(nk), mods, nil
}

// Chord renders a key+modifier pair back into the config string form.
func Chord(k Key, mods Modifiers) string {
	if mods == 0 {
		return k.String()
	}
	return mods.String() + "+" + k.String()
}
