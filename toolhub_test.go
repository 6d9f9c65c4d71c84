package toolhub

import (
	"testing"
)

func TestFacadeLifecycle(t *testing.T) {
	h := New()

	all := h.StatusAll()
	if len(all) != len(Tools()) {
		t.Fatalf("expected %d statuses, got %d", len(Tools()), len(all))
	}

	// Unmanaged stop is a no-op success.
	if err := h.Stop(DeskTalk); err != nil {
		t.Fatalf("stop unmanaged: %v", err)
	}
	h.StopAll()
}

func TestFacadeHotkeys(t *testing.T) {
	h := New()
	key, mods, err := ParseHotkey("ctrl+alt+F13")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := h.RegisterHotkey(SpeakSelected, "ptt", key, mods); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := h.RegisterHotkey(TypoFix, "fix", key, mods); err == nil {
		t.Fatalf("expected conflict for duplicate chord")
	}
	if got := h.Hotkeys(); len(got) != 1 || got[0].Owner != SpeakSelected {
		t.Fatalf("unexpected registrations: %+v", got)
	}
	h.UnregisterHotkey(key, mods)
	if got := h.Hotkeys(); len(got) != 0 {
		t.Fatalf("expected empty registry, got %+v", got)
	}
}

func TestParseTool(t *testing.T) {
	id, err := ParseTool("speak-selected")
	if err != nil || id != SpeakSelected {
		t.Fatalf("parse: %v %v", id, err)
	}
	if _, err := ParseTool("bogus"); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}
