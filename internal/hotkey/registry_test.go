package hotkey

import (
	"errors"
	"sort"
	"testing"

	"github.com/loykin/toolhub/internal/catalog"
)

func TestRegisterConflict(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(catalog.DeskTalk, "push-to-talk", Named(F13), 0); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := r.Register(catalog.SpeakSelected, "speak", Named(F13), 0)
	if err == nil {
		t.Fatalf("expected conflict")
	}
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
	if ce.Existing.Owner != catalog.DeskTalk || ce.Existing.Action != "push-to-talk" {
		t.Fatalf("conflict carries wrong entry: %+v", ce.Existing)
	}
	// No side effect on failure.
	if r.Len() != 1 {
		t.Fatalf("registry changed on failed register: len=%d", r.Len())
	}
}

func TestSameKeyDifferentModifiersAllowed(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(catalog.DeskTalk, "a", Named(Home), 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(catalog.OcrPaste, "b", Named(Home), ModCtrl); err != nil {
		t.Fatalf("same key with different modifiers should not conflict: %v", err)
	}
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(catalog.DeskTalk, "a", Named(F14), ModCtrl); err != nil {
		t.Fatalf("register: %v", err)
	}
	before := chords(r)
	if err := r.Register(catalog.OcrPaste, "b", Named(F15), 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	r.Unregister(Named(F15), 0)
	after := chords(r)
	if len(before) != len(after) {
		t.Fatalf("entry sets differ: before=%v after=%v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("entry sets differ: before=%v after=%v", before, after)
		}
	}
}

func TestUnregisterExactMatchOnly(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(catalog.DeskTalk, "a", Named(F16), ModCtrl)
	r.Unregister(Named(F16), 0) // different modifier set; must be a no-op
	if r.Len() != 1 {
		t.Fatalf("unregister removed a non-matching entry")
	}
	r.Unregister(Named(F16), ModCtrl)
	if r.Len() != 0 {
		t.Fatalf("exact unregister did not remove the entry")
	}
}

func TestUnregisterOwner(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(catalog.DeskTalk, "a", Named(F17), 0)
	_ = r.Register(catalog.DeskTalk, "b", Named(F18), 0)
	_ = r.Register(catalog.TypoFix, "c", Named(F19), 0)
	r.UnregisterOwner(catalog.DeskTalk)
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry after owner removal, got %d", r.Len())
	}
	if _, ok := r.FindConflict(Named(F19), 0); !ok {
		t.Fatalf("other owner's entry must survive")
	}
}

func TestLoadDropsConflicts(t *testing.T) {
	r := Load([]Registered{
		{Owner: catalog.DeskTalk, Action: "a", Key: Named(F13)},
		{Owner: catalog.TypoFix, Action: "dup", Key: Named(F13)},
		{Owner: catalog.OcrPaste, Action: "b", Key: Code(200)},
	})
	if r.Len() != 2 {
		t.Fatalf("expected first-wins load, got %d entries", r.Len())
	}
	e, ok := r.FindConflict(Named(F13), 0)
	if !ok || e.Owner != catalog.DeskTalk {
		t.Fatalf("first entry should win: %+v ok=%v", e, ok)
	}
}

func TestByOwner(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(catalog.DeskTalk, "a", Named(F20), 0)
	_ = r.Register(catalog.DeskTalk, "b", Named(F21), 0)
	m := r.ByOwner()
	if len(m[catalog.DeskTalk]) != 2 {
		t.Fatalf("by-owner grouping wrong: %+v", m)
	}
}

func chords(r *Registry) []string {
	var out []string
	for _, e := range r.All() {
		out = append(out, Chord(e.Key, e.Modifiers))
	}
	sort.Strings(out)
	return out
}
