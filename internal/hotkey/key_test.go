package hotkey

import "testing"

func TestParseChord(t *testing.T) {
	k, mods, err := ParseChord("F13")
	if err != nil || k != Named(F13) || mods != 0 {
		t.Fatalf("F13: key=%v mods=%v err=%v", k, mods, err)
	}
	k, mods, err = ParseChord("ctrl+alt+Home")
	if err != nil || k != Named(Home) || mods != ModCtrl|ModAlt {
		t.Fatalf("ctrl+alt+Home: key=%v mods=%v err=%v", k, mods, err)
	}
	k, mods, err = ParseChord("shift+code:124")
	if err != nil || k != Code(124) || mods != ModShift {
		t.Fatalf("shift+code:124: key=%v mods=%v err=%v", k, mods, err)
	}
	if _, _, err := ParseChord("ctrl+bogus"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, _, err := ParseChord("hyper+F1"); err == nil {
		t.Fatalf("expected error for unknown modifier")
	}
	if _, _, err := ParseChord(""); err == nil {
		t.Fatalf("expected error for empty chord")
	}
	// Scan code 0 is indistinguishable from the zero Key and must be
	// rejected at parse time, not dropped later as an "empty key".
	if _, _, err := ParseChord("code:0"); err == nil {
		t.Fatalf("expected error for scan code 0")
	}
	if _, _, err := ParseChord("ctrl+code:0"); err == nil {
		t.Fatalf("expected error for modified scan code 0")
	}
}

func TestChordRoundTrip(t *testing.T) {
	cases := []struct {
		key  Key
		mods Modifiers
	}{
		{Named(F13), 0},
		{Named(PageDown), ModCtrl | ModShift},
		{Code(179), ModMeta},
	}
	for _, c := range cases {
		s := Chord(c.key, c.mods)
		k, m, err := ParseChord(s)
		if err != nil || k != c.key || m != c.mods {
			t.Fatalf("round trip %q: key=%v mods=%v err=%v", s, k, m, err)
		}
	}
}

func TestNamedAndCodeAreDistinct(t *testing.T) {
	// F13 maps to scan code 124 on some platforms, but the registry must
	// treat the named variant and the raw code as different keys.
	if Named(F13) == Code(124) {
		t.Fatalf("named key and scan code must not compare equal")
	}
}

func TestParseNamedKeyCaseInsensitive(t *testing.T) {
	for _, s := range []string{"f13", "F13", " f13 "} {
		k, ok := ParseNamedKey(s)
		if !ok || k != F13 {
			t.Fatalf("parse %q: got %v ok=%v", s, k, ok)
		}
	}
	if _, ok := ParseNamedKey("notakey"); ok {
		t.Fatalf("expected miss for notakey")
	}
}
