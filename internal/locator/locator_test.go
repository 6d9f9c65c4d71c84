package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loykin/toolhub/internal/catalog"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o750); err != nil {
		t.Fatal(err)
	}
}

func TestLocateMiss(t *testing.T) {
	l := &Locator{ExeDir: t.TempDir()}
	if p, ok := l.Locate(catalog.DeskTalk); ok {
		t.Fatalf("expected miss, got %s", p)
	}
}

func TestProbeOrder(t *testing.T) {
	dir := t.TempDir()
	exe := catalog.OcrPaste.ExeName()
	// Present in both tools/ and resources/tools/: the earlier probe wins.
	inTools := filepath.Join(dir, "tools", exe)
	touch(t, inTools)
	touch(t, filepath.Join(dir, "resources", "tools", exe))

	l := &Locator{ExeDir: dir}
	p, ok := l.Locate(catalog.OcrPaste)
	if !ok || p != inTools {
		t.Fatalf("want %s, got %s ok=%v", inTools, p, ok)
	}

	// Same directory as the hub executable outranks tools/.
	beside := filepath.Join(dir, exe)
	touch(t, beside)
	l.Invalidate(catalog.OcrPaste)
	p, ok = l.Locate(catalog.OcrPaste)
	if !ok || p != beside {
		t.Fatalf("want %s, got %s ok=%v", beside, p, ok)
	}
}

func TestZeroValueLocatorCaches(t *testing.T) {
	dir := t.TempDir()
	exe := catalog.DeskTalk.ExeName()
	path := filepath.Join(dir, exe)
	touch(t, path)

	// A literal-constructed Locator has a nil cache; the first hit must
	// populate it, not panic.
	l := &Locator{ExeDir: dir}
	p, ok := l.Locate(catalog.DeskTalk)
	if !ok || p != path {
		t.Fatalf("want %s, got %s ok=%v", path, p, ok)
	}
	// Second lookup is served from the now-initialized cache.
	if p, ok := l.Locate(catalog.DeskTalk); !ok || p != path {
		t.Fatalf("cached lookup: want %s, got %s ok=%v", path, p, ok)
	}
}

func TestCacheRevalidated(t *testing.T) {
	dir := t.TempDir()
	exe := catalog.FlattenString.ExeName()
	path := filepath.Join(dir, exe)
	touch(t, path)

	l := &Locator{ExeDir: dir}
	if _, ok := l.Locate(catalog.FlattenString); !ok {
		t.Fatalf("expected hit")
	}
	// Binary deleted after caching: the locator must not return a stale path.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if p, ok := l.Locate(catalog.FlattenString); ok {
		t.Fatalf("stale cache returned %s", p)
	}
}

func TestDevRoots(t *testing.T) {
	root := t.TempDir()
	exe := catalog.DeskTalk.ExeName()
	built := filepath.Join(root, "tools", "desk-talk", "bin", exe)
	touch(t, built)

	l := &Locator{DevRoots: []string{root}}
	p, ok := l.Locate(catalog.DeskTalk)
	if !ok || p != built {
		t.Fatalf("dev probe: want %s got %s ok=%v", built, p, ok)
	}
}
