package credential

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nOTHER=x\nOPENAI_API_KEY=sk-test-123\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	v, ok := FileSource{Path: path, Key: "OPENAI_API_KEY"}.Lookup()
	if !ok || v != "sk-test-123" {
		t.Fatalf("lookup: v=%q ok=%v", v, ok)
	}
	if _, ok := (FileSource{Path: path, Key: "MISSING"}).Lookup(); ok {
		t.Fatalf("expected miss for absent key")
	}
	if _, ok := (FileSource{Path: filepath.Join(dir, "nope"), Key: "K"}).Lookup(); ok {
		t.Fatalf("expected miss for absent file")
	}
}

func TestChainOrder(t *testing.T) {
	c := Chain{Static(""), Static("second"), Static("third")}
	v, ok := c.Lookup()
	if !ok || v != "second" {
		t.Fatalf("chain should return first non-empty hit, got %q ok=%v", v, ok)
	}
	if _, ok := (Chain{Static(""), Static("")}).Lookup(); ok {
		t.Fatalf("all-empty chain must miss")
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("TOOLHUB_TEST_CRED", "abc")
	if v, ok := (EnvSource{Key: "TOOLHUB_TEST_CRED"}).Lookup(); !ok || v != "abc" {
		t.Fatalf("env lookup: v=%q ok=%v", v, ok)
	}
	t.Setenv("TOOLHUB_TEST_CRED", "")
	if _, ok := (EnvSource{Key: "TOOLHUB_TEST_CRED"}).Lookup(); ok {
		t.Fatalf("empty env value must miss")
	}
}
