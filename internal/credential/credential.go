// Package credential supplies the single shared secret injected into tools
// that declare they need it. The hub never interprets the value; it only
// passes it through one environment variable.
package credential

import (
	"os"
	"path/filepath"
	"strings"
)

// Source yields the shared credential, or reports absence.
type Source interface {
	Lookup() (string, bool)
}

// Static returns a fixed value; useful for tests and for values already
// resolved by the shell/UI layer.
type Static string

func (s Static) Lookup() (string, bool) { return string(s), s != "" }

// EnvSource reads the credential from the hub's own environment.
type EnvSource struct {
	// Key defaults to catalog.CredentialEnvVar semantics at the call site;
	// kept explicit here so tests can isolate it.
	Key string
}

func (e EnvSource) Lookup() (string, bool) {
	v, ok := os.LookupEnv(e.Key)
	return v, ok && v != ""
}

// FileSource reads KEY=VALUE lines from a .env file in the hub config
// directory, the fallback location the desktop shell writes to when no
// secure store is available.
type FileSource struct {
	Path string
	Key  string
}

func (f FileSource) Lookup() (string, bool) {
	b, err := os.ReadFile(filepath.Clean(f.Path))
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if v, ok := strings.CutPrefix(line, f.Key+"="); ok {
			v = strings.TrimSpace(v)
			return v, v != ""
		}
	}
	return "", false
}

// Chain tries each source in order and returns the first hit.
type Chain []Source

func (c Chain) Lookup() (string, bool) {
	for _, s := range c {
		if v, ok := s.Lookup(); ok {
			return v, true
		}
	}
	return "", false
}
