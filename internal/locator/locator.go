// Package locator resolves tool identities to executable paths by probing a
// fixed, ordered list of candidate directories. It performs no side effects
// beyond stat calls, so absence is reported as a miss rather than an error.
package locator

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/loykin/toolhub/internal/catalog"
)

// Locator probes candidate directories in order; the first existing file
// wins. Successful hits are cached per identity and re-validated on the next
// lookup so a deleted binary falls back to probing.
type Locator struct {
	// ExeDir is the directory containing the hub executable. Probed first,
	// then its tools/ and resources/tools/ subdirectories.
	ExeDir string
	// DevRoots are additional roots probed only in development layouts,
	// typically the working directory and a few of its ancestors.
	DevRoots []string

	mu    sync.Mutex
	cache map[catalog.ID]string
}

// New builds a Locator anchored at the running executable, with dev-mode
// probing under the current working directory and its first two ancestors.
func New() *Locator {
	l := &Locator{cache: make(map[catalog.ID]string)}
	if exe, err := os.Executable(); err == nil {
		l.ExeDir = filepath.Dir(exe)
	}
	if cwd, err := os.Getwd(); err == nil {
		l.DevRoots = []string{cwd, filepath.Join(cwd, ".."), filepath.Join(cwd, "..", "..")}
	}
	return l
}

// Locate returns the executable path for id, or ("", false) on miss.
func (l *Locator) Locate(id catalog.ID) (string, bool) {
	l.mu.Lock()
	cached, ok := l.cache[id]
	l.mu.Unlock()
	if ok && fileExists(cached) {
		return cached, true
	}

	exe := id.ExeName()
	for _, p := range l.candidates(id, exe) {
		if fileExists(p) {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			l.mu.Lock()
			// The zero Locator is usable; the cache map is created on
			// first hit.
			if l.cache == nil {
				l.cache = make(map[catalog.ID]string)
			}
			l.cache[id] = p
			l.mu.Unlock()
			return p, true
		}
	}
	return "", false
}

// Invalidate drops the cached path for id, forcing a fresh probe.
func (l *Locator) Invalidate(id catalog.ID) {
	l.mu.Lock()
	delete(l.cache, id)
	l.mu.Unlock()
}

func (l *Locator) candidates(id catalog.ID, exe string) []string {
	var out []string
	if l.ExeDir != "" {
		out = append(out,
			filepath.Join(l.ExeDir, exe),
			filepath.Join(l.ExeDir, "tools", exe),
			filepath.Join(l.ExeDir, "resources", "tools", exe),
		)
	}
	devDir := id.Meta().DevDir
	for _, root := range l.DevRoots {
		out = append(out,
			filepath.Join(root, "bin", exe),
			filepath.Join(root, "tools", devDir, "bin", exe),
		)
	}
	return out
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
