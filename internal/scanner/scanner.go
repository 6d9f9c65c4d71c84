// Package scanner provides the single expensive primitive of the hub: one
// enumeration of the whole OS process table, mapped by executable name. The
// supervisor calls it on a long interval to reconcile externally-started
// tools; everything latency-sensitive avoids it.
package scanner

import (
	"path/filepath"
	"sort"
	"strings"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// Scanner lists running processes grouped by executable name.
type Scanner interface {
	// Snapshot returns lowercased executable base name -> all PIDs carrying
	// that name, ascending. One OS enumeration per call.
	Snapshot() (map[string][]int32, error)
}

// OS is the gopsutil-backed Scanner.
type OS struct{}

func (OS) Snapshot() (map[string][]int32, error) {
	procs, err := gopsproc.Processes()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]int32)
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			// Processes may exit mid-scan or deny access; skip them.
			continue
		}
		key := strings.ToLower(filepath.Base(name))
		out[key] = append(out[key], p.Pid)
	}
	for _, pids := range out {
		sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	}
	return out, nil
}

// PIDAlive reports whether a process with the given PID currently exists.
func PIDAlive(pid int32) bool {
	if pid <= 0 {
		return false
	}
	ok, err := gopsproc.PidExists(pid)
	return err == nil && ok
}
