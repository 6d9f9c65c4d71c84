package scanner

import (
	"os"
	"sort"
	"testing"
)

func TestSnapshotContainsSelf(t *testing.T) {
	snap, err := OS{}.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) == 0 {
		t.Fatalf("empty process table")
	}
	self := int32(os.Getpid())
	found := false
	for name, pids := range snap {
		if !sort.SliceIsSorted(pids, func(i, j int) bool { return pids[i] < pids[j] }) {
			t.Fatalf("pids for %s not sorted: %v", name, pids)
		}
		for _, pid := range pids {
			if pid == self {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("snapshot does not contain the test process (pid %d)", self)
	}
}

func TestPIDAlive(t *testing.T) {
	if !PIDAlive(int32(os.Getpid())) {
		t.Fatalf("own pid reported dead")
	}
	if PIDAlive(0) || PIDAlive(-1) {
		t.Fatalf("non-positive pid reported alive")
	}
}

func TestStartUnixSelf(t *testing.T) {
	ts := StartUnix(int32(os.Getpid()))
	if ts <= 0 {
		t.Skipf("start time unavailable on this platform")
	}
}
