package supervisor

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// record is the tagged per-tool state. Absence from the supervisor map means
// the tool is believed stopped. Exactly one of the owned/external field sets
// is populated; the invariant is enforced by the supervisor, which only ever
// replaces a record wholesale under its own lock.
type record struct {
	owned bool

	// owned: the child we spawned and exclusively hold.
	cmd       *exec.Cmd
	startedAt time.Time
	stderr    *stderrCapture
	done      chan struct{} // closed by the reaper after cmd.Wait returns
	waitErr   error         // valid only after done is closed

	// external: a weak reference by PID; liveness must be re-validated
	// against the OS, never trusted from a cached handle.
	pid       int32
	startUnix int64 // process start time at adoption, guards PID reuse
}

// exited does a non-blocking check of the reaper channel; this is the cheap
// liveness primitive the fast reconcile poll relies on.
func (r *record) exited() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

const maxCapturedStderr = 16 << 10

// stderrCapture drains a child's stderr pipe. During the grace window output
// accumulates in a bounded buffer for diagnostics; afterwards the supervisor
// redirects it to a sink (rotated file or discard) so the child can never
// block on a full pipe.
type stderrCapture struct {
	r    *os.File
	done chan struct{}

	mu   sync.Mutex
	buf  bytes.Buffer
	sink io.WriteCloser
}

func captureStderr(r *os.File) *stderrCapture {
	c := &stderrCapture{r: r, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		chunk := make([]byte, 4096)
		for {
			n, err := r.Read(chunk)
			if n > 0 {
				c.mu.Lock()
				if c.sink != nil {
					_, _ = c.sink.Write(chunk[:n])
				} else if c.buf.Len() < maxCapturedStderr {
					c.buf.Write(chunk[:n])
				}
				c.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	return c
}

// redirect switches draining from the diagnostic buffer to w.
func (c *stderrCapture) redirect(w io.WriteCloser) {
	c.mu.Lock()
	c.sink = w
	c.mu.Unlock()
}

// stop closes the pipe, ends the drain goroutine and closes any sink.
func (c *stderrCapture) stop() {
	_ = c.r.Close()
	<-c.done
	c.mu.Lock()
	if c.sink != nil {
		_ = c.sink.Close()
		c.sink = nil
	}
	c.mu.Unlock()
}

// head returns up to n lines of buffered stderr.
func (c *stderrCapture) head(n int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := strings.TrimSpace(c.buf.String())
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
