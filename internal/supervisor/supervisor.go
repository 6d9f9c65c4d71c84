// Package supervisor owns the lifecycle of tool processes: it spawns them,
// distinguishes children it created from identically-named processes started
// elsewhere, reconciles liveness on a cheap fast poll and an expensive slow
// scan, and performs graceful-then-forced shutdown.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/loykin/toolhub/internal/catalog"
	"github.com/loykin/toolhub/internal/credential"
	"github.com/loykin/toolhub/internal/hotkey"
	"github.com/loykin/toolhub/internal/locator"
	"github.com/loykin/toolhub/internal/logger"
	"github.com/loykin/toolhub/internal/metrics"
	"github.com/loykin/toolhub/internal/scanner"
	"github.com/loykin/toolhub/internal/store"
)

const (
	// DefaultGraceWindow is how long a freshly spawned tool must stay up
	// before Start reports success.
	DefaultGraceWindow = 500 * time.Millisecond
	// DefaultStopWait bounds the graceful phase of Stop before escalation.
	DefaultStopWait = 2 * time.Second
	// killWait bounds the post-SIGKILL reap.
	killWait = 200 * time.Millisecond
	// diagnosticLines is how much captured stderr a SpawnError carries.
	diagnosticLines = 5
)

// LaunchConfig carries the per-start parameters read from the configuration
// collaborator. A zero Hotkey means none is passed on the command line.
type LaunchConfig struct {
	Hotkey hotkey.Key
}

// Options wires the supervisor's collaborators. Zero fields get defaults.
type Options struct {
	Locator    *locator.Locator
	Scanner    scanner.Scanner
	Credential credential.Source
	Store      store.Store // nil: no history recorded
	Logger     *slog.Logger
	// StderrDir, when set, receives each tool's post-grace stderr in a
	// rotated file; empty discards it.
	StderrDir string

	GraceWindow time.Duration
	StopWait    time.Duration
}

// Supervisor maps each tool identity to at most one process record. All
// operations on the map go through one RWMutex: Start/Stop/FullScan/
// ReconcileOwned take it exclusively, Status takes it shared.
type Supervisor struct {
	mu      sync.RWMutex
	records map[catalog.ID]*record
	lastErr map[catalog.ID]string

	loc   *locator.Locator
	scan  scanner.Scanner
	cred  credential.Source
	st    store.Store
	log   *slog.Logger
	elog  string
	grace time.Duration
	wait  time.Duration

	reconStop chan struct{}
	scanStop  chan struct{}
}

func New(opts Options) *Supervisor {
	s := &Supervisor{
		records: make(map[catalog.ID]*record),
		lastErr: make(map[catalog.ID]string),
		loc:     opts.Locator,
		scan:    opts.Scanner,
		cred:    opts.Credential,
		st:      opts.Store,
		log:     opts.Logger,
		elog:    opts.StderrDir,
		grace:   opts.GraceWindow,
		wait:    opts.StopWait,
	}
	if s.loc == nil {
		s.loc = locator.New()
	}
	if s.scan == nil {
		s.scan = scanner.OS{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.grace <= 0 {
		s.grace = DefaultGraceWindow
	}
	if s.wait <= 0 {
		s.wait = DefaultStopWait
	}
	return s
}

// Start spawns the tool unless it is already running. Idempotent: a second
// Start against a live owned or external process is a no-op success.
func (s *Supervisor) Start(id catalog.ID, lc LaunchConfig) error {
	if !id.Valid() {
		return fmt.Errorf("unknown tool: %q", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec := s.records[id]; rec != nil {
		if rec.owned {
			if !rec.exited() {
				return nil
			}
			s.clearOwnedLocked(id, rec, store.EventLost)
		} else {
			if s.externalAliveLocked(rec) {
				return nil
			}
			delete(s.records, id)
			s.recordEvent(store.Event{Tool: string(id), Type: store.EventLost, PID: int(rec.pid), OccurredAt: time.Now()})
		}
	}

	path, ok := s.loc.Locate(id)
	if !ok {
		s.lastErr[id] = "binary not found"
		return fmt.Errorf("%w: %s", ErrBinaryNotFound, id.DisplayName())
	}

	meta := id.Meta()
	// #nosec G204 -- path comes from the locator's fixed probe list
	cmd := exec.Command(path, launchArgs(meta, lc.Hotkey)...)
	configureSysProcAttr(cmd)
	if meta.NeedsCredential && s.cred != nil {
		if v, ok := s.cred.Lookup(); ok {
			cmd.Env = append(os.Environ(), catalog.CredentialEnvVar+"="+v)
		}
	}

	// stdin and stdout are discarded (exec defaults them to the null
	// device); stderr is captured for startup diagnostics.
	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		s.lastErr[id] = err.Error()
		metrics.IncSpawnFailure(string(id))
		return fmt.Errorf("spawn %s: %w", id.DisplayName(), err)
	}
	_ = pw.Close() // child holds its own copy

	capture := captureStderr(pr)
	rec := &record{
		owned:     true,
		cmd:       cmd,
		startedAt: time.Now(),
		stderr:    capture,
		done:      make(chan struct{}),
	}
	go func() {
		rec.waitErr = cmd.Wait()
		close(rec.done)
	}()

	// Grace window: a tool that dies immediately becomes a SpawnError with
	// its stderr, not a silently-registered dead record.
	select {
	case <-rec.done:
		// Child is gone and our write end is closed, so the drain goroutine
		// reaches EOF; wait for it to flush the last stderr bytes.
		<-capture.done
		diag := capture.head(diagnosticLines)
		if diag == "" {
			diag = fmt.Sprintf("process exited with code %d", exitCode(rec.waitErr, cmd))
		}
		capture.stop()
		s.lastErr[id] = diag
		metrics.IncSpawnFailure(string(id))
		s.recordEvent(store.Event{Tool: string(id), Type: store.EventSpawnFail, PID: cmd.Process.Pid, OccurredAt: time.Now(), Detail: diag})
		s.log.Warn("tool exited during grace window", "tool", id, "diagnostic", diag)
		return &SpawnError{Tool: id, Diagnostic: diag}
	case <-time.After(s.grace):
	}

	// Survived the window: stop buffering and keep the pipe drained so the
	// child never blocks on it.
	capture.redirect(logger.StderrWriter(s.elog, string(id)))
	s.records[id] = rec
	delete(s.lastErr, id)
	metrics.IncStart(string(id))
	s.updateGaugesLocked()
	s.recordEvent(store.Event{Tool: string(id), Type: store.EventStart, PID: cmd.Process.Pid, OccurredAt: rec.startedAt})
	s.log.Info("tool started", "tool", id, "pid", cmd.Process.Pid, "path", path)
	return nil
}

// Stop terminates the tool's process. Owned processes get a graceful phase
// then escalation; external PIDs are killed outright since we never had a
// cooperative handle. Stopping an unmanaged tool is a no-op success.
func (s *Supervisor) Stop(id catalog.ID) error {
	if !id.Valid() {
		return fmt.Errorf("unknown tool: %q", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastErr, id)

	rec := s.records[id]
	if rec == nil {
		return nil
	}
	if rec.owned {
		return s.stopOwnedLocked(id, rec)
	}

	err := killPID(rec.pid)
	delete(s.records, id)
	s.updateGaugesLocked()
	metrics.IncStop(string(id))
	s.recordEvent(store.Event{Tool: string(id), Type: store.EventStop, PID: int(rec.pid), OccurredAt: time.Now()})
	if err != nil && scanner.PIDAlive(rec.pid) {
		return fmt.Errorf("kill external %s (pid %d): %w", id.DisplayName(), rec.pid, err)
	}
	s.log.Info("external tool stopped", "tool", id, "pid", rec.pid)
	return nil
}

func (s *Supervisor) stopOwnedLocked(id catalog.ID, rec *record) error {
	pid := rec.cmd.Process.Pid
	if !rec.exited() {
		terminateGroup(pid)
		select {
		case <-rec.done:
		case <-time.After(s.wait):
			// Graceful phase timed out; escalate. The timeout itself is
			// not an error, only a failed kill is.
			killGroup(pid)
			select {
			case <-rec.done:
			case <-time.After(killWait):
				s.clearOwnedLocked(id, rec, store.EventStop)
				return fmt.Errorf("failed to kill %s (pid %d)", id.DisplayName(), pid)
			}
		}
	}
	s.clearOwnedLocked(id, rec, store.EventStop)
	s.log.Info("tool stopped", "tool", id, "pid", pid)
	return nil
}

// clearOwnedLocked releases everything held for an owned record and emits
// the bookkeeping. Callers hold the write lock.
func (s *Supervisor) clearOwnedLocked(id catalog.ID, rec *record, event string) {
	rec.stderr.stop()
	delete(s.records, id)
	s.updateGaugesLocked()
	metrics.IncStop(string(id))
	s.recordEvent(store.Event{Tool: string(id), Type: event, PID: rec.cmd.Process.Pid, OccurredAt: time.Now()})
}

// StopAll stops every owned tool. External records are deliberately left
// untouched: processes the hub did not create are never terminated as a
// side effect of the hub itself exiting.
func (s *Supervisor) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if !rec.owned {
			continue
		}
		if err := s.stopOwnedLocked(id, rec); err != nil {
			s.log.Warn("stop failed during shutdown", "tool", id, "error", err)
		}
	}
}

// ReconcileOwned clears owned records whose process has exited. It performs
// no OS-wide calls and is safe to invoke every few seconds.
func (s *Supervisor) ReconcileOwned() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if !rec.owned || !rec.exited() {
			continue
		}
		pid := rec.cmd.Process.Pid
		s.clearOwnedLocked(id, rec, store.EventLost)
		s.log.Info("tool exited", "tool", id, "pid", pid, "error", rec.waitErr)
	}
}

// FullScan performs the one expensive OS process-table enumeration: it
// drops external records whose PID vanished and adopts running processes
// matching an unmanaged tool's executable name. This is the only path that
// creates external records.
func (s *Supervisor) FullScan() error {
	began := time.Now()
	snap, err := s.scan.Snapshot()
	metrics.ObserveScan(time.Since(began).Seconds())
	if err != nil {
		s.log.Warn("process scan failed", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.records {
		if rec.owned {
			continue
		}
		if s.externalStillListed(snap, id, rec) {
			continue
		}
		delete(s.records, id)
		s.recordEvent(store.Event{Tool: string(id), Type: store.EventLost, PID: int(rec.pid), OccurredAt: time.Now()})
		s.log.Info("external tool gone", "tool", id, "pid", rec.pid)
	}

	for _, id := range catalog.All() {
		if _, exists := s.records[id]; exists {
			continue
		}
		pids := snap[strings.ToLower(id.ExeName())]
		if len(pids) == 0 {
			continue
		}
		// Multiple processes may share the name; adopt the lowest PID.
		pid := pids[0]
		s.records[id] = &record{pid: pid, startUnix: scanner.StartUnix(pid)}
		s.recordEvent(store.Event{Tool: string(id), Type: store.EventAdopted, PID: int(pid), OccurredAt: time.Now()})
		s.log.Info("adopted external tool", "tool", id, "pid", pid)
	}
	s.updateGaugesLocked()
	return nil
}

func (s *Supervisor) externalStillListed(snap map[string][]int32, id catalog.ID, rec *record) bool {
	for _, pid := range snap[strings.ToLower(id.ExeName())] {
		if pid != rec.pid {
			continue
		}
		// Same PID under the same name; reject recycled PIDs by start time.
		if rec.startUnix > 0 {
			if cur := scanner.StartUnix(pid); cur > 0 && cur != rec.startUnix {
				return false
			}
		}
		return true
	}
	return false
}

// externalAliveLocked re-validates an external record against the OS; a
// failed check is treated conservatively as exited.
func (s *Supervisor) externalAliveLocked(rec *record) bool {
	if !scanner.PIDAlive(rec.pid) {
		return false
	}
	if rec.startUnix > 0 {
		if cur := scanner.StartUnix(rec.pid); cur > 0 && cur != rec.startUnix {
			return false
		}
	}
	return true
}

func (s *Supervisor) updateGaugesLocked() {
	owned, external := 0, 0
	for _, rec := range s.records {
		if rec.owned {
			owned++
		} else {
			external++
		}
	}
	metrics.SetRunning(owned, external)
}

func (s *Supervisor) recordEvent(ev store.Event) {
	if s.st == nil {
		return
	}
	if err := s.st.RecordEvent(context.Background(), ev); err != nil {
		s.log.Debug("history write failed", "tool", ev.Tool, "event", ev.Type, "error", err)
	}
}

func launchArgs(meta catalog.Meta, key hotkey.Key) []string {
	if key.IsZero() {
		return nil
	}
	if key.Name != "" {
		if meta.HotkeyFlag == "" {
			return nil
		}
		return []string{meta.HotkeyFlag, string(key.Name)}
	}
	if meta.SpecialHotkeyFlag == "" {
		return nil
	}
	return []string{meta.SpecialHotkeyFlag, strconv.FormatUint(uint64(key.Code), 10)}
}

func exitCode(waitErr error, cmd *exec.Cmd) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if ee, ok := waitErr.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}
