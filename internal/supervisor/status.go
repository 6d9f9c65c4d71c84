package supervisor

import (
	"time"

	"github.com/loykin/toolhub/internal/catalog"
)

// State classifies a tool for display purposes.
type State string

const (
	StateStopped  State = "stopped"
	StateRunning  State = "running"
	StateExternal State = "external"
	StateError    State = "error"
)

// Status is a point-in-time view of one tool.
type Status struct {
	Tool      catalog.ID `json:"tool"`
	Name      string     `json:"name"`
	State     State      `json:"state"`
	PID       int        `json:"pid,omitempty"`
	StartedAt time.Time  `json:"started_at,omitzero"`
	LastError string     `json:"last_error,omitempty"`
}

// Status reports one tool without mutating any record; an owned record
// whose process has since exited reads as stopped, but stays in the map
// until the next reconcile clears it.
func (s *Supervisor) Status(id catalog.ID) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked(id)
}

// StatusAll reports every catalog tool in catalog order.
func (s *Supervisor) StatusAll() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Status, 0, len(catalog.All()))
	for _, id := range catalog.All() {
		out = append(out, s.statusLocked(id))
	}
	return out
}

func (s *Supervisor) statusLocked(id catalog.ID) Status {
	st := Status{Tool: id, Name: id.DisplayName(), State: StateStopped, LastError: s.lastErr[id]}
	if st.LastError != "" {
		st.State = StateError
	}
	rec := s.records[id]
	if rec == nil {
		return st
	}
	if rec.owned {
		if rec.exited() {
			st.State = StateStopped
			return st
		}
		st.State = StateRunning
		st.PID = rec.cmd.Process.Pid
		st.StartedAt = rec.startedAt
		st.LastError = ""
		return st
	}
	st.State = StateExternal
	st.PID = int(rec.pid)
	st.LastError = ""
	return st
}
