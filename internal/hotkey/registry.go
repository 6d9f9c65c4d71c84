package hotkey

import (
	"fmt"
	"sync"

	"github.com/loykin/toolhub/internal/catalog"
)

// Registered is one hotkey grant: the owning tool, a label for the action it
// triggers, and the key+modifier combination. Owner and Action are
// informational; only (Key, Modifiers) participates in uniqueness.
type Registered struct {
	Owner     catalog.ID `json:"owner"`
	Action    string     `json:"action"`
	Key       Key        `json:"key"`
	Modifiers Modifiers  `json:"modifiers"`
}

// ConflictError reports an attempted registration of an already-owned
// combination. It carries the existing grant so callers can name the owner.
type ConflictError struct {
	Existing Registered
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("hotkey %s already registered by %s for %q",
		Chord(e.Existing.Key, e.Existing.Modifiers),
		e.Existing.Owner.DisplayName(), e.Existing.Action)
}

// Registry enforces at-most-one-owner per (key, modifiers) combination.
// Conflict detection is a linear scan; the set is bounded by the number of
// tools times a few actions each, so an index would buy nothing.
type Registry struct {
	mu      sync.Mutex
	entries []Registered
}

func NewRegistry() *Registry { return &Registry{} }

// Load seeds the registry from persisted entries, typically at startup from
// the configuration collaborator. Conflicting persisted entries are dropped
// (first one wins) rather than failing startup.
func Load(entries []Registered) *Registry {
	r := &Registry{}
	for _, e := range entries {
		_ = r.Register(e.Owner, e.Action, e.Key, e.Modifiers)
	}
	return r
}

// Register inserts a grant or fails with *ConflictError. The registry is
// unchanged on failure.
func (r *Registry) Register(owner catalog.ID, action string, key Key, mods Modifiers) error {
	if key.IsZero() {
		return fmt.Errorf("invalid hotkey for %s: empty key", owner)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing := r.findConflict(key, mods); existing != nil {
		return &ConflictError{Existing: *existing}
	}
	r.entries = append(r.entries, Registered{Owner: owner, Action: action, Key: key, Modifiers: mods})
	return nil
}

// Unregister removes the entry matching exactly (key, mods); no-op if absent.
func (r *Registry) Unregister(key Key, mods Modifiers) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Key == key && e.Modifiers == mods {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
}

// UnregisterOwner removes every grant held by owner, e.g. when the tool is
// disabled.
func (r *Registry) UnregisterOwner(owner catalog.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Owner == owner {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
}

// FindConflict returns a copy of the entry occupying (key, mods), if any.
// Pure lookup; used by Register and by pre-flight UI validation.
func (r *Registry) FindConflict(key Key, mods Modifiers) (Registered, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.findConflict(key, mods); e != nil {
		return *e, true
	}
	return Registered{}, false
}

func (r *Registry) findConflict(key Key, mods Modifiers) *Registered {
	for i := range r.entries {
		if r.entries[i].Key == key && r.entries[i].Modifiers == mods {
			return &r.entries[i]
		}
	}
	return nil
}

// All returns a copy of every grant.
func (r *Registry) All() []Registered {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Registered, len(r.entries))
	copy(out, r.entries)
	return out
}

// ByOwner groups grants by owning tool.
func (r *Registry) ByOwner() map[catalog.ID][]Registered {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := make(map[catalog.ID][]Registered)
	for _, e := range r.entries {
		m[e.Owner] = append(m[e.Owner], e)
	}
	return m
}

// ForOwner returns the grants held by one tool.
func (r *Registry) ForOwner(owner catalog.ID) []Registered {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Registered
	for _, e := range r.entries {
		if e.Owner == owner {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the number of grants.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
