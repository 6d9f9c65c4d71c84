package license

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TrialDays is the length of the one-shot free trial.
const TrialDays = 7

// State is the locally persisted licensing state. MachineID is generated
// once per install; the trial can be started exactly once.
type State struct {
	LicenseKey      string `json:"license_key,omitempty"`
	LicenseStatus   string `json:"license_status,omitempty"`
	InstanceID      string `json:"instance_id,omitempty"`
	MachineID       string `json:"machine_id"`
	TrialStarted    bool   `json:"trial_started"`
	TrialExpiration string `json:"trial_expiration,omitempty"`
	LastValidated   string `json:"last_validated,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`

	path string
}

// LoadState reads the state file at path, creating it with a fresh machine
// ID on first use.
func LoadState(path string) (*State, error) {
	st := &State{path: path}
	b, err := os.ReadFile(filepath.Clean(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
		st.MachineID = uuid.NewString()
		if err := st.Save(); err != nil {
			return nil, err
		}
		return st, nil
	case err != nil:
		return nil, fmt.Errorf("read license state: %w", err)
	}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("parse license state: %w", err)
	}
	if st.MachineID == "" {
		st.MachineID = uuid.NewString()
		if err := st.Save(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (s *State) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// ClearLicense removes the activated license but keeps the machine ID and
// trial history.
func (s *State) ClearLicense() error {
	s.LicenseKey = ""
	s.LicenseStatus = ""
	s.InstanceID = ""
	s.LastValidated = ""
	s.CustomerEmail = ""
	return s.Save()
}

// Trial describes the current trial window.
type Trial struct {
	Active      bool          `json:"active"`
	Remaining   time.Duration `json:"-"`
	ExpiresAt   time.Time     `json:"expires_at,omitzero"`
	AlreadyUsed bool          `json:"already_used"`
}

// ErrTrialUsed is returned by StartTrial after the one permitted use.
var ErrTrialUsed = errors.New("trial has already been used on this machine")

// TrialStatus reports the trial window without mutating state.
func (s *State) TrialStatus() (Trial, error) {
	if !s.TrialStarted {
		return Trial{Remaining: TrialDays * 24 * time.Hour}, nil
	}
	t := Trial{AlreadyUsed: true}
	if s.TrialExpiration == "" {
		return t, nil
	}
	exp, err := time.Parse(time.RFC3339, s.TrialExpiration)
	if err != nil {
		return t, fmt.Errorf("parse trial expiration: %w", err)
	}
	t.ExpiresAt = exp
	if rem := time.Until(exp); rem > 0 {
		t.Active = true
		t.Remaining = rem
	}
	return t, nil
}

// StartTrial begins the trial window and persists it.
func (s *State) StartTrial() (Trial, error) {
	if s.TrialStarted {
		return Trial{AlreadyUsed: true}, ErrTrialUsed
	}
	exp := time.Now().Add(TrialDays * 24 * time.Hour)
	s.TrialStarted = true
	s.TrialExpiration = exp.Format(time.RFC3339)
	if err := s.Save(); err != nil {
		return Trial{}, err
	}
	return Trial{Active: true, Remaining: TrialDays * 24 * time.Hour, ExpiresAt: exp, AlreadyUsed: true}, nil
}

// Authorized reports whether a valid license or an active trial is present.
func (s *State) Authorized() bool {
	if s.LicenseKey != "" && s.LicenseStatus == "active" {
		return true
	}
	t, err := s.TrialStatus()
	return err == nil && t.Active
}
