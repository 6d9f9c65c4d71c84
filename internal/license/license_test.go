package license

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func statePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "license.json")
}

func TestLoadStateCreatesMachineID(t *testing.T) {
	p := statePath(t)
	st, err := LoadState(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.MachineID == "" {
		t.Fatalf("machine id not generated")
	}

	again, err := LoadState(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.MachineID != st.MachineID {
		t.Fatalf("machine id not stable across loads: %q vs %q", st.MachineID, again.MachineID)
	}
}

func TestTrialOneShot(t *testing.T) {
	p := statePath(t)
	st, err := LoadState(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tr, err := st.TrialStatus()
	if err != nil || tr.Active || tr.AlreadyUsed {
		t.Fatalf("fresh state should have unused inactive trial: %+v err=%v", tr, err)
	}

	tr, err = st.StartTrial()
	if err != nil {
		t.Fatalf("start trial: %v", err)
	}
	if !tr.Active || tr.ExpiresAt.Before(time.Now().Add(6*24*time.Hour)) {
		t.Fatalf("trial window wrong: %+v", tr)
	}

	if _, err := st.StartTrial(); err != ErrTrialUsed {
		t.Fatalf("second start should fail with ErrTrialUsed, got %v", err)
	}

	// Persisted: a reload still refuses a second trial.
	again, err := LoadState(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := again.StartTrial(); err != ErrTrialUsed {
		t.Fatalf("trial restarted after reload: %v", err)
	}
	if !again.Authorized() {
		t.Fatalf("active trial should authorize")
	}
}

func TestTrialExpired(t *testing.T) {
	st := &State{
		path:            statePath(t),
		TrialStarted:    true,
		TrialExpiration: time.Now().Add(-time.Hour).Format(time.RFC3339),
	}
	tr, err := st.TrialStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if tr.Active || !tr.AlreadyUsed {
		t.Fatalf("expired trial misreported: %+v", tr)
	}
	if st.Authorized() {
		t.Fatalf("expired trial should not authorize")
	}
}

func TestClearLicenseKeepsTrialHistory(t *testing.T) {
	p := statePath(t)
	st, err := LoadState(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	st.LicenseKey = "key"
	st.LicenseStatus = "active"
	st.TrialStarted = true
	if err := st.ClearLicense(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	again, err := LoadState(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.LicenseKey != "" || !again.TrialStarted {
		t.Fatalf("clear should drop license but keep trial: %+v", again)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("state file missing: %v", err)
	}
}

func TestClientValidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/validate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("license_key") != "abc" || r.PostForm.Get("instance_id") != "inst-1" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid":true,"license_key":{"id":7,"status":"active","key":"abc"},"instance":{"id":"inst-1"},"meta":{"product_name":"hub","customer_email":"a@b.c"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	res, err := c.Validate(context.Background(), "abc", "inst-1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Valid || res.License == nil || res.License.Status != "active" || res.InstanceID != "inst-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Meta == nil || res.Meta.CustomerEmail != "a@b.c" {
		t.Fatalf("meta not decoded: %+v", res.Meta)
	}
}

func TestClientActivateAndDeactivate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/activate":
			_, _ = w.Write([]byte(`{"activated":true,"instance":{"id":"inst-2"}}`))
		case "/deactivate":
			_, _ = w.Write([]byte(`{"deactivated":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	act, err := c.Activate(context.Background(), "abc", "my-machine")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !act.Activated || act.InstanceID != "inst-2" {
		t.Fatalf("unexpected activation: %+v", act)
	}

	ok, err := c.Deactivate(context.Background(), "abc", "inst-2")
	if err != nil || !ok {
		t.Fatalf("deactivate: ok=%v err=%v", ok, err)
	}
}

func TestClientRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Validate(context.Background(), "abc", ""); err == nil {
		t.Fatalf("expected decode error")
	}
}
