package host

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/daemon/alert"
	"github.com/sunshinebar/sunshinebar/internal/daemon/supervisor"
	"github.com/sunshinebar/sunshinebar/internal/models"
)

type messages struct {
	mu   sync.Mutex
	list []string
}

func (m *messages) deliver(title, message string, icon any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, message)
	return nil
}

func (m *messages) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.list...)
}

type presenter struct {
	mu      sync.Mutex
	running bool
}

func (p *presenter) SetRunning(running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = running
}

type fixture struct {
	host    *Host
	alerts  *messages
	config  string
	logPath string
	quit    chan struct{}
}

func newFixture(t *testing.T, script string) *fixture {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	f := &fixture{
		alerts:  &messages{},
		config:  filepath.Join(dir, "sunshine.conf"),
		logPath: filepath.Join(dir, "sunshine.log"),
		quit:    make(chan struct{}),
	}
	if err := os.WriteFile(f.config, []byte("# sunshine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	bin := filepath.Join(dir, "sunshine")
	if script != "" {
		if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	settings := models.NewSettings()
	settings.Binary.Candidates = []string{bin}
	settings.Sunshine.ConfigPath = f.config
	settings.Sunshine.LogPath = f.logPath

	var once sync.Once
	h, err := New(Options{
		Settings:  settings,
		Presenter: &presenter{},
		Alerts:    alert.New(alert.Options{Granted: true, Notify: f.alerts.deliver, Alert: f.alerts.deliver}),
		Quit:      func() { once.Do(func() { close(f.quit) }) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.host = h
	t.Cleanup(h.Stop)
	return f
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func childState(t *testing.T) string {
	t.Helper()
	info, err := config.LoadAgentInfo()
	if err != nil || info == nil {
		return ""
	}
	return info.Child.State
}

func TestHostLifecycle(t *testing.T) {
	f := newFixture(t, "exec sleep 30")

	if err := f.host.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "running state in agent.yaml", func() bool {
		return childState(t) == string(supervisor.StateRunning)
	})

	info, err := config.LoadAgentInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.PID != os.Getpid() || info.Child.PID == 0 || info.Child.LogPath != f.logPath {
		t.Fatalf("unexpected agent info %+v", info)
	}

	f.host.RequestShutdown()
	select {
	case <-f.quit:
	case <-time.After(5 * time.Second):
		t.Fatal("quit was not requested")
	}
	if got := f.host.Supervisor().QueryStatus(); got != supervisor.StatusStopped {
		t.Fatalf("status after shutdown = %s, want Stopped", got)
	}
	if got := f.alerts.all(); len(got) != 0 {
		t.Fatalf("alerts = %v, want none", got)
	}

	f.host.Stop()
	select {
	case <-f.host.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
	if info, _ := config.LoadAgentInfo(); info != nil {
		t.Fatalf("agent.yaml still present: %+v", info)
	}
}

func TestHostRecordsLaunchFailure(t *testing.T) {
	f := newFixture(t, "")

	if err := f.host.Start(); !supervisor.IsNotFound(err) {
		t.Fatalf("Start error = %v, want not found", err)
	}
	if got := childState(t); got != string(supervisor.StateLaunchFailed) {
		t.Fatalf("child state = %q, want %q", got, supervisor.StateLaunchFailed)
	}
	got := f.alerts.all()
	if len(got) != 1 || got[0] != "Cannot locate sunshine binary." {
		t.Fatalf("alerts = %v", got)
	}
}

func TestHostAlertsOnConfigChange(t *testing.T) {
	f := newFixture(t, "exec sleep 30")

	if err := f.host.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := os.WriteFile(f.config, []byte("port = 48000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "config change alert", func() bool {
		for _, m := range f.alerts.all() {
			if m == msgConfigChanged {
				return true
			}
		}
		return false
	})
}

func TestTrayStateReflectsSupervisor(t *testing.T) {
	f := newFixture(t, "exit 0")
	state := NewTrayState(f.host)

	if got := state.QueryStatus(); got != supervisor.StatusStopped {
		t.Fatalf("status before start = %s", got)
	}
	if err := f.host.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, "child exit", func() bool {
		return childState(t) == string(supervisor.StateExited)
	})
	if got := state.QueryStatus(); got != supervisor.StatusStopped {
		t.Fatalf("status after exit = %s", got)
	}
}

func TestHostStartFailsWhenAgentInfoCannotBeWritten(t *testing.T) {
	f := newFixture(t, "exec sleep 30")

	// A regular file where the home directory should be.
	home := filepath.Join(t.TempDir(), "home")
	if err := os.WriteFile(home, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)

	err := f.host.Start()
	if !errors.Is(err, ErrUnrecoverable) {
		t.Fatalf("Start error = %v, want ErrUnrecoverable", err)
	}
	if got := f.host.Supervisor().Snapshot().State; got != supervisor.StateIdle {
		t.Fatalf("supervisor state = %s, want idle", got)
	}
}
