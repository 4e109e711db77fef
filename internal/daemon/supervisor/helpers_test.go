package supervisor

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"
)

// writeScript writes an executable /bin/sh script and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
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

// backgroundScript returns a script body that leaves a `sleep 30` holding
// the output pipe, records its pid, then runs tail. The sleeper is killed
// when the test ends.
func backgroundScript(t *testing.T, tail string) string {
	t.Helper()
	pidFile := filepath.Join(t.TempDir(), "bg.pid")
	t.Cleanup(func() {
		data, err := os.ReadFile(pidFile)
		if err != nil {
			return
		}
		if pid, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && pid > 0 {
			_ = syscall.Kill(pid, syscall.SIGKILL)
		}
	})
	return "sleep 30 &\necho $! > '" + pidFile + "'\n" + tail
}

type alertCall struct {
	message string
	title   string
}

// fakeAlerts records every Notify call, including ones a real gateway
// would drop, so tests see what the supervisor actually asked for.
type fakeAlerts struct {
	mu       sync.Mutex
	calls    []alertCall
	quitting bool
}

func (f *fakeAlerts) Notify(message, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, alertCall{message: message, title: title})
}

func (f *fakeAlerts) SetQuitting() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quitting = true
}

func (f *fakeAlerts) Calls() []alertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]alertCall(nil), f.calls...)
}

type fakePresenter struct {
	mu    sync.Mutex
	calls []bool
}

func (f *fakePresenter) SetRunning(running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, running)
}

func (f *fakePresenter) Calls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.calls...)
}
