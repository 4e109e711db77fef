package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sunshine.conf")
	if err := os.WriteFile(path, []byte("port = 47989\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path, Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w, path
}

func expectEvent(t *testing.T, w *Watcher, want EventType) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		if ev.Type != want {
			t.Fatalf("event type = %s, want %s", ev.Type, want)
		}
		return ev
	case <-time.After(3 * time.Second):
		t.Fatalf("no %s event", want)
	}
	return Event{}
}

func expectNoEvent(t *testing.T, w *Watcher, within time.Duration) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(within):
	}
}

func TestWatcherDebouncesBurst(t *testing.T) {
	w, path := startWatcher(t)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("port = 4798"+string(rune('0'+i))+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	ev := expectEvent(t, w, EventConfigChanged)
	if ev.Path != w.Path() {
		t.Errorf("Path = %q, want %q", ev.Path, w.Path())
	}
	expectNoEvent(t, w, 300*time.Millisecond)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	w, path := startWatcher(t)

	other := filepath.Join(filepath.Dir(path), "apps.json")
	if err := os.WriteFile(other, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectNoEvent(t, w, 300*time.Millisecond)
}

func TestWatcherSeesAtomicSave(t *testing.T) {
	w, path := startWatcher(t)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("port = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	expectEvent(t, w, EventConfigChanged)
}

func TestWatcherReportsRemoval(t *testing.T) {
	w, path := startWatcher(t)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	expectEvent(t, w, EventConfigRemoved)
}

func TestWatcherStartFailsForMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "sunshine.conf"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()
	if err := w.Start(); err == nil {
		t.Fatal("expected Start to fail for a missing directory")
	}
}
