package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sunshine.log")
	if err := os.WriteFile(path, []byte("first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, next, truncated, err := ReadFrom(path, 0)
	if err != nil || string(data) != "first\n" || next != 6 || truncated {
		t.Fatalf("first read = %q, %d, %v, %v", data, next, truncated, err)
	}

	data, next, truncated, err = ReadFrom(path, next)
	if err != nil || len(data) != 0 || next != 6 || truncated {
		t.Fatalf("idle read = %q, %d, %v, %v", data, next, truncated, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("second\n")
	f.Close()

	data, next, _, err = ReadFrom(path, next)
	if err != nil || string(data) != "second\n" || next != 13 {
		t.Fatalf("append read = %q, %d, %v", data, next, err)
	}

	// A new session truncates the file.
	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, next, truncated, err = ReadFrom(path, next)
	if err != nil || string(data) != "new\n" || next != 4 || !truncated {
		t.Fatalf("truncated read = %q, %d, %v, %v", data, next, truncated, err)
	}
}

func TestReadFromMissingFile(t *testing.T) {
	if _, _, _, err := ReadFrom(filepath.Join(t.TempDir(), "nope.log"), 0); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFollowerAppliesChunks(t *testing.T) {
	f := NewFollower("/tmp/sunshine.log", Options{Plain: true})

	f.Update(chunkMsg{data: []byte("\x1b[31mred\x1b[0m\n"), next: 13})
	f.Update(chunkMsg{data: []byte("more\n"), next: 18})
	if got := f.Content(); got != "red\nmore\n" {
		t.Fatalf("Content() = %q", got)
	}

	f.Update(chunkMsg{data: []byte("fresh\n"), next: 6, truncated: true})
	if got := f.Content(); got != "fresh\n" {
		t.Fatalf("Content() after truncation = %q", got)
	}
	if f.offset != 6 {
		t.Errorf("offset = %d, want 6", f.offset)
	}
}
