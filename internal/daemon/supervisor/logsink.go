package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LogSink is the append-only destination for the child's combined output.
type LogSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// OpenLogSink creates (truncating) the file at path. It must be called before
// the child is spawned so every session starts with an empty log.
func OpenLogSink(path string) (*LogSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return &LogSink{path: path, file: f}, nil
}

// Path returns the file path.
func (s *LogSink) Path() string {
	return s.path
}

// Write appends p. Concurrent writers are serialized in call order.
func (s *LogSink) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, os.ErrClosed
	}
	return s.file.Write(p)
}

// Close releases the handle. Safe to call multiple times.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
