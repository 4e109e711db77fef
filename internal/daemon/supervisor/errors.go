package supervisor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBinaryNotFound is returned when no candidate binary exists.
	ErrBinaryNotFound = errors.New("sunshine binary not found")

	// ErrAlreadyStarted is returned by Start while a child is alive or launching.
	ErrAlreadyStarted = errors.New("sunshine is already running")

	// ErrQuitting is returned by Start once Terminate has been requested.
	ErrQuitting = errors.New("agent is quitting")
)

// LocatorError reports which candidates were checked.
type LocatorError struct {
	Candidates []string
}

func (e *LocatorError) Error() string {
	if len(e.Candidates) == 0 {
		return ErrBinaryNotFound.Error() + " (no candidates configured)"
	}
	return fmt.Sprintf("%v (checked %s)", ErrBinaryNotFound, strings.Join(e.Candidates, ", "))
}

func (e *LocatorError) Unwrap() error {
	return ErrBinaryNotFound
}

// SpawnError wraps the OS error from starting an existing binary.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError records an abnormal (non-zero) child exit.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("sunshine exited with status %d", e.Code)
}
