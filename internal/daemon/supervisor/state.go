// Package supervisor owns the lifecycle of the single sunshine child process:
// locating the binary, capturing its output to the log file, observing its
// exit, and terminating it when the agent quits.
package supervisor

import "time"

// State is the supervisor's lifecycle state.
type State string

const (
	StateIdle         State = "idle"          // Nothing started yet
	StateLaunching    State = "launching"     // Locating, opening the log, spawning
	StateRunning      State = "running"       // Child alive
	StateTerminating  State = "terminating"   // SIGTERM sent, waiting for exit
	StateExited       State = "exited"        // Child gone; exit code recorded
	StateLaunchFailed State = "launch_failed" // Locate or spawn failed
)

// Status is the coarse run state shown in the menu.
type Status int

const (
	StatusStopped Status = iota
	StatusRunning
)

func (s Status) String() string {
	if s == StatusRunning {
		return "Running"
	}
	return "Stopped"
}

// Snapshot is a point-in-time copy of the supervisor state.
type Snapshot struct {
	State      State
	SessionID  string
	PID        int
	BinaryPath string
	LogPath    string
	ExitCode   *int
	Err        error
	StartedAt  time.Time
	ExitedAt   time.Time
}

// Status derives the menu status from the snapshot.
func (s Snapshot) Status() Status {
	return statusOf(s.State)
}

func statusOf(state State) Status {
	switch state {
	case StateRunning, StateTerminating:
		return StatusRunning
	default:
		return StatusStopped
	}
}
