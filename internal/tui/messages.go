package tui

import "time"

type tickMsg time.Time

// chunkMsg carries newly appended log bytes.
type chunkMsg struct {
	data      []byte
	next      int64
	truncated bool
	err       error
}

// stateMsg carries the supervisor state read from agent.yaml. An empty
// state means no agent is running.
type stateMsg struct {
	state string
	pid   int
}
