// Package tui implements the interactive log follower for sunshinebar.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the follower.
type Options struct {
	// Plain strips ANSI escape sequences from the child's output.
	Plain bool
}

// FollowLog opens a full-screen view of path that tails new output and
// shows the supervisor state from agent.yaml.
func FollowLog(path string, opts Options) error {
	p := tea.NewProgram(
		NewFollower(path, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
