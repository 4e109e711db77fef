package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sunshinebar/sunshinebar/internal/config"
)

const pollInterval = 500 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func readCmd(path string, offset int64) tea.Cmd {
	return func() tea.Msg {
		data, next, truncated, err := ReadFrom(path, offset)
		return chunkMsg{data: data, next: next, truncated: truncated, err: err}
	}
}

func stateCmd() tea.Cmd {
	return func() tea.Msg {
		running, info, err := config.IsAgentRunning()
		if err != nil || !running || info == nil {
			return stateMsg{}
		}
		return stateMsg{state: info.Child.State, pid: info.Child.PID}
	}
}
