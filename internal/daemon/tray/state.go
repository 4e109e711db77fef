// Package tray implements the status bar icon and menu for the agent.
package tray

import "github.com/sunshinebar/sunshinebar/internal/daemon/supervisor"

// AgentState gives the tray read access to the supervisor and the actions
// behind each menu item. Action methods may block; the tray calls them on
// their own goroutine.
type AgentState interface {
	QueryStatus() supervisor.Status
	ShowLogs()
	OpenSettings()
	Restart()
	RequestShutdown()
}
