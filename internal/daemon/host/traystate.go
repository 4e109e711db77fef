package host

import "github.com/sunshinebar/sunshinebar/internal/daemon/supervisor"

// TrayState adapts a Host to the tray.AgentState interface.
type TrayState struct {
	h *Host
}

// NewTrayState creates a TrayState for the given host.
func NewTrayState(h *Host) *TrayState {
	return &TrayState{h: h}
}

// QueryStatus reports whether sunshine is running.
func (t *TrayState) QueryStatus() supervisor.Status {
	return t.h.supervisor.QueryStatus()
}

// ShowLogs opens the sunshine log.
func (t *TrayState) ShowLogs() {
	t.h.ShowLogs()
}

// OpenSettings opens the Sunshine admin page.
func (t *TrayState) OpenSettings() {
	t.h.OpenSettings()
}

// Restart relaunches the agent.
func (t *TrayState) Restart() {
	t.h.Restart()
}

// RequestShutdown stops sunshine and quits the tray.
func (t *TrayState) RequestShutdown() {
	t.h.RequestShutdown()
}
