// Package models contains shared data structures used across the application.
package models

import "time"

// ChildInfo is the persisted view of the supervised sunshine process.
type ChildInfo struct {
	State      string     `yaml:"state"`
	SessionID  string     `yaml:"session_id,omitempty"`
	PID        int        `yaml:"pid,omitempty"`
	BinaryPath string     `yaml:"binary_path,omitempty"`
	LogPath    string     `yaml:"log_path,omitempty"`
	ExitCode   *int       `yaml:"exit_code,omitempty"`
	LastError  string     `yaml:"last_error,omitempty"`
	StartedAt  *time.Time `yaml:"started_at,omitempty"`
	ExitedAt   *time.Time `yaml:"exited_at,omitempty"`
}

// AgentInfo represents the running agent and its child.
// This corresponds to ~/.sunshinebar/agent.yaml.
type AgentInfo struct {
	Version   int       `yaml:"version"`
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`
	Tray      bool      `yaml:"tray"`
	Child     ChildInfo `yaml:"child"`
}

// NewAgentInfo creates agent info for the current process.
func NewAgentInfo(pid int, tray bool) *AgentInfo {
	return &AgentInfo{
		Version:   1,
		PID:       pid,
		StartedAt: time.Now().UTC(),
		Tray:      tray,
		Child:     ChildInfo{State: "idle"},
	}
}
