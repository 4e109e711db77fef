package config

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/sunshinebar/sunshinebar/internal/models"
)

// LoadAgentInfo loads the agent info from ~/.sunshinebar/agent.yaml.
// Returns nil if the file doesn't exist.
func LoadAgentInfo() (*models.AgentInfo, error) {
	path, err := GlobalAgentFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.AgentInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveAgentInfo saves the agent info to ~/.sunshinebar/agent.yaml.
func SaveAgentInfo(info *models.AgentInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalAgentFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveAgentInfo removes the agent.yaml file.
func RemoveAgentInfo() error {
	path, err := GlobalAgentFile()
	if err != nil {
		return err
	}
	return RemoveIfExists(path)
}

// IsAgentRunning checks if the agent process recorded in agent.yaml is alive.
// A stale file (dead PID) is removed.
func IsAgentRunning() (bool, *models.AgentInfo, error) {
	info, err := LoadAgentInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	if info.PID == os.Getpid() || !ProcessAlive(info.PID) {
		_ = RemoveAgentInfo()
		return false, info, nil
	}

	return true, info, nil
}

// ProcessAlive reports whether pid exists, using signal 0.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
