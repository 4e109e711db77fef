package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/models"
)

// errAgentNotRunning is reported by commands that need a live agent.
var errAgentNotRunning = errors.New("agent is not running")

// runningAgent returns the live agent's info, or errAgentNotRunning.
func runningAgent() (*models.AgentInfo, error) {
	running, info, err := config.IsAgentRunning()
	if err != nil {
		return nil, fmt.Errorf("failed to check agent status: %w", err)
	}
	if !running || info == nil {
		return nil, errAgentNotRunning
	}
	return info, nil
}

// signalAgent sends sig to the agent process.
func signalAgent(info *models.AgentInfo, sig syscall.Signal) error {
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find agent process: %w", err)
	}
	if err := process.Signal(sig); err != nil {
		return fmt.Errorf("failed to send %s: %w", sig, err)
	}
	return nil
}

// waitUntil polls cond every 100ms until it holds or timeout elapses.
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return cond()
}
