package cli

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sunshinebar/sunshinebar/internal/config"
)

// stopTimeout allows Sunshine time to handle SIGTERM before the agent exits.
const stopTimeout = 15 * time.Second

func runStop(cmd *cobra.Command, args []string) error {
	info, err := runningAgent()
	if errors.Is(err, errAgentNotRunning) {
		fmt.Println("Agent is not running.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := signalAgent(info, syscall.SIGTERM); err != nil {
		return err
	}

	stopped := waitUntil(stopTimeout, func() bool {
		running, _, err := config.IsAgentRunning()
		return err == nil && !running
	})
	if !stopped {
		return fmt.Errorf("agent did not stop within %s", stopTimeout)
	}
	fmt.Println(styleSuccess.Render("Agent stopped."))
	return nil
}

func runRestart(cmd *cobra.Command, args []string) error {
	info, err := runningAgent()
	if errors.Is(err, errAgentNotRunning) {
		fmt.Println(styleWarning.Render("Agent is not running."))
		fmt.Println(styleHint.Render("  Start it with ") + styleCommand.Render("sunshinebar run"))
		return nil
	}
	if err != nil {
		return err
	}

	if err := signalAgent(info, syscall.SIGHUP); err != nil {
		return err
	}
	fmt.Printf("Restart requested (PID %d).\n", info.PID)
	return nil
}
