package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sunshinebar/sunshinebar/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent and Sunshine status",
	RunE:  runStatus,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop Sunshine and the agent",
	RunE:  runStop,
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the agent and Sunshine",
	Long: `Ask the running agent to relaunch itself. The agent stops Sunshine, exits,
and a fresh agent starts Sunshine again after a short delay.`,
	RunE: runRestart,
}

func runStatus(cmd *cobra.Command, args []string) error {
	info, err := runningAgent()
	if errors.Is(err, errAgentNotRunning) {
		fmt.Println(styleWarning.Render("Agent is not running."))
		fmt.Println(styleHint.Render("  Start it with ") + styleCommand.Render("sunshinebar run"))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Print(formatStatus(info, time.Now()))
	return nil
}

func formatStatus(info *models.AgentInfo, now time.Time) string {
	mode := "foreground"
	if info.Tray {
		mode = "status bar"
	}
	uptime := now.Sub(info.StartedAt).Truncate(time.Second)

	out := styleSuccess.Render("Agent is running.") + "\n"
	out += row("PID", fmt.Sprint(info.PID))
	out += row("Mode", mode)
	out += row("Uptime", uptime.String())

	child := info.Child
	out += "\n" + styleBrand.Render("Sunshine") + "\n"
	out += row("State", stateBadge(child.State))
	if child.PID > 0 && child.State == "running" {
		out += row("PID", fmt.Sprint(child.PID))
	}
	if child.BinaryPath != "" {
		out += row("Binary", child.BinaryPath)
	}
	if child.LogPath != "" {
		out += row("Log", child.LogPath)
	}
	if child.ExitCode != nil {
		out += row("Exit code", fmt.Sprint(*child.ExitCode))
	}
	if child.LastError != "" {
		out += row("Last error", styleError.Render(child.LastError))
	}
	return out
}

func row(label, value string) string {
	return fmt.Sprintf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", label+":")), styleValue.Render(value))
}

func stateBadge(state string) string {
	switch state {
	case "running":
		return badgeRunning.Render("● running")
	case "launch_failed":
		return badgeFailed.Render("✗ launch failed")
	case "launching", "terminating":
		return badgeBusy.Render("◌ " + state)
	case "":
		return badgeStopped.Render("○ unknown")
	default:
		return badgeStopped.Render("○ " + state)
	}
}
