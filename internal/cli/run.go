package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/daemon/host"
	"github.com/sunshinebar/sunshinebar/internal/daemon/tray"
	"github.com/sunshinebar/sunshinebar/internal/logging"
	"github.com/sunshinebar/sunshinebar/internal/models"
)

// previousAgentTimeout bounds how long a relaunched agent waits for the one
// it replaces to exit.
const previousAgentTimeout = 10 * time.Second

var runForeground bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent",
	Long: `Run the agent and start Sunshine.

By default the agent shows a status bar item. With --foreground it runs
without one and stops on SIGINT or SIGTERM. In both modes SIGHUP restarts
the agent.`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	runCmd.Flags().BoolVar(&runForeground, "foreground", false, "Run without the status bar item")
}

func runAgent(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	if err := config.EnsureGlobalLogsDir(); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if err := waitForPreviousAgent(previousAgentTimeout); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logFile, err := config.AgentLogFile()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{File: logFile, Debug: debugLogging})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if runForeground {
		logger.Info("running in foreground mode (no status bar item)")
		return runAgentForeground(settings, logger)
	}
	logger.Info("running with status bar item")
	return runAgentWithTray(settings, logger)
}

// waitForPreviousAgent gives a restarting agent time to exit. A relaunched
// agent can start before the old one has finished terminating Sunshine.
func waitForPreviousAgent(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		running, info, err := config.IsAgentRunning()
		if err != nil {
			return fmt.Errorf("failed to check agent status: %w", err)
		}
		if !running {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("agent already running (PID %d)", info.PID)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// runAgentForeground runs the agent without a status bar item, blocking on
// signals.
func runAgentForeground(settings *models.Settings, logger *zap.Logger) error {
	quit := make(chan struct{})
	h, err := host.New(host.Options{
		Settings: settings,
		Logger:   logger,
		Quit:     func() { close(quit) },
	})
	if err != nil {
		return err
	}

	if err := h.Start(); err != nil {
		if errors.Is(err, host.ErrUnrecoverable) {
			h.Stop()
			return err
		}
		logger.Error("sunshine did not start", zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

loop:
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("received SIGHUP, restarting")
				h.Restart()
				continue
			}
			logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
			break loop
		case <-quit:
			break loop
		}
	}

	h.Stop()
	fmt.Println("Agent stopped")
	return nil
}

// runAgentWithTray runs the agent with a status bar item on the main
// goroutine. systray.Run must occupy the main goroutine on macOS (Cocoa
// requirement).
func runAgentWithTray(settings *models.Settings, logger *zap.Logger) error {
	presenter := tray.NewPresenter()
	h, err := host.New(host.Options{
		Settings:  settings,
		Logger:    logger,
		Presenter: presenter,
		Tray:      true,
		Quit:      tray.Quit,
	})
	if err != nil {
		return err
	}

	onStart := func() {
		if err := h.Start(); err != nil {
			if errors.Is(err, host.ErrUnrecoverable) {
				logger.Error("cannot run agent", zap.Error(err))
				h.TerminateWithError()
				return
			}
			logger.Error("sunshine did not start", zap.Error(err))
		}

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			for {
				select {
				case <-h.Done():
					signal.Stop(sigCh)
					return
				case sig := <-sigCh:
					if sig == syscall.SIGHUP {
						logger.Info("received SIGHUP, restarting")
						h.Restart()
						continue
					}
					logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
					h.RequestShutdown()
				}
			}
		}()
	}

	onExit := func() {
		h.Stop()
		fmt.Println("Agent stopped")
	}

	// This blocks the main goroutine until the tray exits.
	tray.Run(host.NewTrayState(h), presenter, logger, onStart, onExit)
	return nil
}
