// Package actions implements the user-triggered operations behind the menu:
// viewing logs, opening the admin page, and restarting or terminating the
// agent.
package actions

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// ConsoleApp is the macOS log viewer used by ShowLogs.
const ConsoleApp = "/System/Applications/Utilities/Console.app"

// Options configures a Manager.
type Options struct {
	LogPath       string
	AdminURL      string
	RelaunchDelay int // seconds

	// Executable and Args describe how to relaunch the agent. They default to
	// os.Executable and os.Args[1:].
	Executable string
	Args       []string

	// Quit asks the host to shut down gracefully. It is called on its own
	// goroutine by Restart.
	Quit func()
	// Terminate stops the child before TerminateWithError exits.
	Terminate func()

	Logger *zap.Logger
}

// Manager runs actions. The zero value is not usable; use New.
type Manager struct {
	opts   Options
	logger *zap.Logger
	goos   string

	start func(*exec.Cmd) error
	exit  func(code int)
}

// New creates a Manager.
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Executable == "" {
		if exe, err := os.Executable(); err == nil {
			opts.Executable = exe
		}
	}
	if opts.Args == nil && len(os.Args) > 1 {
		opts.Args = append([]string(nil), os.Args[1:]...)
	}
	if opts.RelaunchDelay < 1 {
		opts.RelaunchDelay = 1
	}
	return &Manager{
		opts:   opts,
		logger: logger,
		goos:   runtime.GOOS,
		start:  (*exec.Cmd).Start,
		exit:   os.Exit,
	}
}

// ShowLogs opens the child's log file in the platform log viewer.
func (m *Manager) ShowLogs() error {
	var cmd *exec.Cmd
	if m.goos == "darwin" {
		cmd = exec.Command("open", m.opts.LogPath, "-a", ConsoleApp)
	} else {
		cmd = exec.Command("xdg-open", m.opts.LogPath)
	}
	return m.launch("show logs", cmd)
}

// OpenURL opens url in the default browser.
func (m *Manager) OpenURL(url string) error {
	opener := "xdg-open"
	if m.goos == "darwin" {
		opener = "open"
	}
	return m.launch("open url", exec.Command(opener, url))
}

// OpenSettings opens the Sunshine admin page.
func (m *Manager) OpenSettings() error {
	return m.OpenURL(m.opts.AdminURL)
}

// Restart spawns a detached relauncher that starts a fresh agent after the
// configured delay, then asks the host to quit. It returns without waiting
// for the quit to happen. If the relauncher cannot be started the agent
// keeps running.
func (m *Manager) Restart() error {
	if m.opts.Executable == "" {
		return fmt.Errorf("cannot restart: executable path unknown")
	}

	cmd := exec.Command("/bin/sh", "-c", m.relaunchScript())
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := m.start(cmd); err != nil {
		m.logger.Error("failed to spawn relauncher", zap.Error(err))
		return fmt.Errorf("failed to spawn relauncher: %w", err)
	}
	if cmd.Process != nil {
		m.logger.Info("relauncher started",
			zap.Int("pid", cmd.Process.Pid),
			zap.Int("delay_seconds", m.opts.RelaunchDelay),
		)
		_ = cmd.Process.Release()
	}

	if m.opts.Quit != nil {
		go m.opts.Quit()
	}
	return nil
}

// TerminateWithError stops the child and exits the host with status 1.
func (m *Manager) TerminateWithError() {
	m.logger.Error("terminating agent after unrecoverable error")
	if m.opts.Terminate != nil {
		m.opts.Terminate()
	}
	_ = m.logger.Sync()
	m.exit(1)
}

func (m *Manager) relaunchScript() string {
	delay := fmt.Sprintf("sleep %d; ", m.opts.RelaunchDelay)
	if bundle, ok := appBundle(m.opts.Executable); ok {
		return delay + "open " + shellQuote(bundle)
	}
	parts := []string{"exec", shellQuote(m.opts.Executable)}
	for _, a := range m.opts.Args {
		parts = append(parts, shellQuote(a))
	}
	return delay + strings.Join(parts, " ")
}

func (m *Manager) launch(name string, cmd *exec.Cmd) error {
	if err := m.start(cmd); err != nil {
		m.logger.Warn("action failed", zap.String("action", name), zap.Strings("argv", cmd.Args), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	if cmd.Process != nil {
		go func() { _ = cmd.Wait() }()
	}
	return nil
}

// appBundle returns the enclosing .app directory of a macOS executable.
func appBundle(exe string) (string, bool) {
	const marker = ".app/Contents/MacOS/"
	i := strings.Index(exe, marker)
	if i < 0 {
		return "", false
	}
	return exe[:i+len(".app")], true
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
