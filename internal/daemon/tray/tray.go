package tray

import (
	"time"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"github.com/sunshinebar/sunshinebar/internal/daemon/supervisor"
)

// statusInterval is how often the status label is refreshed. systray has no
// menu-will-open hook, so the label is pulled on a timer instead.
const statusInterval = time.Second

var (
	state     AgentState
	presenter *Presenter
	logger    *zap.SugaredLogger
	onStart   func()
	onExit    func()
	stopPull  chan struct{}

	statusItem   *systray.MenuItem
	showLogsItem *systray.MenuItem
	settingsItem *systray.MenuItem
	restartItem  *systray.MenuItem
	quitItem     *systray.MenuItem
)

// Run starts the status bar item. This blocks the calling goroutine (must be
// main). onStartFn is called once the menu exists (start supervision there).
// onExitFn is called when the tray exits (cleanup here).
func Run(s AgentState, p *Presenter, l *zap.Logger, onStartFn, onExitFn func()) {
	state = s
	presenter = p
	logger = l.Named("tray").Sugar()
	onStart = onStartFn
	onExit = onExitFn
	stopPull = make(chan struct{})
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTooltip(formatTooltip(supervisor.StatusStopped))
	if presenter != nil {
		presenter.markReady()
	} else {
		setIcon(false)
	}

	header := systray.AddMenuItem("Sunshine Status:", "")
	header.Disable()

	statusItem = systray.AddMenuItem("Starting...", "")
	statusItem.Disable()

	systray.AddSeparator()

	showLogsItem = systray.AddMenuItem("Show Logs...", "Open the Sunshine log")
	settingsItem = systray.AddMenuItem("Settings...", "Open the Sunshine admin page")

	systray.AddSeparator()

	restartItem = systray.AddMenuItem("Restart", "Restart Sunshine and the status bar agent")
	quitItem = systray.AddMenuItem("Quit", "Stop Sunshine and quit")

	if onStart != nil {
		onStart()
	}

	go pullStatus()
	go handleClicks()
}

func onQuit() {
	close(stopPull)
	if onExit != nil {
		onExit()
	}
}

func pullStatus() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	refreshStatus()
	for {
		select {
		case <-stopPull:
			return
		case <-ticker.C:
			refreshStatus()
		}
	}
}

func refreshStatus() {
	if state == nil {
		return
	}
	status := state.QueryStatus()
	statusItem.SetTitle(formatStatus(status))
	systray.SetTooltip(formatTooltip(status))
}

func handleClicks() {
	for {
		select {
		case <-stopPull:
			return
		case <-showLogsItem.ClickedCh:
			dispatch("show logs", state.ShowLogs)
		case <-settingsItem.ClickedCh:
			dispatch("settings", state.OpenSettings)
		case <-restartItem.ClickedCh:
			dispatch("restart", state.Restart)
		case <-quitItem.ClickedCh:
			dispatch("quit", state.RequestShutdown)
		}
	}
}

// dispatch runs a menu action off the click loop.
func dispatch(name string, fn func()) {
	if state == nil {
		return
	}
	logger.Infof("menu: %s", name)
	go fn()
}

func formatStatus(status supervisor.Status) string {
	return "  " + status.String()
}

func formatTooltip(status supervisor.Status) string {
	return "Sunshine: " + status.String()
}
