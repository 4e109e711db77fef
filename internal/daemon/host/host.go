// Package host wires the supervisor, alert gateway, config watcher, and
// actions into one running agent.
package host

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/sunshinebar/sunshinebar/internal/buildinfo"
	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/daemon/actions"
	"github.com/sunshinebar/sunshinebar/internal/daemon/alert"
	"github.com/sunshinebar/sunshinebar/internal/daemon/supervisor"
	"github.com/sunshinebar/sunshinebar/internal/daemon/watcher"
	"github.com/sunshinebar/sunshinebar/internal/models"
)

const (
	msgConfigChanged  = "Sunshine configuration changed. Restart to apply."
	msgRestartFailed  = "Unable to restart sunshinebar."
	msgShowLogsFailed = "Unable to open the sunshine log."
)

// ErrUnrecoverable marks startup failures the agent cannot run past.
var ErrUnrecoverable = errors.New("unrecoverable startup error")

// Options configures a Host.
type Options struct {
	Settings  *models.Settings
	Logger    *zap.Logger
	Presenter supervisor.Presenter
	Tray      bool

	// Quit asks the process to exit (tray.Quit in tray mode). Called after
	// the child has been terminated.
	Quit func()

	// Alerts overrides the beeep-backed gateway.
	Alerts *alert.Gateway
}

// Host owns every long-lived component of the agent.
type Host struct {
	settings   *models.Settings
	logger     *zap.Logger
	gateway    *alert.Gateway
	supervisor *supervisor.Supervisor
	watcher    *watcher.Watcher
	actions    *actions.Manager
	quit       func()

	infoMu sync.Mutex
	info   *models.AgentInfo

	done     chan struct{}
	stopOnce sync.Once
	quitOnce sync.Once
}

// New builds a Host from settings. Nothing is started until Start.
func New(opts Options) (*Host, error) {
	settings := opts.Settings
	if settings == nil {
		settings = models.NewSettings()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	configPath, err := config.ResolveSunshineConfig(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sunshine config path: %w", err)
	}
	logPath := config.ResolveSunshineLog(settings)

	h := &Host{
		settings: settings,
		logger:   logger,
		quit:     opts.Quit,
		info:     models.NewAgentInfo(os.Getpid(), opts.Tray),
		done:     make(chan struct{}),
	}

	h.gateway = opts.Alerts
	if h.gateway == nil {
		h.gateway = alert.New(alert.Options{
			Granted: settings.Notifications.Enabled,
			Logger:  logger.Named("alert"),
		})
	}

	h.supervisor = supervisor.New(supervisor.Options{
		Locator:    supervisor.NewLocator(settings.BinaryCandidates()),
		ConfigPath: configPath,
		LogPath:    logPath,
		Launch:     settings.Launch,
		Alerts:     h.gateway,
		Presenter:  opts.Presenter,
		Logger:     logger.Named("supervisor"),
		OnChange:   h.persist,
	})

	h.actions = actions.New(actions.Options{
		LogPath:       logPath,
		AdminURL:      config.ResolveAdminURL(settings),
		RelaunchDelay: settings.RelaunchDelaySeconds(),
		Quit:          h.RequestShutdown,
		Terminate:     h.supervisor.Terminate,
		Logger:        logger.Named("actions"),
	})

	if settings.Watch.ConfigFile {
		w, err := watcher.New(configPath, watcher.Options{Logger: logger.Named("watcher")})
		if err != nil {
			logger.Warn("config watcher unavailable", zap.Error(err))
		} else {
			h.watcher = w
		}
	}

	return h, nil
}

// Supervisor returns the process supervisor.
func (h *Host) Supervisor() *supervisor.Supervisor {
	return h.supervisor
}

// Actions returns the action manager.
func (h *Host) Actions() *actions.Manager {
	return h.actions
}

// Done is closed once Stop has finished.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Start records the agent in agent.yaml, starts the config watcher, and
// launches sunshine. Failing to write agent.yaml wraps ErrUnrecoverable and
// nothing is started. A launch failure has already been alerted and is
// returned for logging only; the agent keeps running so the user can retry.
func (h *Host) Start() error {
	h.infoMu.Lock()
	err := config.SaveAgentInfo(h.info)
	h.infoMu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: failed to write agent info: %w", ErrUnrecoverable, err)
	}

	if h.watcher != nil {
		if err := h.watcher.Start(); err != nil {
			h.logger.Warn("not watching sunshine config", zap.Error(err))
		} else {
			go h.watchConfig()
		}
	}
	go h.logExits()

	h.logger.Info("agent started",
		zap.Int("pid", os.Getpid()),
		zap.Bool("tray", h.info.Tray),
		zap.String("version", buildinfo.Summary()),
	)
	return h.supervisor.Start()
}

// Stop terminates the child, stops the watcher, and removes agent.yaml.
// It blocks until the child has exited.
func (h *Host) Stop() {
	h.stopOnce.Do(func() {
		h.supervisor.Terminate()
		if h.watcher != nil {
			h.watcher.Stop()
		}
		close(h.done)
		if err := config.RemoveAgentInfo(); err != nil {
			h.logger.Warn("failed to remove agent info", zap.Error(err))
		}
		h.logger.Info("agent stopped")
	})
}

// TerminateWithError stops the child and exits the process with status 1.
func (h *Host) TerminateWithError() {
	h.actions.TerminateWithError()
}

// RequestShutdown terminates the child on a background goroutine and then
// calls Quit. It returns immediately.
func (h *Host) RequestShutdown() {
	h.quitOnce.Do(func() {
		h.logger.Info("shutdown requested")
		go func() {
			<-h.supervisor.Shutdown()
			if h.quit != nil {
				h.quit()
			}
		}()
	})
}

// Restart relaunches the agent. On failure the user is alerted and the
// agent keeps running.
func (h *Host) Restart() {
	if err := h.actions.Restart(); err != nil {
		h.gateway.Notify(msgRestartFailed, "")
	}
}

// ShowLogs opens the sunshine log.
func (h *Host) ShowLogs() {
	if err := h.actions.ShowLogs(); err != nil {
		h.gateway.Notify(msgShowLogsFailed, "")
	}
}

// OpenSettings opens the Sunshine admin page.
func (h *Host) OpenSettings() {
	if err := h.actions.OpenSettings(); err != nil {
		h.logger.Warn("failed to open admin page", zap.Error(err))
	}
}

func (h *Host) watchConfig() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.watcher.Events():
			switch ev.Type {
			case watcher.EventConfigChanged:
				if h.supervisor.QueryStatus() == supervisor.StatusRunning {
					h.gateway.Notify(msgConfigChanged, "")
				}
			case watcher.EventConfigRemoved:
				h.logger.Warn("sunshine config removed", zap.String("path", ev.Path))
			}
		}
	}
}

func (h *Host) logExits() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.supervisor.Events():
			h.logger.Debug("session ended",
				zap.String("session", ev.SessionID),
				zap.Int("code", ev.Code),
				zap.Int("pid", ev.PID),
			)
		}
	}
}

// persist mirrors a supervisor snapshot into agent.yaml.
func (h *Host) persist(snap supervisor.Snapshot) {
	h.infoMu.Lock()
	defer h.infoMu.Unlock()

	h.info.Child = childInfo(snap)
	if err := config.SaveAgentInfo(h.info); err != nil {
		h.logger.Warn("failed to write agent info", zap.Error(err))
	}
}

func childInfo(snap supervisor.Snapshot) models.ChildInfo {
	child := models.ChildInfo{
		State:      string(snap.State),
		SessionID:  snap.SessionID,
		PID:        snap.PID,
		BinaryPath: snap.BinaryPath,
		LogPath:    snap.LogPath,
		ExitCode:   snap.ExitCode,
	}
	if snap.Err != nil {
		child.LastError = snap.Err.Error()
	}
	if !snap.StartedAt.IsZero() {
		t := snap.StartedAt
		child.StartedAt = &t
	}
	if !snap.ExitedAt.IsZero() {
		t := snap.ExitedAt
		child.ExitedAt = &t
	}
	return child
}
