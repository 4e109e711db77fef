package supervisor

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunshinebar/sunshinebar/internal/models"
)

// Alert messages shown to the user.
const (
	msgNotFound    = "Cannot locate sunshine binary."
	msgSpawnFailed = "Unable to start sunshine"
	titleStopped   = "Sunshine Stopped"
)

// BinaryLocator resolves the path of the binary to run.
type BinaryLocator interface {
	Locate() (string, error)
}

// Alerter shows messages to the user. After SetQuitting it must drop them.
type Alerter interface {
	Notify(message, title string)
	SetQuitting()
}

// Presenter reflects the run state in the status bar.
type Presenter interface {
	SetRunning(running bool)
}

// Options configures a Supervisor.
type Options struct {
	Locator    BinaryLocator
	ConfigPath string
	LogPath    string
	Launch     models.LaunchOptions
	Alerts     Alerter
	Presenter  Presenter
	Logger     *zap.Logger

	// OnChange is called with a fresh snapshot after every state transition.
	OnChange func(Snapshot)
}

// instance is one supervision session.
type instance struct {
	id      string
	proc    *Process
	sink    *LogSink
	settled chan struct{} // closed after the exit transition is applied
}

// Supervisor runs at most one sunshine child at a time.
type Supervisor struct {
	locator    BinaryLocator
	configPath string
	logPath    string
	launch     models.LaunchOptions
	alerts     Alerter
	presenter  Presenter
	logger     *zap.Logger
	onChange   func(Snapshot)
	events     chan ExitEvent

	// opMu serializes Start and Terminate; mu guards the fields below it so
	// QueryStatus never waits on a launch or a shutdown.
	opMu sync.Mutex

	mu         sync.RWMutex
	state      State
	current    *instance
	sessionID  string
	pid        int
	binaryPath string
	exitCode   *int
	lastErr    error
	startedAt  time.Time
	exitedAt   time.Time

	quitting atomic.Bool
}

// New creates an idle supervisor.
func New(opts Options) *Supervisor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		locator:    opts.Locator,
		configPath: opts.ConfigPath,
		logPath:    opts.LogPath,
		launch:     opts.Launch,
		alerts:     opts.Alerts,
		presenter:  opts.Presenter,
		logger:     logger,
		onChange:   opts.OnChange,
		events:     make(chan ExitEvent, 8),
		state:      StateIdle,
	}
}

// Start locates the binary, truncates the log, and spawns the child with the
// config path as its only argument. It returns ErrAlreadyStarted while a
// child is launching, running, or terminating.
func (s *Supervisor) Start() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.quitting.Load() {
		return ErrQuitting
	}

	s.mu.Lock()
	switch s.state {
	case StateLaunching, StateRunning, StateTerminating:
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateLaunching
	s.lastErr = nil
	s.mu.Unlock()
	s.publish()

	path, err := s.locator.Locate()
	if err != nil {
		s.launchFailed(err, msgNotFound)
		return err
	}

	s.logger.Info("starting sunshine",
		zap.String("binary", path),
		zap.String("config", s.configPath),
		zap.String("log", s.logPath),
		zap.Any("launch", s.launch),
	)

	var output io.Writer = io.Discard
	sink, err := OpenLogSink(s.logPath)
	if err != nil {
		s.logger.Warn("log file unavailable, discarding child output", zap.Error(err))
		sink = nil
	} else {
		output = sink
	}

	proc, err := StartProcess(ProcessOptions{
		Path:   path,
		Args:   []string{s.configPath},
		Output: output,
		Logger: s.logger,
	})
	if err != nil {
		if sink != nil {
			_ = sink.Close()
		}
		spawnErr := &SpawnError{Path: path, Err: err}
		s.launchFailed(spawnErr, msgSpawnFailed)
		return spawnErr
	}

	inst := &instance{
		id:      uuid.NewString(),
		proc:    proc,
		sink:    sink,
		settled: make(chan struct{}),
	}

	s.mu.Lock()
	s.state = StateRunning
	s.current = inst
	s.sessionID = inst.id
	s.pid = proc.PID()
	s.binaryPath = path
	s.exitCode = nil
	s.startedAt = proc.StartedAt()
	s.exitedAt = time.Time{}
	s.mu.Unlock()

	s.logger.Info("sunshine started", zap.Int("pid", proc.PID()), zap.String("session", inst.id))

	if s.presenter != nil {
		s.presenter.SetRunning(true)
	}
	s.publish()

	go s.monitor(inst)
	return nil
}

func (s *Supervisor) launchFailed(err error, message string) {
	s.mu.Lock()
	s.state = StateLaunchFailed
	s.lastErr = err
	s.mu.Unlock()

	s.logger.Error("failed to launch sunshine", zap.Error(err))

	if s.presenter != nil {
		s.presenter.SetRunning(false)
	}
	s.alert(message, "")
	s.publish()
}

// monitor waits for one child's exit and applies the Running -> Exited
// transition.
func (s *Supervisor) monitor(inst *instance) {
	ev := inst.proc.Exit()
	ev.SessionID = inst.id
	defer close(inst.settled)

	if inst.sink != nil {
		if err := inst.sink.Close(); err != nil {
			s.logger.Warn("failed to close log file", zap.Error(err))
		}
	}

	code := ev.Code
	s.mu.Lock()
	if s.current != inst {
		s.mu.Unlock()
		return
	}
	s.state = StateExited
	s.current = nil
	s.exitCode = &code
	s.exitedAt = ev.At
	if code != 0 {
		s.lastErr = &ExitError{Code: code}
	}
	s.mu.Unlock()

	s.logger.Info("sunshine exited",
		zap.Int("pid", ev.PID),
		zap.Int("code", code),
		zap.String("session", inst.id),
		zap.Bool("quitting", s.quitting.Load()),
	)

	if s.presenter != nil {
		s.presenter.SetRunning(false)
	}
	if code != 0 {
		s.alert(fmt.Sprintf("sunshine process failed with status %d.", code), titleStopped)
	}
	s.publish()

	select {
	case s.events <- ev:
	default:
		s.logger.Debug("exit event dropped, no reader", zap.String("session", inst.id))
	}
}

// Events delivers one ExitEvent per child. Events are dropped when the
// buffer is full.
func (s *Supervisor) Events() <-chan ExitEvent {
	return s.events
}

// Terminate marks the agent as quitting, sends SIGTERM to a running child,
// and blocks until its exit has been processed. It is a no-op unless the
// child is running. It must not be called from an OnChange or Presenter
// callback.
func (s *Supervisor) Terminate() {
	s.quitting.Store(true)
	if s.alerts != nil {
		s.alerts.SetQuitting()
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != StateRunning || s.current == nil {
		s.mu.Unlock()
		return
	}
	inst := s.current
	s.state = StateTerminating
	s.mu.Unlock()
	s.publish()

	s.logger.Info("terminating sunshine", zap.Int("pid", inst.proc.PID()))
	if err := inst.proc.Terminate(); err != nil {
		s.logger.Warn("failed to signal sunshine", zap.Error(err))
	}

	<-inst.settled
}

// Shutdown runs Terminate on its own goroutine. The returned channel is
// closed once the child is gone.
func (s *Supervisor) Shutdown() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Terminate()
	}()
	return done
}

// QueryStatus reports whether the child is alive. It never blocks on a
// launch or a shutdown in progress.
func (s *Supervisor) QueryStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return statusOf(s.state)
}

// Quitting reports whether Terminate has been requested.
func (s *Supervisor) Quitting() bool {
	return s.quitting.Load()
}

// Snapshot returns a copy of the current state.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:      s.state,
		SessionID:  s.sessionID,
		PID:        s.pid,
		BinaryPath: s.binaryPath,
		LogPath:    s.logPath,
		Err:        s.lastErr,
		StartedAt:  s.startedAt,
		ExitedAt:   s.exitedAt,
	}
	if s.exitCode != nil {
		code := *s.exitCode
		snap.ExitCode = &code
	}
	return snap
}

func (s *Supervisor) alert(message, title string) {
	if s.alerts == nil || s.quitting.Load() {
		return
	}
	s.alerts.Notify(message, title)
}

func (s *Supervisor) publish() {
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}

// IsNotFound reports whether err came from a failed binary lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBinaryNotFound)
}
