package supervisor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// ProcessOptions contains options for starting the supervised child.
type ProcessOptions struct {
	Path   string
	Args   []string
	Output io.Writer // receives stdout and stderr through a single pipe
	Logger *zap.Logger
}

// ExitEvent describes how a child ended. It is produced once per child.
type ExitEvent struct {
	SessionID string // set by the Supervisor
	PID       int
	Code      int
	Err       error
	At        time.Time
}

// Process wraps one running child and its output pipe.
type Process struct {
	cmd       *exec.Cmd
	pipe      *os.File
	output    io.Writer
	logger    *zap.Logger
	pid       int
	startedAt time.Time
	done      chan struct{}
	exit      ExitEvent
}

// StartProcess spawns the child with stdout and stderr sharing one pipe and
// starts the reader loop that forwards every chunk to opts.Output.
func StartProcess(opts ProcessOptions) (*Process, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}

	cmd := exec.Command(opts.Path, opts.Args...)
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	// The child holds its own copy of the write end; ours must be closed or
	// the reader never sees EOF.
	w.Close()

	p := &Process{
		cmd:       cmd,
		pipe:      r,
		output:    output,
		logger:    logger,
		pid:       cmd.Process.Pid,
		startedAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		p.readLoop()
	}()
	go p.waitLoop(readDone)

	return p, nil
}

// drainTimeout bounds how long output is still read after the child has
// been reaped. A background process that inherited the pipe can hold it open
// indefinitely.
const drainTimeout = time.Second

// readLoop forwards every chunk from the pipe to the output until EOF or
// until the read deadline set by waitLoop expires.
func (p *Process) readLoop() {
	buf := make([]byte, 32*1024)
	writeFailed := false
	for {
		n, err := p.pipe.Read(buf)
		if n > 0 {
			if _, werr := p.output.Write(buf[:n]); werr != nil && !writeFailed {
				writeFailed = true
				p.logger.Warn("failed to write child output", zap.Int("pid", p.pid), zap.Error(werr))
			}
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
			case errors.Is(err, os.ErrDeadlineExceeded):
				p.logger.Debug("output pipe held open after exit, stopped reading", zap.Int("pid", p.pid))
			default:
				p.logger.Warn("child output pipe closed", zap.Int("pid", p.pid), zap.Error(err))
			}
			return
		}
	}
}

// waitLoop reaps the child independently of the pipe, then gives the reader
// drainTimeout to collect the remaining output. Done is closed only after
// both, so exit handling never races the final log bytes.
func (p *Process) waitLoop(readDone <-chan struct{}) {
	err := p.cmd.Wait()
	p.exit = ExitEvent{
		PID:  p.pid,
		Code: exitCode(err),
		Err:  err,
		At:   time.Now().UTC(),
	}

	select {
	case <-readDone:
	default:
		if derr := p.pipe.SetReadDeadline(time.Now().Add(drainTimeout)); derr != nil {
			p.logger.Warn("failed to set pipe deadline", zap.Int("pid", p.pid), zap.Error(derr))
			_ = p.pipe.Close()
		}
		<-readDone
	}
	_ = p.pipe.Close()
	close(p.done)
}

// exitCode maps a Wait error to the child's status. A child killed by a
// signal reports the signal number.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return -1
}

// PID returns the child's process id.
func (p *Process) PID() int {
	return p.pid
}

// StartedAt returns when the child was spawned.
func (p *Process) StartedAt() time.Time {
	return p.startedAt
}

// Done returns a channel that is closed once the output is drained and the
// child has been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exit returns the exit event. Only valid after Done is closed.
func (p *Process) Exit() ExitEvent {
	<-p.done
	return p.exit
}

// IsRunning returns true until the child has been reaped.
func (p *Process) IsRunning() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Terminate sends SIGTERM. It does not wait.
func (p *Process) Terminate() error {
	if err := p.cmd.Process.Signal(unix.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return fmt.Errorf("failed to signal pid %d: %w", p.pid, err)
	}
	return nil
}
