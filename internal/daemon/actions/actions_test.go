package actions

import (
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
)

type starter struct {
	mu   sync.Mutex
	cmds [][]string
	err  error
}

func (s *starter) start(cmd *exec.Cmd) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, cmd.Args)
	return s.err
}

func newTestManager(opts Options, goos string) (*Manager, *starter) {
	m := New(opts)
	s := &starter{}
	m.start = s.start
	m.goos = goos
	return m, s
}

func TestShowLogs(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open /tmp/sunshine.log -a " + ConsoleApp},
		{"linux", "xdg-open /tmp/sunshine.log"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			m, s := newTestManager(Options{LogPath: "/tmp/sunshine.log"}, tt.goos)
			if err := m.ShowLogs(); err != nil {
				t.Fatalf("ShowLogs: %v", err)
			}
			if got := strings.Join(s.cmds[0], " "); got != tt.want {
				t.Errorf("argv = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenSettings(t *testing.T) {
	m, s := newTestManager(Options{AdminURL: "https://localhost:47990/"}, "darwin")
	if err := m.OpenSettings(); err != nil {
		t.Fatalf("OpenSettings: %v", err)
	}
	if got := strings.Join(s.cmds[0], " "); got != "open https://localhost:47990/" {
		t.Errorf("argv = %q", got)
	}
}

func TestActionErrorIsReturned(t *testing.T) {
	m, s := newTestManager(Options{LogPath: "/tmp/x.log"}, "linux")
	s.err = errors.New("no opener")
	if err := m.ShowLogs(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRelaunchScript(t *testing.T) {
	tests := []struct {
		name string
		exe  string
		args []string
		want string
	}{
		{
			name: "plain binary",
			exe:  "/usr/local/bin/sunshinebar",
			args: []string{"run"},
			want: "sleep 2; exec '/usr/local/bin/sunshinebar' 'run'",
		},
		{
			name: "app bundle",
			exe:  "/Applications/Sunshine Bar.app/Contents/MacOS/sunshinebar",
			want: "sleep 2; open '/Applications/Sunshine Bar.app'",
		},
		{
			name: "quotes are escaped",
			exe:  "/opt/it's/sunshinebar",
			args: []string{},
			want: `sleep 2; exec '/opt/it'\''s/sunshinebar'`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(Options{Executable: tt.exe, Args: tt.args, RelaunchDelay: 2})
			if got := m.relaunchScript(); got != tt.want {
				t.Errorf("relaunchScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRestartReturnsBeforeQuit(t *testing.T) {
	release := make(chan struct{})
	quitDone := make(chan struct{})
	m, s := newTestManager(Options{
		Executable:    "/usr/local/bin/sunshinebar",
		Args:          []string{},
		RelaunchDelay: 2,
		Quit: func() {
			<-release
			close(quitDone)
		},
	}, "linux")

	returned := make(chan error, 1)
	go func() { returned <- m.Restart() }()

	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("Restart: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Restart blocked on quit")
	}

	if len(s.cmds) != 1 || s.cmds[0][0] != "/bin/sh" {
		t.Fatalf("relauncher argv = %v", s.cmds)
	}

	close(release)
	select {
	case <-quitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("quit was never requested")
	}
}

func TestRestartKeepsRunningWhenRelauncherFails(t *testing.T) {
	quit := make(chan struct{}, 1)
	m, s := newTestManager(Options{
		Executable: "/usr/local/bin/sunshinebar",
		Quit:       func() { quit <- struct{}{} },
	}, "linux")
	s.err = errors.New("fork failed")

	if err := m.Restart(); err == nil {
		t.Fatal("expected an error")
	}
	select {
	case <-quit:
		t.Fatal("quit requested despite relauncher failure")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTerminateWithError(t *testing.T) {
	var order []string
	m := New(Options{Terminate: func() { order = append(order, "terminate") }})
	m.exit = func(code int) {
		order = append(order, "exit")
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
	}

	m.TerminateWithError()

	if strings.Join(order, ",") != "terminate,exit" {
		t.Fatalf("order = %v", order)
	}
}
