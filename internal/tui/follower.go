package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Follower is the bubbletea model that tails the sunshine log.
type Follower struct {
	path     string
	plain    bool
	offset   int64
	content  strings.Builder
	viewport viewport.Model
	follow   bool
	width    int
	height   int
	state    string
	pid      int
	err      error
	ready    bool
}

// NewFollower creates a follower for path.
func NewFollower(path string, opts Options) *Follower {
	return &Follower{
		path:     path,
		plain:    opts.Plain,
		viewport: viewport.New(80, 20),
		follow:   true,
	}
}

// Init starts the first read and the poll timer.
func (f *Follower) Init() tea.Cmd {
	return tea.Batch(readCmd(f.path, 0), stateCmd(), tickCmd())
}

// Update handles messages.
func (f *Follower) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		f.viewport.Width = msg.Width
		f.viewport.Height = max(msg.Height-2, 1)
		f.ready = true
		if f.follow {
			f.viewport.GotoBottom()
		}
		return f, nil

	case tickMsg:
		return f, tea.Batch(readCmd(f.path, f.offset), stateCmd(), tickCmd())

	case chunkMsg:
		f.applyChunk(msg)
		return f, nil

	case stateMsg:
		f.state = msg.state
		f.pid = msg.pid
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, followerKeys.Quit):
			return f, tea.Quit
		case key.Matches(msg, followerKeys.Follow):
			f.follow = !f.follow
			if f.follow {
				f.viewport.GotoBottom()
			}
			return f, nil
		case key.Matches(msg, followerKeys.Top):
			f.follow = false
			f.viewport.GotoTop()
			return f, nil
		case key.Matches(msg, followerKeys.Bottom):
			f.follow = true
			f.viewport.GotoBottom()
			return f, nil
		case key.Matches(msg, followerKeys.Up):
			f.follow = false
		}
	}

	var cmd tea.Cmd
	f.viewport, cmd = f.viewport.Update(msg)
	return f, cmd
}

func (f *Follower) applyChunk(msg chunkMsg) {
	f.err = msg.err
	if msg.err != nil {
		return
	}
	if msg.truncated {
		f.content.Reset()
	}
	if len(msg.data) == 0 && !msg.truncated {
		return
	}
	text := string(msg.data)
	if f.plain {
		text = ansi.Strip(text)
	}
	f.content.WriteString(text)
	f.offset = msg.next
	f.viewport.SetContent(f.content.String())
	if f.follow {
		f.viewport.GotoBottom()
	}
}

// Content returns the text collected so far.
func (f *Follower) Content() string {
	return f.content.String()
}

// View renders the follower.
func (f *Follower) View() string {
	if !f.ready {
		return "\n  Loading..."
	}
	return f.renderHeader() + "\n" + f.viewport.View() + "\n" + f.renderStatusBar()
}

func (f *Follower) renderHeader() string {
	left := headerStyle.Render("sunshine") + " " + pathStyle.Render(f.path)
	right := renderState(f.state, f.pid)
	gap := f.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (f *Follower) renderStatusBar() string {
	left := " " + keyHint("q", "quit") + "  " + keyHint("f", "follow") + "  " + keyHint("g/G", "top/bottom")

	var right string
	switch {
	case f.err != nil:
		right = stateFailedStyle.Render(f.err.Error())
	case f.follow:
		right = stateRunningStyle.Render("following")
	default:
		right = fmt.Sprintf("%3.f%%", f.viewport.ScrollPercent()*100)
	}
	right += " "

	gap := f.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(f.width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderState(state string, pid int) string {
	switch state {
	case "":
		return stateStoppedStyle.Render("agent not running")
	case "running":
		return stateRunningStyle.Render(fmt.Sprintf("● running (pid %d)", pid))
	case "launch_failed":
		return stateFailedStyle.Render("✗ launch failed")
	case "launching", "terminating":
		return stateBusyStyle.Render("◌ " + state)
	default:
		return stateStoppedStyle.Render("○ " + state)
	}
}

func keyHint(k, desc string) string {
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}
