package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/tui"
)

var (
	logsFollow bool
	logsPlain  bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the Sunshine log",
	Long: `Print the log of the current Sunshine session.

With -f on a terminal, opens a live view that follows new output. Output is
written without ANSI escape sequences when --plain is set or stdout is not a
terminal.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow new output")
	logsCmd.Flags().BoolVar(&logsPlain, "plain", false, "Strip ANSI escape sequences")
}

func runLogs(cmd *cobra.Command, args []string) error {
	path, err := sunshineLogPath()
	if err != nil {
		return err
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	plain := logsPlain || !tty

	if logsFollow && tty {
		return tui.FollowLog(path, tui.Options{Plain: logsPlain})
	}

	out := cmd.OutOrStdout()
	offset, err := tailLog(out, path, 0, plain)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no log at %s yet", path)
		}
		return err
	}
	if !logsFollow {
		return nil
	}

	for {
		time.Sleep(followInterval)
		offset, err = tailLog(out, path, offset, plain)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
}

const followInterval = 500 * time.Millisecond

// tailLog writes everything in path after offset to w and returns the new
// offset. A log truncated by a new session is written again from the start.
// A missing file resets the offset so a recreated log is read in full.
func tailLog(w io.Writer, path string, offset int64, plain bool) (int64, error) {
	for {
		data, next, _, err := tui.ReadFrom(path, offset)
		if err != nil {
			if os.IsNotExist(err) {
				return 0, err
			}
			return offset, err
		}
		if len(data) == 0 {
			return next, nil
		}
		if err := writeLog(w, data, plain); err != nil {
			return offset, err
		}
		offset = next
	}
}

// sunshineLogPath prefers the path the running agent reported, then the
// configured one.
func sunshineLogPath() (string, error) {
	if info, err := config.LoadAgentInfo(); err == nil && info != nil && info.Child.LogPath != "" {
		return info.Child.LogPath, nil
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	return config.ResolveSunshineLog(settings), nil
}

func writeLog(w io.Writer, data []byte, plain bool) error {
	if plain {
		_, err := io.WriteString(w, ansi.Strip(string(data)))
		return err
	}
	_, err := w.Write(data)
	return err
}
