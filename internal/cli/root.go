// Package cli implements the sunshinebar commands.
package cli

import (
	"github.com/spf13/cobra"
)

var debugLogging bool

var rootCmd = &cobra.Command{
	Use:   "sunshinebar",
	Short: "Status bar agent for the Sunshine streaming host",
	Long: `sunshinebar runs Sunshine in the background, writes its output to a log
file, and shows whether it is running in the status bar.

Without a subcommand it runs the agent, like "sunshinebar run".`,
	SilenceUsage: true,
	RunE:         runAgent,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&runForeground, "foreground", false, "Run without the status bar item")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(versionCmd)
}
