package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sunshinebar/sunshinebar/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(formatVersion())
	},
}

func formatVersion() string {
	out := fmt.Sprintf("  %s %s %s\n",
		styleBrand.Render("sunshinebar"),
		styleVersion.Render(buildinfo.Version),
		styleHint.Render("("+buildinfo.Codename+")"),
	)
	out += fmt.Sprintf("    %s  %s\n", styleLabel.Render("Commit"), styleValue.Render(buildinfo.CommitHash))
	out += fmt.Sprintf("    %s   %s\n", styleLabel.Render("Built"), styleValue.Render(buildinfo.BuildDate))
	out += fmt.Sprintf("    %s %s\n", styleLabel.Render("OS/Arch"), styleValue.Render(runtime.GOOS+"/"+runtime.GOARCH))
	out += fmt.Sprintf("    %s      %s\n", styleLabel.Render("Go"), styleValue.Render(runtime.Version()))
	return out
}
