package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change agent settings",
	Long: `Show the settings in ~/.sunshinebar/settings.yaml.

Use "settings set <key> <value>" to change one. Changes apply the next time
the agent starts ("sunshinebar restart").`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. Keys:

  admin-url       Sunshine admin page opened by "Settings..."
  candidates      comma-separated binary paths, last existing wins (empty = defaults)
  config-path     config file handed to sunshine (~ is expanded)
  log-path        file sunshine's output is written to
  notifications   yes/no: notifications instead of alert dialogs
  restart-delay   seconds before a restarted agent launches (1-3)
  watch-config    yes/no: alert when the config file changes`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

// settingSetters apply one string value to the settings.
var settingSetters = map[string]func(s *models.Settings, value string) error{
	"admin-url": func(s *models.Settings, value string) error {
		s.Sunshine.AdminURL = value
		return nil
	},
	"candidates": func(s *models.Settings, value string) error {
		s.Binary.Candidates = nil
		for _, c := range strings.Split(value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				s.Binary.Candidates = append(s.Binary.Candidates, c)
			}
		}
		return nil
	},
	"config-path": func(s *models.Settings, value string) error {
		s.Sunshine.ConfigPath = value
		return nil
	},
	"log-path": func(s *models.Settings, value string) error {
		s.Sunshine.LogPath = value
		return nil
	},
	"notifications": func(s *models.Settings, value string) error {
		b, err := parseYesNo(value)
		s.Notifications.Enabled = b
		return err
	},
	"restart-delay": func(s *models.Settings, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 3 {
			return fmt.Errorf("invalid restart delay %q (expected 1, 2 or 3)", value)
		}
		s.Restart.DelaySeconds = n
		return nil
	},
	"watch-config": func(s *models.Settings, value string) error {
		b, err := parseYesNo(value)
		s.Watch.ConfigFile = b
		return err
	},
}

func applySetting(s *models.Settings, key, value string) error {
	set, ok := settingSetters[key]
	if !ok {
		keys := make([]string, 0, len(settingSetters))
		for k := range settingSetters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(keys, ", "))
	}
	return set(s, value)
}

func parseYesNo(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "on", "1":
		return true, nil
	case "n", "no", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (expected yes or no)", value)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	fmt.Print(formatSettings(settings))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := applySetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println(styleSuccess.Render("Settings updated."))
	if _, err := runningAgent(); err == nil {
		fmt.Println(styleHint.Render("  Apply with ") + styleCommand.Render("sunshinebar restart"))
	}
	return nil
}

func formatSettings(s *models.Settings) string {
	configPath, err := config.ResolveSunshineConfig(s)
	if err != nil {
		configPath = styleError.Render(err.Error())
	}

	out := styleBrand.Render("Settings") + "\n"
	out += row("Binaries", strings.Join(s.BinaryCandidates(), ", "))
	out += row("Config", configPath)
	out += row("Log", config.ResolveSunshineLog(s))
	out += row("Admin URL", config.ResolveAdminURL(s))
	out += row("Restart", fmt.Sprintf("%ds delay", s.RelaunchDelaySeconds()))
	out += row("Notify", yesNo(s.Notifications.Enabled))
	out += row("Watch", yesNo(s.Watch.ConfigFile))
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
