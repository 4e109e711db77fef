package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sunshinebar/sunshinebar/internal/models"
)

// LoadSettings loads the global settings from ~/.sunshinebar/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.sunshinebar/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// ResolveSunshineConfig returns the absolute config file path handed to the
// child. A configured path may start with ~ or be relative to the working
// directory.
func ResolveSunshineConfig(settings *models.Settings) (string, error) {
	if settings.Sunshine.ConfigPath == "" {
		return SunshineConfigFile()
	}
	path, err := expandHome(settings.Sunshine.ConfigPath)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", settings.Sunshine.ConfigPath, err)
	}
	return abs, nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ResolveSunshineLog returns the path the child's output is written to.
func ResolveSunshineLog(settings *models.Settings) string {
	if settings.Sunshine.LogPath != "" {
		return settings.Sunshine.LogPath
	}
	return DefaultSunshineLogFile()
}

// ResolveAdminURL returns the Sunshine admin URL.
func ResolveAdminURL(settings *models.Settings) string {
	if settings.Sunshine.AdminURL != "" {
		return settings.Sunshine.AdminURL
	}
	return models.DefaultAdminURL
}
