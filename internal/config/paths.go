// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// GlobalDirName is the name of the global agent directory.
	GlobalDirName = ".sunshinebar"

	// LogsDirName is the name of the agent's own logs directory.
	LogsDirName = "logs"

	// SunshineAppName names the supervised application; it determines the
	// location of its configuration file.
	SunshineAppName = "sunshine"

	// BundleID prefixes the default Sunshine log file name.
	BundleID = "dev.bitxeno.sunshine"
)

// File names
const (
	AgentFileName    = "agent.yaml"
	SettingsFileName = "settings.yaml"
	AgentLogFileName = "agent.log"
)

// GlobalDir returns the path to the global agent directory (~/.sunshinebar/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalAgentFile returns the path to the agent.yaml file.
func GlobalAgentFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AgentFileName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// GlobalLogsDir returns the path to the agent's logs directory.
func GlobalLogsDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// AgentLogFile returns the path of the agent's own diagnostic log.
func AgentLogFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AgentLogFileName), nil
}

// SunshineConfigFile returns <home>/.config/sunshine/sunshine.conf.
func SunshineConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", SunshineAppName, SunshineAppName+".conf"), nil
}

// DefaultSunshineLogFile returns the fixed path the child's output goes to.
func DefaultSunshineLogFile() string {
	name := BundleID + ".log"
	if runtime.GOOS == "darwin" {
		return filepath.Join("/private/tmp", name)
	}
	return filepath.Join(os.TempDir(), name)
}

// EnsureGlobalDir creates the global agent directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// EnsureGlobalLogsDir creates the agent logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
