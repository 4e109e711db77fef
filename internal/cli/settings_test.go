package cli

import (
	"strings"
	"testing"

	"github.com/sunshinebar/sunshinebar/internal/config"
	"github.com/sunshinebar/sunshinebar/internal/models"
)

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(s *models.Settings) bool
		wantErr    bool
	}{
		{"notifications", "no", func(s *models.Settings) bool { return !s.Notifications.Enabled }, false},
		{"watch-config", "off", func(s *models.Settings) bool { return !s.Watch.ConfigFile }, false},
		{"restart-delay", "3", func(s *models.Settings) bool { return s.Restart.DelaySeconds == 3 }, false},
		{"restart-delay", "9", nil, true},
		{"notifications", "maybe", nil, true},
		{"config-path", "~/sun.conf", func(s *models.Settings) bool { return s.Sunshine.ConfigPath == "~/sun.conf" }, false},
		{"candidates", " /a/sunshine, ,/b/sunshine", func(s *models.Settings) bool {
			return strings.Join(s.Binary.Candidates, "|") == "/a/sunshine|/b/sunshine"
		}, false},
		{"candidates", "", func(s *models.Settings) bool { return len(s.Binary.Candidates) == 0 }, false},
		{"colour", "red", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := models.NewSettings()
			s.Binary.Candidates = []string{"/old"}
			err := applySetting(s, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applySetting(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(s) {
				t.Errorf("applySetting(%q, %q) left %+v", tt.key, tt.value, s)
			}
		})
	}
}

func TestSettingsSetPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runSettingsSet(settingsSetCmd, []string{"notifications", "no"}); err != nil {
		t.Fatalf("set notifications: %v", err)
	}
	if err := runSettingsSet(settingsSetCmd, []string{"restart-delay", "1"}); err != nil {
		t.Fatalf("set restart-delay: %v", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Notifications.Enabled {
		t.Error("notifications still enabled")
	}
	if settings.Restart.DelaySeconds != 1 {
		t.Errorf("DelaySeconds = %d, want 1", settings.Restart.DelaySeconds)
	}
	if !settings.Watch.ConfigFile {
		t.Error("untouched setting lost its default")
	}

	out := formatSettings(settings)
	if !strings.Contains(out, "1s delay") || !strings.Contains(out, models.DefaultAdminURL) {
		t.Errorf("formatSettings() = %q", out)
	}
}
