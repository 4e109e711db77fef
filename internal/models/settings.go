package models

// DefaultBinaryCandidates are the known install locations of the sunshine
// binary, checked in order. A later existing entry overrides an earlier one.
var DefaultBinaryCandidates = []string{
	"/usr/local/bin/sunshine",    // Intel Homebrew
	"/opt/homebrew/bin/sunshine", // Apple Silicon Homebrew
}

// DefaultAdminURL is the Sunshine web admin endpoint.
const DefaultAdminURL = "https://localhost:47990/"

// BinaryConfig holds settings for locating the supervised binary.
type BinaryConfig struct {
	Candidates []string `yaml:"candidates"` // empty = DefaultBinaryCandidates
}

// SunshineConfig holds paths and URLs handed to or derived from Sunshine.
type SunshineConfig struct {
	ConfigPath string `yaml:"config_path"` // empty = ~/.config/sunshine/sunshine.conf
	LogPath    string `yaml:"log_path"`    // empty = platform default
	AdminURL   string `yaml:"admin_url"`
}

// RestartConfig holds settings for the relaunch action.
type RestartConfig struct {
	DelaySeconds int `yaml:"delay_seconds"`
}

// NotificationsConfig holds the alert delivery preference.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"` // false = fall back to alert dialogs
}

// WatchConfig toggles file watching.
type WatchConfig struct {
	ConfigFile bool `yaml:"config_file"`
}

// LaunchOptions is the snapshot of Sunshine launch preferences. It is read
// once at start and passed around by value; the supervisor only logs it.
type LaunchOptions struct {
	UseConnect     bool   `yaml:"use_connect"`
	SetListen      bool   `yaml:"set_listen"`
	SetPrivateKey  bool   `yaml:"set_private_key"`
	DisableMDNS    bool   `yaml:"disable_mdns"`
	SetPSK         bool   `yaml:"set_psk"`
	ConnectIP      string `yaml:"connect_ip"`
	ConnectPort    string `yaml:"connect_port"`
	ConnectPeerID  string `yaml:"connect_peer_id"`
	ListenIP       string `yaml:"listen_ip"`
	ListenPort     string `yaml:"listen_port"`
	PrivateKeyPath string `yaml:"private_key_path"`
}

// Settings represents global agent settings.
// This corresponds to ~/.sunshinebar/settings.yaml.
type Settings struct {
	Version       int                 `yaml:"version"`
	Binary        BinaryConfig        `yaml:"binary"`
	Sunshine      SunshineConfig      `yaml:"sunshine"`
	Restart       RestartConfig       `yaml:"restart"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Watch         WatchConfig         `yaml:"watch"`
	Launch        LaunchOptions       `yaml:"launch"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Sunshine: SunshineConfig{
			AdminURL: DefaultAdminURL,
		},
		Restart: RestartConfig{
			DelaySeconds: 2,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			ConfigFile: true,
		},
	}
}

// BinaryCandidates returns the effective candidate list.
func (s *Settings) BinaryCandidates() []string {
	if len(s.Binary.Candidates) > 0 {
		return s.Binary.Candidates
	}
	return DefaultBinaryCandidates
}

// RelaunchDelaySeconds returns the relaunch delay clamped to 1..3 seconds.
func (s *Settings) RelaunchDelaySeconds() int {
	d := s.Restart.DelaySeconds
	if d < 1 {
		return 1
	}
	if d > 3 {
		return 3
	}
	return d
}
