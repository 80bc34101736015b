package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultBaseURL is where the original json-server backend listens
	DefaultBaseURL = "http://localhost:5000"

	// EnvBaseURL overrides the active profile's base URL
	EnvBaseURL = "BLOGDESK_BASE_URL"
	// EnvProfile selects the active profile
	EnvProfile = "BLOGDESK_PROFILE"

	localConfigFile = ".blogdesk.yaml"
)

var (
	// ConfigDir is the global configuration directory (~/.blogdesk)
	ConfigDir string

	// ConfigFile is the global settings file
	ConfigFile string

	// DatabasePath is the SQLite database file for the activity log
	DatabasePath string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// LogFile receives TUI logs (stdout belongs to the terminal UI)
	LogFile string
)

// TLSConfig mirrors the client TLS options a profile can set
type TLSConfig struct {
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
	CAFile             string `yaml:"ca_file,omitempty"`
	CertFile           string `yaml:"cert_file,omitempty"`
	KeyFile            string `yaml:"key_file,omitempty"`
}

// Profile is a named posts backend
type Profile struct {
	Name    string            `yaml:"name"`
	BaseURL string            `yaml:"base_url"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout time.Duration     `yaml:"timeout,omitempty"` // zero means no client timeout
	TLS     *TLSConfig        `yaml:"tls,omitempty"`
	Output  string            `yaml:"output,omitempty"` // json, yaml, text
}

// Settings is the content of config.yaml
type Settings struct {
	ActiveProfile  string    `yaml:"active_profile"`
	MessageTimeout int       `yaml:"message_timeout,omitempty"` // seconds, 0 keeps messages
	Profiles       []Profile `yaml:"profiles"`

	path string
}

// DefaultSettings returns the settings written on first run
func DefaultSettings() *Settings {
	return &Settings{
		ActiveProfile: "default",
		Profiles: []Profile{
			{Name: "default", BaseURL: DefaultBaseURL, Output: "text"},
		},
	}
}

// Initialize sets up the configuration directory and files
// It creates ~/.blogdesk/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".blogdesk")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	DatabasePath = filepath.Join(ConfigDir, "blogdesk.db")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogFile = filepath.Join(ConfigDir, "debug.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		defaults := DefaultSettings()
		defaults.path = ConfigFile
		if err := defaults.Save(); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

// GetConfigFilePath returns the settings file path (local or global)
func GetConfigFilePath() string {
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}
	return ConfigFile
}

// LoadSettings reads settings from the local or global config file.
// A missing file yields the defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetConfigFilePath())
}

// LoadSettingsFrom reads settings from path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s := DefaultSettings()
			s.path = path
			return s, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if len(s.Profiles) == 0 {
		s.Profiles = DefaultSettings().Profiles
	}
	for i := range s.Profiles {
		if s.Profiles[i].Headers == nil {
			s.Profiles[i].Headers = make(map[string]string)
		}
	}
	s.path = path
	return &s, nil
}

// Save writes settings back to the file they were loaded from
func (s *Settings) Save() error {
	if s.path == "" {
		s.path = ConfigFile
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Profile resolves a profile by name.
// An empty name falls back to $BLOGDESK_PROFILE, then to the active profile.
func (s *Settings) Profile(name string) (*Profile, error) {
	if name == "" {
		name = os.Getenv(EnvProfile)
	}
	if name == "" {
		name = s.ActiveProfile
	}
	if name == "" && len(s.Profiles) > 0 {
		return &s.Profiles[0], nil
	}
	for i := range s.Profiles {
		if s.Profiles[i].Name == name {
			return &s.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile %q not found", name)
}

// ResolveBaseURL picks the backend URL: explicit override, then $BLOGDESK_BASE_URL,
// then the profile, then the default. Trailing slashes are removed.
func ResolveBaseURL(profile *Profile, override string) string {
	url := override
	if url == "" {
		url = os.Getenv(EnvBaseURL)
	}
	if url == "" && profile != nil {
		url = profile.BaseURL
	}
	if url == "" {
		url = DefaultBaseURL
	}
	return strings.TrimRight(url, "/")
}

// LoadEnvFile loads KEY=value pairs into the process environment.
// Variables already set are not overridden.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
