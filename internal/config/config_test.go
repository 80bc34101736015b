package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInitialize_CreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	if ConfigDir != filepath.Join(home, ".blogdesk") {
		t.Errorf("ConfigDir = %s", ConfigDir)
	}
	if _, err := os.Stat(ConfigFile); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	s, err := LoadSettingsFrom(ConfigFile)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() error: %v", err)
	}
	p, err := s.Profile("")
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if p.BaseURL != DefaultBaseURL {
		t.Errorf("default BaseURL = %s, want %s", p.BaseURL, DefaultBaseURL)
	}
}

func TestLoadSettingsFrom_ParsesProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `active_profile: staging
message_timeout: 5
profiles:
  - name: default
    base_url: http://localhost:5000
  - name: staging
    base_url: https://blog.example.com/
    timeout: 10s
    headers:
      X-Team: blog
    tls:
      insecure_skip_verify: true
`
	if err := os.WriteFile(path, []byte(content), FilePermissions); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettingsFrom(path)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() error: %v", err)
	}
	if s.MessageTimeout != 5 {
		t.Errorf("MessageTimeout = %d, want 5", s.MessageTimeout)
	}

	p, err := s.Profile("")
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}
	if p.Name != "staging" {
		t.Errorf("active profile = %s, want staging", p.Name)
	}
	if p.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", p.Timeout)
	}
	if p.Headers["X-Team"] != "blog" {
		t.Errorf("headers not parsed: %v", p.Headers)
	}
	if p.TLS == nil || !p.TLS.InsecureSkipVerify {
		t.Errorf("tls not parsed: %+v", p.TLS)
	}

	if _, err := s.Profile("missing"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoadSettingsFrom_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettingsFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Profiles) != 1 || s.Profiles[0].Name != "default" {
		t.Errorf("unexpected defaults: %+v", s.Profiles)
	}
}

func TestProfile_EnvSelection(t *testing.T) {
	s := &Settings{
		ActiveProfile: "a",
		Profiles:      []Profile{{Name: "a"}, {Name: "b"}},
	}
	t.Setenv(EnvProfile, "b")

	p, err := s.Profile("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "b" {
		t.Errorf("env profile not honoured, got %s", p.Name)
	}

	p, _ = s.Profile("a")
	if p.Name != "a" {
		t.Errorf("explicit name should win, got %s", p.Name)
	}
}

func TestResolveBaseURL(t *testing.T) {
	profile := &Profile{BaseURL: "http://profile:5000/"}

	t.Setenv(EnvBaseURL, "")
	if got := ResolveBaseURL(profile, ""); got != "http://profile:5000" {
		t.Errorf("profile url = %s", got)
	}
	if got := ResolveBaseURL(profile, "http://flag:1"); got != "http://flag:1" {
		t.Errorf("override url = %s", got)
	}

	t.Setenv(EnvBaseURL, "http://env:2")
	if got := ResolveBaseURL(profile, ""); got != "http://env:2" {
		t.Errorf("env url = %s", got)
	}
	if got := ResolveBaseURL(nil, "http://flag:1"); got != "http://flag:1" {
		t.Errorf("override should beat env, got %s", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BLOGDESK_TEST_VAR=from-file\n"), FilePermissions); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLOGDESK_TEST_VAR", "")
	os.Unsetenv("BLOGDESK_TEST_VAR")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error: %v", err)
	}
	if got := os.Getenv("BLOGDESK_TEST_VAR"); got != "from-file" {
		t.Errorf("BLOGDESK_TEST_VAR = %q", got)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path should be a no-op, got %v", err)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing env file")
	}
}
