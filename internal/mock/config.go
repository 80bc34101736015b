package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiowebux/blogdesk/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = 5000
	DefaultHost = "localhost"
)

// DefaultConfig returns a config with a few sample posts
func DefaultConfig() *Config {
	avatar := "https://i.pravatar.cc/150?img=3"
	return &Config{
		Port:    DefaultPort,
		Host:    DefaultHost,
		Posts: []SeedPost{
			{Title: "Welcome to blogdesk", Author: "Admin", Date: "2024-01-01", Content: "This post comes from the sample seed.\nEdit or delete it freely."},
			{Title: "Writing in the terminal", Author: "Ada", Avatar: &avatar, Date: "2024-03-01", Content: "Press n to write a new post."},
			{Title: "Same date, older id", Author: "Lin", Date: "2024-03-01", Content: "Equal dates keep their server order."},
		},
	}
}

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// validateConfig validates the mock configuration
func validateConfig(config *Config) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}

	for i, post := range config.Posts {
		if strings.TrimSpace(post.Title) == "" {
			return fmt.Errorf("post %d: title is required", i)
		}
		if post.Date != "" {
			if _, ok := types.ParseDate(post.Date); !ok {
				return fmt.Errorf("post %d: date %q is not YYYY-MM-DD", i, post.Date)
			}
		}
	}

	return nil
}

// SaveConfig saves a mock configuration to a file
func SaveConfig(config *Config, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Drafts converts the seed posts. A missing date becomes today.
func (c *Config) Drafts(now time.Time) []types.Draft {
	drafts := make([]types.Draft, 0, len(c.Posts))
	for _, p := range c.Posts {
		avatar := ""
		if p.Avatar != nil {
			avatar = *p.Avatar
		}
		d := types.NewDraft(p.Title, p.Author, avatar, p.Content, now)
		if p.Date != "" {
			d.Date = p.Date
		}
		drafts = append(drafts, d)
	}
	return drafts
}
