package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Config represents the user's keybinding configuration.
// Each section maps a key to an action name.
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Normal  map[string]string `json:"normal,omitempty"`
	Edit    map[string]string `json:"edit,omitempty"`
	Create  map[string]string `json:"create,omitempty"`
	Search  map[string]string `json:"search,omitempty"`
	Confirm map[string]string `json:"confirm,omitempty"`
	Notice  map[string]string `json:"notice,omitempty"`
	History map[string]string `json:"history,omitempty"`
	Help    map[string]string `json:"help,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal:  c.Global,
		ContextNormal:  c.Normal,
		ContextEdit:    c.Edit,
		ContextCreate:  c.Create,
		ContextSearch:  c.Search,
		ContextConfirm: c.Confirm,
		ContextNotice:  c.Notice,
		ContextHistory: c.History,
		ContextHelp:    c.Help,
	}
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings; "noop" unbinds a key.
func ApplyConfig(registry *Registry, config *Config) error {
	for context, bindings := range config.sections() {
		keys := make([]string, 0, len(bindings))
		for key := range bindings {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if err := ValidateKey(key); err != nil {
				return fmt.Errorf("%s: %w", context, err)
			}
			action := Action(bindings[key])
			if err := ValidateAction(string(action)); err != nil {
				return fmt.Errorf("%s: key %q: %w", context, key, err)
			}
			registry.Register(context, key, action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err != nil {
		return registry, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
	}

	if err := ApplyConfig(registry, config); err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return registry, nil
}

// ExportDefaults exports the default keybindings in config form
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	for context := range config.sections() {
		section := make(map[string]string)
		for key, action := range registry.bindings[context] {
			section[key] = string(action)
		}
		config.setSection(context, section)
	}

	return config
}

func (c *Config) setSection(context Context, section map[string]string) {
	switch context {
	case ContextGlobal:
		c.Global = section
	case ContextNormal:
		c.Normal = section
	case ContextEdit:
		c.Edit = section
	case ContextCreate:
		c.Create = section
	case ContextSearch:
		c.Search = section
	case ContextConfirm:
		c.Confirm = section
	case ContextNotice:
		c.Notice = section
	case ContextHistory:
		c.History = section
	case ContextHelp:
		c.Help = section
	}
}
