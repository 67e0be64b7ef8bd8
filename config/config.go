// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Package config loads ort's on-disk JSON config file, and resolves the
// XDG config/cache directories it and the conversation package live
// under. Grounded on original_source/src/common/config.rs and
// cli/src/output/from_json.rs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grahamking/ort/openrouter"
)

const (
	defaultSaveToFile = true
	configFilename    = "ort.json"
)

// Settings controls ort's own behavior, as opposed to PromptOpts, which
// controls the request sent to OpenRouter.
type Settings struct {
	// SaveToFile persists each conversation to the cache dir, enabling -c.
	SaveToFile bool `json:"save_to_file"`
	// Dns are known IP addresses for openrouter.ai, skipping resolution.
	Dns []string `json:"dns"`
}

func defaultSettings() Settings {
	return Settings{SaveToFile: defaultSaveToFile}
}

// ApiKey is one named API key in the config file. ort expects exactly
// one, the first, and ignores the rest.
type ApiKey struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// promptOptsWire is the on-disk shape of the prompt_opts block, distinct
// from openrouter.PromptOpts because the wire format uses plain strings
// and omits the Prompt field entirely.
type promptOptsWire struct {
	Model         string               `json:"model,omitempty"`
	Provider      string               `json:"provider,omitempty"`
	System        string               `json:"system,omitempty"`
	Priority      *string              `json:"priority,omitempty"`
	Reasoning     *reasoningWireConfig `json:"reasoning,omitempty"`
	ShowReasoning bool                 `json:"show_reasoning,omitempty"`
	Quiet         bool                 `json:"quiet,omitempty"`
}

type reasoningWireConfig struct {
	Enabled bool    `json:"enabled"`
	Effort  *string `json:"effort,omitempty"`
	Tokens  *uint32 `json:"tokens,omitempty"`
}

func (w *promptOptsWire) toPromptOpts() (openrouter.PromptOpts, error) {
	opts := openrouter.PromptOpts{
		Model:         w.Model,
		Provider:      w.Provider,
		System:        w.System,
		ShowReasoning: w.ShowReasoning,
		Quiet:         w.Quiet,
	}
	if w.Priority != nil {
		p, ok := openrouter.ParsePriority(*w.Priority)
		if !ok {
			return opts, fmt.Errorf("config: unknown priority %q", *w.Priority)
		}
		opts.Priority = &p
	}
	if w.Reasoning != nil {
		rc := openrouter.ReasoningConfig{Enabled: w.Reasoning.Enabled}
		if w.Reasoning.Effort != nil {
			switch *w.Reasoning.Effort {
			case "low":
				e := openrouter.ReasoningLow
				rc.Effort = &e
			case "high":
				e := openrouter.ReasoningHigh
				rc.Effort = &e
			default:
				e := openrouter.ReasoningMedium
				rc.Effort = &e
			}
		}
		rc.Tokens = w.Reasoning.Tokens
		opts.Reasoning = &rc
	}
	return opts, nil
}

// ConfigFile is the fully parsed ort.json: an optional Settings block, the
// list of API keys (in practice only the first is used), and an optional
// default PromptOpts overlay.
type ConfigFile struct {
	Settings   Settings
	Keys       []ApiKey
	PromptOpts *openrouter.PromptOpts
}

type configFileWire struct {
	Settings   *Settings       `json:"settings,omitempty"`
	Keys       []ApiKey        `json:"keys,omitempty"`
	PromptOpts *promptOptsWire `json:"prompt_opts,omitempty"`
}

// GetAPIKey returns the first configured API key, mirroring
// ConfigFile::get_api_key in config.rs.
func (c *ConfigFile) GetAPIKey() (string, bool) {
	if len(c.Keys) == 0 {
		return "", false
	}
	return c.Keys[0].Value, true
}

// Load reads filename (an ort.json path) and parses it. A missing file is
// not an error: it returns a ConfigFile with default Settings and no
// keys, matching load_config's "NOT FOUND" branch.
func Load(filename string) (*ConfigFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return &ConfigFile{Settings: defaultSettings()}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", filename, err)
	}

	var wire configFileWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", filename, err)
	}

	cfg := &ConfigFile{Settings: defaultSettings(), Keys: wire.Keys}
	if wire.Settings != nil {
		cfg.Settings = *wire.Settings
	}
	if wire.PromptOpts != nil {
		opts, err := wire.PromptOpts.toPromptOpts()
		if err != nil {
			return nil, err
		}
		cfg.PromptOpts = &opts
	}
	return cfg, nil
}

// LoadDefault loads ort.json from ConfigDir().
func LoadDefault() (*ConfigFile, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, configFilename))
}

// ConfigDir returns $XDG_CONFIG_HOME if set, else $HOME/.config, creating
// the latter if it doesn't exist yet. Mirrors config.rs's xdg_dir(
// "XDG_CONFIG_HOME", ".config").
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns $XDG_CACHE_HOME/ort if set, else $HOME/.cache/ort,
// creating any missing directory. Mirrors config.rs's cache_dir.
func CacheDir() (string, error) {
	base, err := xdgDir("XDG_CACHE_HOME", ".cache")
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "ort")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: creating cache dir: %w", err)
	}
	return dir, nil
}

func xdgDir(envVar, fallbackSuffix string) (string, error) {
	if dir := os.Getenv(envVar); dir != "" {
		return dir, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("config: could not get home dir, is $HOME set?")
	}
	dir := filepath.Join(home, fallbackSuffix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: creating %s: %w", dir, err)
	}
	return dir, nil
}
