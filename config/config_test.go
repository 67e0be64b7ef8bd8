// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Settings.SaveToFile {
		t.Error("expected default SaveToFile = true")
	}
	if len(cfg.Keys) != 0 {
		t.Errorf("expected no keys, got %v", cfg.Keys)
	}
}

func TestLoadFullConfigFile(t *testing.T) {
	raw := `{
    "keys": [{"name": "openrouter", "value": "sk-or-v1-abcd1234"}],
    "settings": {
        "save_to_file": true,
        "dns": ["104.18.2.115", "104.18.3.115"]
    },
    "prompt_opts": {
        "model": "google/gemma-3n-e4b-it:free",
        "system": "Make your answer concise but complete.",
        "quiet": false,
        "show_reasoning": false,
        "reasoning": {
            "enabled": false
        }
    }
}`
	path := filepath.Join(t.TempDir(), "ort.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Keys) != 1 || cfg.Keys[0].Value != "sk-or-v1-abcd1234" {
		t.Fatalf("got keys %+v", cfg.Keys)
	}
	if len(cfg.Settings.Dns) != 2 {
		t.Fatalf("got dns %v", cfg.Settings.Dns)
	}
	if cfg.PromptOpts == nil || cfg.PromptOpts.Model != "google/gemma-3n-e4b-it:free" {
		t.Fatalf("got prompt opts %+v", cfg.PromptOpts)
	}
	if cfg.PromptOpts.Reasoning == nil || cfg.PromptOpts.Reasoning.Enabled {
		t.Fatalf("expected reasoning disabled, got %+v", cfg.PromptOpts.Reasoning)
	}

	key, ok := cfg.GetAPIKey()
	if !ok || key != "sk-or-v1-abcd1234" {
		t.Fatalf("GetAPIKey() = %q, %v", key, ok)
	}
}

func TestConfigDirHonorsXdgEnvVar(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want %q", got, dir)
	}
}

func TestCacheDirCreatesOrtSubdir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	got, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir: %v", err)
	}
	want := filepath.Join(dir, "ort")
	if got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Errorf("CacheDir() did not create %q", got)
	}
}
