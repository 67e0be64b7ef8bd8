// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package conversation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grahamking/ort/openrouter"
)

func TestTmuxPaneIDDefaultsToZero(t *testing.T) {
	t.Setenv("TMUX_PANE", "")
	if got := TmuxPaneID(); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestTmuxPaneIDParsesPercentPrefix(t *testing.T) {
	t.Setenv("TMUX_PANE", "%4")
	if got := TmuxPaneID(); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestTmuxPaneIDUnparseableDefaultsToZero(t *testing.T) {
	t.Setenv("TMUX_PANE", "%not-a-number")
	if got := TmuxPaneID(); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("TMUX_PANE", "%7")
	dir := t.TempDir()

	priority := openrouter.PriorityPrice
	data := LastData{
		Opts: openrouter.PromptOpts{
			Model:    "openai/gpt-5",
			Provider: "openai",
			Priority: &priority,
		},
		Messages: []openrouter.Message{
			openrouter.NewUserMessage("hello"),
			openrouter.NewAssistantMessage("hi there"),
		},
	}

	if err := Save(dir, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(dir, "last-7.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Opts.Model != "openai/gpt-5" {
		t.Errorf("Model = %q", got.Opts.Model)
	}
	if got.Opts.Priority == nil || *got.Opts.Priority != openrouter.PriorityPrice {
		t.Errorf("Priority = %v", got.Opts.Priority)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hi there" {
		t.Fatalf("got messages %+v", got.Messages)
	}
}

func TestLoadFallsBackToMostRecentWhenPaneFileMissing(t *testing.T) {
	t.Setenv("TMUX_PANE", "%99")
	dir := t.TempDir()

	older := LastData{Messages: []openrouter.Message{openrouter.NewUserMessage("older")}}
	t.Setenv("TMUX_PANE", "%1")
	if err := Save(dir, older); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	newer := LastData{Messages: []openrouter.Message{openrouter.NewUserMessage("newer")}}
	t.Setenv("TMUX_PANE", "%2")
	if err := Save(dir, newer); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TMUX_PANE", "%99")
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "newer" {
		t.Fatalf("expected fallback to most recent file, got %+v", got.Messages)
	}
}

func TestLoadMissingDirectoryErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
