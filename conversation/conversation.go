// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Package conversation saves and reloads the most recent prompt/response
// exchange, so the `-c` flag can continue it. One file per tmux pane, so
// separate panes don't clobber each other's history. Grounded on
// original_source/src/common/utils.rs (tmux_pane_id, last_filename) and
// cli/src/output/writer.rs (LastWriter).
package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grahamking/ort/openrouter"
)

// LastData is everything needed to resume a conversation: the options
// that produced it, and the full message history including the
// assistant's reply.
type LastData struct {
	Opts     openrouter.PromptOpts
	Messages []openrouter.Message
}

type lastDataWire struct {
	Opts     promptOptsWire        `json:"opts"`
	Messages []openrouter.Message `json:"messages"`
}

type promptOptsWire struct {
	Model         string  `json:"model,omitempty"`
	Provider      string  `json:"provider,omitempty"`
	System        string  `json:"system,omitempty"`
	Priority      *string `json:"priority,omitempty"`
	Reasoning     *string `json:"reasoning,omitempty"`
	ShowReasoning bool    `json:"show_reasoning,omitempty"`
	Quiet         bool    `json:"quiet,omitempty"`
}

// TmuxPaneID parses the TMUX_PANE environment variable (shape "%N") and
// returns N, or 0 if unset or unparseable. Mirrors utils.rs's
// tmux_pane_id, which treats any failure the same way.
func TmuxPaneID() int {
	v := os.Getenv("TMUX_PANE")
	if v == "" {
		return 0
	}
	v = strings.TrimPrefix(v, "%")
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return id
}

// LastFilename returns "last-<tmux pane id>.json", matching utils.rs's
// last_filename.
func LastFilename() string {
	return fmt.Sprintf("last-%d.json", TmuxPaneID())
}

// Save writes data as JSON to "<dir>/last-<pane>.json".
func Save(dir string, data LastData) error {
	wire := lastDataWire{
		Opts:     toWire(data.Opts),
		Messages: data.Messages,
	}
	out, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("conversation: marshaling: %w", err)
	}
	path := filepath.Join(dir, LastFilename())
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("conversation: writing %s: %w", path, err)
	}
	return nil
}

// Load reads "<dir>/last-<pane>.json" and parses it, falling back to the
// most recently modified "last-*.json" file in dir if the pane-specific
// file doesn't exist — mirrors prompt.rs's run_continue/most_recent.
func Load(dir string) (*LastData, error) {
	path := filepath.Join(dir, LastFilename())
	if _, err := os.Stat(path); err != nil {
		found, err := mostRecent(dir, "last-")
		if err != nil {
			return nil, err
		}
		path = found
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("conversation: reading %s: %w", path, err)
	}

	var wire lastDataWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("conversation: parsing %s: %w", path, err)
	}

	return &LastData{
		Opts:     fromWire(wire.Opts),
		Messages: wire.Messages,
	}, nil
}

func toWire(opts openrouter.PromptOpts) promptOptsWire {
	w := promptOptsWire{
		Model:         opts.Model,
		Provider:      opts.Provider,
		System:        opts.System,
		ShowReasoning: opts.ShowReasoning,
		Quiet:         opts.Quiet,
	}
	if opts.Priority != nil {
		s := opts.Priority.String()
		w.Priority = &s
	}
	if opts.Reasoning != nil && opts.Reasoning.Enabled && opts.Reasoning.Effort != nil {
		s := opts.Reasoning.Effort.String()
		w.Reasoning = &s
	}
	return w
}

func fromWire(w promptOptsWire) openrouter.PromptOpts {
	opts := openrouter.PromptOpts{
		Model:         w.Model,
		Provider:      w.Provider,
		System:        w.System,
		ShowReasoning: w.ShowReasoning,
		Quiet:         w.Quiet,
	}
	if w.Priority != nil {
		if p, ok := openrouter.ParsePriority(*w.Priority); ok {
			opts.Priority = &p
		}
	}
	return opts
}

// mostRecent returns the path to the file in dir whose name starts with
// prefix and has the newest modification time.
func mostRecent(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("conversation: reading %s: %w", dir, err)
	}

	var bestPath string
	var bestModTime int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if modTime := info.ModTime().UnixNano(); bestPath == "" || modTime > bestModTime {
			bestPath = filepath.Join(dir, entry.Name())
			bestModTime = modTime
		}
	}
	if bestPath == "" {
		return "", fmt.Errorf("conversation: no files found starting with prefix %q", prefix)
	}
	return bestPath, nil
}
