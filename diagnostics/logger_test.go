// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package diagnostics

import "testing"

func TestNewBuildsQuietLogger(t *testing.T) {
	l, err := New(Config{Verbose: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Sync()
	if l.Logger == nil {
		t.Fatal("expected non-nil zap.Logger")
	}
}

func TestNewBuildsVerboseLogger(t *testing.T) {
	l, err := New(Config{Verbose: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer l.Sync()
	l.WithRequest(NewRequestID(), "openai/gpt-5").Debug("test")
}

func TestNewRequestIDIsUnique(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	if a == b {
		t.Errorf("expected distinct request IDs, got %q twice", a)
	}
}
