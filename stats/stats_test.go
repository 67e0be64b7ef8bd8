// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package stats

import (
	"testing"
	"time"
)

func TestFormatDurationZero(t *testing.T) {
	if got := FormatDuration(0); got != "0ms" {
		t.Errorf("FormatDuration(0) = %q, want 0ms", got)
	}
}

func TestFormatDurationMillisecondsOnly(t *testing.T) {
	if got := FormatDuration(400 * time.Millisecond); got != "400ms" {
		t.Errorf("got %q, want 400ms", got)
	}
}

func TestFormatDurationSecondsOnly(t *testing.T) {
	if got := FormatDuration(5 * time.Second); got != "5s" {
		t.Errorf("got %q, want 5s", got)
	}
}

func TestFormatDurationSecondsWithTenths(t *testing.T) {
	if got := FormatDuration(1250 * time.Millisecond); got != "1.2s" {
		t.Errorf("got %q, want 1.2s", got)
	}
	if got := FormatDuration(2345 * time.Millisecond); got != "2.3s" {
		t.Errorf("got %q, want 2.3s", got)
	}
}

func TestFormatDurationMinutesOnly(t *testing.T) {
	if got := FormatDuration(12 * time.Minute); got != "12m" {
		t.Errorf("got %q, want 12m", got)
	}
}

func TestFormatDurationMinutesAndSeconds(t *testing.T) {
	d := 3*time.Minute + 12*time.Second
	if got := FormatDuration(d); got != "3m12s" {
		t.Errorf("got %q, want 3m12s", got)
	}
}

func TestStatsStringContainsAllFields(t *testing.T) {
	s := Stats{
		UsedModel:           "moonshotai/kimi-k2",
		Provider:            "baseten",
		CostInCents:         0.1234,
		ElapsedTime:         3 * time.Second,
		TimeToFirstToken:    400 * time.Millisecond,
		InterTokenLatencyMs: 42,
	}
	got := s.String()
	want := "moonshotai/kimi-k2 at baseten. 0.1234 cents. 3s (400ms TTFT, 42ms ITL)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
