// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package cli

import (
	"strings"
	"testing"

	"github.com/grahamking/ort/openrouter"
)

func TestParseArgsSimplePrompt(t *testing.T) {
	cmd, err := parseArgs([]string{"hello", "world"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.Opts.Prompt != "hello world" {
		t.Errorf("Prompt = %q", cmd.Opts.Prompt)
	}
}

func TestParseArgsMissingPromptErrors(t *testing.T) {
	_, err := parseArgs([]string{"-q"}, strings.NewReader(""), false)
	if err == nil {
		t.Fatal("expected error for missing prompt")
	}
}

func TestParseArgsModelAndSystemFlags(t *testing.T) {
	cmd, err := parseArgs([]string{"-m", "openai/gpt-5", "-s", "be terse", "hi"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.Opts.Model != "openai/gpt-5" || cmd.Opts.System != "be terse" {
		t.Errorf("got %+v", cmd.Opts)
	}
}

func TestParseArgsPriorityFlag(t *testing.T) {
	cmd, err := parseArgs([]string{"-p", "price", "hi"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.Opts.Priority == nil || *cmd.Opts.Priority != openrouter.PriorityPrice {
		t.Fatalf("Priority = %v", cmd.Opts.Priority)
	}
}

func TestParseArgsInvalidPriorityErrors(t *testing.T) {
	_, err := parseArgs([]string{"-p", "bogus", "hi"}, strings.NewReader(""), false)
	if err == nil {
		t.Fatal("expected error for invalid -p value")
	}
}

func TestParseArgsReasoningEffortNames(t *testing.T) {
	cmd, err := parseArgs([]string{"-r", "high", "hi"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.Opts.Reasoning == nil || !cmd.Opts.Reasoning.Enabled || cmd.Opts.Reasoning.Effort == nil {
		t.Fatalf("got %+v", cmd.Opts.Reasoning)
	}
	if *cmd.Opts.Reasoning.Effort != openrouter.ReasoningHigh {
		t.Errorf("Effort = %v", *cmd.Opts.Reasoning.Effort)
	}
}

func TestParseArgsReasoningNumericTokens(t *testing.T) {
	cmd, err := parseArgs([]string{"-r", "2048", "hi"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.Opts.Reasoning == nil || cmd.Opts.Reasoning.Tokens == nil || *cmd.Opts.Reasoning.Tokens != 2048 {
		t.Fatalf("got %+v", cmd.Opts.Reasoning)
	}
}

func TestParseArgsReasoningInvalidErrors(t *testing.T) {
	_, err := parseArgs([]string{"-r", "bogus", "hi"}, strings.NewReader(""), false)
	if err == nil {
		t.Fatal("expected error for invalid -r value")
	}
}

func TestParseArgsProviderIsSlugified(t *testing.T) {
	cmd, err := parseArgs([]string{"-pr", "Google AI Studio", "hi"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if cmd.Opts.Provider != "google-ai-studio" {
		t.Errorf("Provider = %q", cmd.Opts.Provider)
	}
}

func TestParseArgsContinueFlag(t *testing.T) {
	cmd, err := parseArgs([]string{"-c", "more please"}, strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !cmd.ContinueConversion {
		t.Error("expected ContinueConversion = true")
	}
}

func TestParseArgsUnknownFlagErrors(t *testing.T) {
	_, err := parseArgs([]string{"-z"}, strings.NewReader(""), false)
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestParseArgsAppendsPipedStdin(t *testing.T) {
	cmd, err := parseArgs([]string{"explain this:"}, strings.NewReader("some piped text"), true)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !strings.Contains(cmd.Opts.Prompt, "explain this:") || !strings.Contains(cmd.Opts.Prompt, "some piped text") {
		t.Errorf("Prompt = %q", cmd.Opts.Prompt)
	}
}

func TestParseArgsPipedStdinAloneIsEnough(t *testing.T) {
	cmd, err := parseArgs(nil, strings.NewReader("piped only"), true)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !strings.Contains(cmd.Opts.Prompt, "piped only") {
		t.Errorf("Prompt = %q", cmd.Opts.Prompt)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Google AI Studio": "google-ai-studio",
		"openai/gpt-5":      "openai-gpt-5",
		"":                  "",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
