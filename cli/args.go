// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Package cli parses ort's command-line flags and assembles the resulting
// PromptOpts, including folding in anything piped on stdin. Grounded on
// original_source/src/action_prompt.rs's parse_args.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/grahamking/ort/openrouter"
)

// Cmd is the fully parsed command: what to prompt with, and whether to
// continue the previous conversation rather than start a new one.
type Cmd struct {
	Opts               openrouter.PromptOpts
	ContinueConversion bool
}

// ArgError is a user-facing argument parsing failure; its message is
// printed as-is, with no Go error wrapping noise.
type ArgError struct {
	msg string
}

func (e *ArgError) Error() string { return e.msg }

func argErr(msg string) error { return &ArgError{msg} }

// ParseArgs parses args (excluding the program name, i.e. os.Args[1:])
// into a Cmd, reading from stdin if it is piped rather than a terminal.
func ParseArgs(args []string) (*Cmd, error) {
	isPiped := false
	if info, err := os.Stdin.Stat(); err == nil {
		isPiped = info.Mode()&os.ModeCharDevice == 0
	}
	return parseArgs(args, os.Stdin, isPiped)
}

func parseArgs(args []string, stdin io.Reader, isPipedInput bool) (*Cmd, error) {
	var promptParts []string
	opts := openrouter.PromptOpts{MergeConfig: true}
	continueConversation := false

	i := 0
	for i < len(args) {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			return nil, argErr(usage)
		case arg == "-m":
			v, n, err := takeValue(args, i, "-m")
			if err != nil {
				return nil, err
			}
			opts.Model = v
			i = n
		case arg == "-s":
			v, n, err := takeValue(args, i, "-s")
			if err != nil {
				return nil, err
			}
			opts.System = v
			i = n
		case arg == "-p":
			v, n, err := takeValue(args, i, "-p")
			if err != nil {
				return nil, err
			}
			p, ok := openrouter.ParsePriority(v)
			if !ok {
				return nil, argErr("Invalid -p value: must be one of price|throughput|latency")
			}
			opts.Priority = &p
			i = n
		case arg == "-q":
			opts.Quiet = true
			i++
		case arg == "-r":
			v, n, err := takeValue(args, i, "-r")
			if err != nil {
				return nil, err
			}
			rc, err := parseReasoning(v)
			if err != nil {
				return nil, err
			}
			opts.Reasoning = rc
			i = n
		case arg == "-rr":
			opts.ShowReasoning = true
			i++
		case arg == "-pr":
			v, n, err := takeValue(args, i, "-pr")
			if err != nil {
				return nil, err
			}
			opts.Provider = slug(v)
			i = n
		case arg == "-c":
			continueConversation = true
			i++
		case arg == "-nc":
			opts.MergeConfig = false
			i++
		case strings.HasPrefix(arg, "-"):
			return nil, argErr(fmt.Sprintf("Unknown flag: %s", arg))
		default:
			promptParts = append(promptParts, args[i:]...)
			i = len(args)
		}
	}

	prompt := strings.Join(promptParts, " ")

	if isPipedInput {
		piped, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("cli: reading stdin: %w", err)
		}
		prompt += "\n\n" + string(piped)
	}

	if prompt == "" {
		return nil, argErr("Missing prompt.")
	}
	opts.Prompt = prompt

	return &Cmd{Opts: opts, ContinueConversion: continueConversation}, nil
}

func takeValue(args []string, i int, flag string) (string, int, error) {
	if i+1 >= len(args) {
		return "", 0, argErr(fmt.Sprintf("Missing value for %s", flag))
	}
	return args[i+1], i + 2, nil
}

func parseReasoning(v string) (*openrouter.ReasoningConfig, error) {
	switch v {
	case "off":
		return &openrouter.ReasoningConfig{Enabled: false}, nil
	case "low":
		e := openrouter.ReasoningLow
		return &openrouter.ReasoningConfig{Enabled: true, Effort: &e}, nil
	case "medium", "med":
		e := openrouter.ReasoningMedium
		return &openrouter.ReasoningConfig{Enabled: true, Effort: &e}, nil
	case "high":
		e := openrouter.ReasoningHigh
		return &openrouter.ReasoningConfig{Enabled: true, Effort: &e}, nil
	default:
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, argErr("Invalid -r value. Must be off|low|medium|high|<num-tokens>")
		}
		tokens := uint32(n)
		return &openrouter.ReasoningConfig{Enabled: true, Tokens: &tokens}, nil
	}
}

// slug lowercases s and replaces every non-alphanumeric rune with '-',
// matching utils.rs's slug.
func slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

const usage = `ort: prompt an LLM via OpenRouter

Usage: ort [flags] <prompt text>

Flags:
  -m <model>        model to use, e.g. openai/gpt-5
  -s <system>       system prompt
  -p <priority>     price|throughput|latency, how to rank providers
  -pr <provider>    pin to a specific provider
  -r <effort>       off|low|medium|high|<max-tokens>, reasoning effort
  -rr               show reasoning in output
  -q                quiet, suppress the trailing Stats line
  -c                continue the previous conversation
  -nc               don't merge in ort.json's prompt_opts
  -h, --help        this message

Anything piped on stdin is appended to the prompt.`
