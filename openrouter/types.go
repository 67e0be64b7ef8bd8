// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Package openrouter shapes chat-completion requests and parses the
// streamed response OpenRouter sends back over Server-Sent Events.
// Grounded on original_source/src/data.rs and input/to_json.rs.
package openrouter

import (
	"encoding/json"
	"fmt"
	"strings"
)

const DefaultModel = "google/gemma-3n-e4b-it:free"

// Role is the speaker of one Message.
type Role int

const (
	RoleSystem Role = iota
	RoleUser
	RoleAssistant
)

func (r Role) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role, ok := ParseRole(s)
	if !ok {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = role
	return nil
}

func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "system":
		return RoleSystem, true
	case "user":
		return RoleUser, true
	case "assistant":
		return RoleAssistant, true
	default:
		return 0, false
	}
}

// Message is one turn in the conversation sent to, or received from, the
// chat completions endpoint.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func NewSystemMessage(content string) Message    { return Message{RoleSystem, content} }
func NewUserMessage(content string) Message      { return Message{RoleUser, content} }
func NewAssistantMessage(content string) Message { return Message{RoleAssistant, content} }

// Priority selects how OpenRouter should rank candidate providers.
type Priority int

const (
	PriorityLatency Priority = iota // default
	PriorityPrice
	PriorityThroughput
)

func (p Priority) String() string {
	switch p {
	case PriorityPrice:
		return "price"
	case PriorityThroughput:
		return "throughput"
	default:
		return "latency"
	}
}

func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(s) {
	case "price":
		return PriorityPrice, true
	case "latency":
		return PriorityLatency, true
	case "throughput":
		return PriorityThroughput, true
	default:
		return 0, false
	}
}

// ReasoningEffort is OpenRouter's coarse knob on how much a reasoning model
// should think before answering.
type ReasoningEffort int

const (
	ReasoningMedium ReasoningEffort = iota // default
	ReasoningLow
	ReasoningHigh
)

func (e ReasoningEffort) String() string {
	switch e {
	case ReasoningLow:
		return "low"
	case ReasoningHigh:
		return "high"
	default:
		return "medium"
	}
}

// ReasoningConfig mirrors original_source's ReasoningConfig: either off, or
// on with an effort level, or on with a hard max-token budget. Effort and
// Tokens are mutually exclusive; Effort takes priority when both are set,
// matching to_json.rs's match arm ordering ((Some(effort), _) first).
type ReasoningConfig struct {
	Enabled bool
	Effort  *ReasoningEffort
	Tokens  *uint32
}

func ReasoningOff() ReasoningConfig { return ReasoningConfig{Enabled: false} }

// PromptOpts is the fully-resolved set of options for one prompt request,
// after config-file and CLI-flag merging. Grounded on data.rs's PromptOpts.
type PromptOpts struct {
	Prompt        string
	Model         string
	Provider      string
	System        string
	Priority      *Priority
	Reasoning     *ReasoningConfig
	ShowReasoning bool
	Quiet         bool
	MergeConfig   bool
}

// Merge fills any zero-valued field of o from other, then from hard
// defaults — mirrors PromptOpts::merge in data.rs's get_or_insert chain.
func (o *PromptOpts) Merge(other PromptOpts) {
	if o.Model == "" {
		o.Model = other.Model
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Provider == "" {
		o.Provider = other.Provider
	}
	if o.System == "" {
		o.System = other.System
	}
	if o.Priority == nil {
		o.Priority = other.Priority
	}
	if o.Reasoning == nil {
		if other.Reasoning != nil {
			o.Reasoning = other.Reasoning
		} else {
			r := ReasoningOff()
			o.Reasoning = &r
		}
	}
	if !o.ShowReasoning {
		o.ShowReasoning = other.ShowReasoning
	}
	if !o.Quiet {
		o.Quiet = other.Quiet
	}
}
