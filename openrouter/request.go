// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package openrouter

import "encoding/json"

// usageConfig always requests the usage accounting block, mirroring
// to_json.rs's fixed `"usage": {"include": true}`.
type usageConfig struct {
	Include bool `json:"include"`
}

type providerConfig struct {
	Sort  string   `json:"sort,omitempty"`
	Order []string `json:"order,omitempty"`
}

type reasoningWire struct {
	Enabled   bool   `json:"enabled"`
	Exclude   *bool  `json:"exclude,omitempty"`
	Effort    string `json:"effort,omitempty"`
	MaxTokens uint32 `json:"max_tokens,omitempty"`
}

// chatRequest is the wire shape of a POST to /api/v1/chat/completions,
// grounded field-for-field on original_source/src/input/to_json.rs's
// build_body.
type chatRequest struct {
	Stream    bool            `json:"stream"`
	Usage     usageConfig     `json:"usage"`
	Model     string          `json:"model"`
	Provider  *providerConfig `json:"provider,omitempty"`
	Reasoning reasoningWire   `json:"reasoning"`
	Messages  []Message       `json:"messages"`
}

// BuildRequestBody serializes opts and messages into the JSON body the
// chat completions endpoint expects. The system prompt, if any, must
// already be the first entry in messages.
func BuildRequestBody(opts PromptOpts, messages []Message) ([]byte, error) {
	req := chatRequest{
		Stream:   true,
		Usage:    usageConfig{Include: true},
		Model:    opts.Model,
		Messages: messages,
	}

	if opts.Priority != nil || opts.Provider != "" {
		pc := &providerConfig{}
		if opts.Priority != nil {
			pc.Sort = opts.Priority.String()
		}
		if opts.Provider != "" {
			pc.Order = []string{opts.Provider}
		}
		req.Provider = pc
	}

	if opts.Reasoning == nil || !opts.Reasoning.Enabled {
		req.Reasoning = reasoningWire{Enabled: false}
	} else {
		exclude := false
		rw := reasoningWire{Enabled: true, Exclude: &exclude}
		switch {
		case opts.Reasoning.Effort != nil:
			rw.Effort = opts.Reasoning.Effort.String()
		case opts.Reasoning.Tokens != nil:
			rw.MaxTokens = *opts.Reasoning.Tokens
		}
		req.Reasoning = rw
	}

	return json.Marshal(req)
}
