// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package openrouter

import "encoding/json"

// DoneSentinel is the final SSE data payload OpenRouter sends before
// closing the stream.
const DoneSentinel = "[DONE]"

// chunk is the wire shape of one SSE data: line, OpenAI streaming format.
// Grounded field-for-field on original_source/src/output/from_json.rs's
// ChatCompletionsResponse/Choice/Usage parsing.
type chunk struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Choices  []chunkChoice `json:"choices"`
	Usage    *chunkUsage   `json:"usage"`
}

type chunkChoice struct {
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning"`
}

// chunkUsage only extracts cost; every other usage field is ignored, same
// as Usage::from_json in from_json.rs.
type chunkUsage struct {
	Cost float64 `json:"cost"`
}

// EventKind is the category of one decoded stream Event.
type EventKind int

const (
	EventThinkStart EventKind = iota
	EventThinkContent
	EventThinkStop
	EventContent
	EventUsage
)

// Event is one piece of a decoded streaming response: a chunk of visible
// text, a chunk of reasoning text, a think-block boundary, or the final
// usage report. A single data: line can produce zero or more Events
// (for example a think-stop immediately followed by content).
type Event struct {
	Kind EventKind
	Text string // EventThinkContent, EventContent

	Provider    string // EventUsage
	Model       string // EventUsage
	CostInCents float64
}

// Decoder accumulates the little bit of state needed to turn a sequence of
// raw chunk payloads into Events: whether the think block has been opened
// or closed yet. Grounded on the is_first_reasoning/is_first_content
// bookkeeping in original_source/cli/src/input/prompt.rs's
// start_prompt_thread.
type Decoder struct {
	isFirstReasoning bool
	isFirstContent   bool
}

// NewDecoder returns a Decoder ready to consume the first chunk of a new
// response stream.
func NewDecoder() *Decoder {
	return &Decoder{isFirstReasoning: true, isFirstContent: true}
}

// Decode parses one SSE data payload (already stripped of the "data: "
// prefix and the DoneSentinel check) and returns the Events it produces.
// A malformed payload is reported as an error but should not stop the
// stream; callers should ignore it and keep reading.
func (d *Decoder) Decode(data string) ([]Event, error) {
	var c chunk
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}

	if len(c.Choices) == 0 {
		if c.Usage != nil {
			return []Event{d.usageEvent(c)}, nil
		}
		return nil, nil
	}
	delta := c.Choices[len(c.Choices)-1].Delta

	var events []Event

	if delta.Reasoning != "" {
		if d.isFirstReasoning {
			if isBlank(delta.Reasoning) {
				// Don't open on leading whitespace, it messes up the display.
			} else {
				events = append(events, Event{Kind: EventThinkStart})
				d.isFirstReasoning = false
				events = append(events, Event{Kind: EventThinkContent, Text: delta.Reasoning})
			}
		} else {
			events = append(events, Event{Kind: EventThinkContent, Text: delta.Reasoning})
		}
	}

	if delta.Content != "" {
		if d.isFirstContent && isBlank(delta.Content) {
			// Don't start the visible reply on leading whitespace either.
		} else {
			if !d.isFirstReasoning && d.isFirstContent {
				events = append(events, Event{Kind: EventThinkStop})
			}
			d.isFirstContent = false
			events = append(events, Event{Kind: EventContent, Text: delta.Content})
		}
	}

	if c.Usage != nil {
		events = append(events, d.usageEvent(c))
	}

	return events, nil
}

func (d *Decoder) usageEvent(c chunk) Event {
	return Event{
		Kind:        EventUsage,
		Provider:    c.Provider,
		Model:       c.Model,
		CostInCents: c.Usage.Cost * 100.0,
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}
	return true
}
