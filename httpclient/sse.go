// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package httpclient

import (
	"bufio"
	"io"
	"strings"
)

// sseDonePrefix is the payload OpenRouter sends on the final event before
// closing the stream.
const sseDonePrefix = "[DONE]"

// SSEReader pulls successive "data: ..." payloads out of a Server-Sent
// Events body, skipping heartbeat comment lines (starting with ':') and
// blank lines, matching the loop in
// original_source/cli/src/input/prompt.rs's start_prompt_thread.
type SSEReader struct {
	sc *bufio.Scanner
}

// NewSSEReader wraps body, which should already be dechunked by
// BodyReader if the response was chunked.
func NewSSEReader(body io.Reader) *SSEReader {
	return &SSEReader{sc: bufio.NewScanner(body)}
}

// Next returns the next data payload. done is true once the [DONE]
// sentinel is seen or the stream ends cleanly; err is non-nil only on a
// genuine read failure.
func (s *SSEReader) Next() (data string, done bool, err error) {
	for s.sc.Scan() {
		line := strings.TrimRight(s.sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if payload == sseDonePrefix {
			return "", true, nil
		}
		return payload, false, nil
	}
	if err := s.sc.Err(); err != nil {
		return "", false, err
	}
	return "", true, nil
}
