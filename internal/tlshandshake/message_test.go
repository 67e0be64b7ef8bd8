// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import (
	"bytes"
	"testing"
)

func TestWrapAndParseMessageHeaderRoundTrip(t *testing.T) {
	body := bytes.Repeat([]byte{0x42}, 300)
	framed := WrapMessage(TypeFinished, body)

	msgType, length, err := ParseMessageHeader(framed)
	if err != nil {
		t.Fatalf("ParseMessageHeader: %v", err)
	}
	if msgType != TypeFinished {
		t.Errorf("msgType = %d, want %d", msgType, TypeFinished)
	}
	if length != len(body) {
		t.Errorf("length = %d, want %d", length, len(body))
	}
	if !bytes.Equal(framed[HeaderSize:], body) {
		t.Error("framed body does not match original")
	}
}

func TestParseMessageHeaderTooShort(t *testing.T) {
	if _, _, err := ParseMessageHeader([]byte{1, 2}); err != ErrMessageTooShort {
		t.Errorf("err = %v, want ErrMessageTooShort", err)
	}
}

func TestParseMessageHeaderTooLong(t *testing.T) {
	header := []byte{byte(TypeCertificate), 0xFF, 0xFF, 0xFF}
	if _, _, err := ParseMessageHeader(header); err != ErrMessageTooLong {
		t.Errorf("err = %v, want ErrMessageTooLong", err)
	}
}
