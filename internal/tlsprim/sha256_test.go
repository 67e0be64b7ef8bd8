// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestSha256Vectors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", []byte(""), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Sha256Sum(c.in)
			want, err := hex.DecodeString(c.want)
			if err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			if !strings.EqualFold(hex.EncodeToString(got[:]), hex.EncodeToString(want)) {
				t.Errorf("Sha256Sum(%q) = %x, want %x", c.in, got, want)
			}
		})
	}
}

func TestSha256MillionA(t *testing.T) {
	h := NewSha256()
	block := strings.Repeat("a", 1000)
	for i := 0; i < 1000; i++ {
		_, _ = h.Write([]byte(block))
	}
	got := h.Finalize()
	want, _ := hex.DecodeString("cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0")
	if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
		t.Errorf("million-a hash = %x, want %x", got, want)
	}
}

func TestSha256Incremental(t *testing.T) {
	whole := Sha256Sum([]byte("hello world"))

	h := NewSha256()
	_, _ = h.Write([]byte("hello"))
	_, _ = h.Write([]byte(" world"))
	piecewise := h.Finalize()

	if whole != piecewise {
		t.Errorf("incremental write mismatch: %x vs %x", whole, piecewise)
	}
}
