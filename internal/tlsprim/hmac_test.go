// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestHmacSha256RFC4231Case1(t *testing.T) {
	key := bytes.Repeat([]byte{0x0b}, 20)
	data := []byte("Hi There")
	want, _ := hex.DecodeString("b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7")

	got := HmacSha256(key, data)
	if !bytes.Equal(got[:], want) {
		t.Errorf("HmacSha256 = %x, want %x", got, want)
	}
}
