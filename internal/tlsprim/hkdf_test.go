// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestHkdfRFC5869Case1(t *testing.T) {
	ikm, _ := hex.DecodeString("0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	salt, _ := hex.DecodeString("000102030405060708090a0b0c")
	info, _ := hex.DecodeString("f0f1f2f3f4f5f6f7f8f9")

	wantPRK, _ := hex.DecodeString("077709362c2e32df0ddc3f0dc47bba6390b6c73bb50f9c3122ec844ad7c2b3e5")
	wantOKM, _ := hex.DecodeString("3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865")

	prk := HkdfExtract(salt, ikm)
	if !bytes.Equal(prk[:], wantPRK) {
		t.Fatalf("HkdfExtract PRK = %x, want %x", prk, wantPRK)
	}

	okm := HkdfExpand(prk[:], info, 42)
	if !bytes.Equal(okm, wantOKM) {
		t.Errorf("HkdfExpand OKM = %x, want %x", okm, wantOKM)
	}
}

func TestHkdfExpandLabelUsesTls13Prefix(t *testing.T) {
	secret := make([]byte, Sha256Size)
	a := HkdfExpandLabel(secret, "derived", []byte{}, Sha256Size)
	b := HkdfExpandLabel(secret, "derived", []byte{}, Sha256Size)
	if !bytes.Equal(a, b) {
		t.Errorf("HkdfExpandLabel not deterministic")
	}

	other := HkdfExpandLabel(secret, "c hs traffic", []byte{1, 2, 3}, Sha256Size)
	if bytes.Equal(a, other) {
		t.Errorf("different labels/contexts produced the same output")
	}

	label := "tls13 derived"
	info := append([]byte{0x00, byte(Sha256Size), byte(len(label))}, label...)
	info = append(info, 0x00)
	if want := HkdfExpand(secret, info, Sha256Size); !bytes.Equal(a, want) {
		t.Errorf("HkdfExpandLabel = %x, want HkdfExpand with %q label = %x", a, label, want)
	}
}
