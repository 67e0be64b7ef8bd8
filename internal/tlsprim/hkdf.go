// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

// RFC 5869 HKDF over our own HmacSha256, plus the TLS 1.3 §7.1 labelled
// wrapper (HKDF-Expand-Label / Derive-Secret). Shape follows
// hrissan-dtls/hkdf/hkdf.go, retargeted from the DTLS 1.3 "dtls13 " label
// prefix to TLS 1.3's "tls13 ".

const tls13LabelPrefix = "tls13 "

// HkdfExtract implements RFC 5869 section 2.2.
func HkdfExtract(salt, ikm []byte) [Sha256Size]byte {
	if len(salt) == 0 {
		salt = make([]byte, Sha256Size)
	}
	return HmacSha256(salt, ikm)
}

// HkdfExpand implements RFC 5869 section 2.3, returning exactly outLen
// bytes. outLen must be <= 255*32 per RFC 5869; larger is a programmer
// error (callers of this core never ask for more than 48 bytes).
func HkdfExpand(prk, info []byte, outLen int) []byte {
	n := (outLen + Sha256Size - 1) / Sha256Size
	if n > 255 {
		panic("hkdf: requested output too long")
	}

	okm := make([]byte, 0, n*Sha256Size)
	var t []byte
	for i := 1; i <= n; i++ {
		block := make([]byte, 0, len(t)+len(info)+1)
		block = append(block, t...)
		block = append(block, info...)
		block = append(block, byte(i))
		sum := HmacSha256(prk, block)
		t = sum[:]
		okm = append(okm, t...)
	}
	return okm[:outLen]
}

// HkdfExpandLabel implements RFC 8446 section 7.1's HKDF-Expand-Label,
// building the wire-format HkdfLabel{length, "tls13 "+label, context}.
func HkdfExpandLabel(secret []byte, label string, context []byte, length int) []byte {
	fullLabel := tls13LabelPrefix + label

	info := make([]byte, 0, 2+1+len(fullLabel)+1+len(context))
	info = append(info, byte(length>>8), byte(length))
	info = append(info, byte(len(fullLabel)))
	info = append(info, fullLabel...)
	info = append(info, byte(len(context)))
	info = append(info, context...)

	return HkdfExpand(secret, info, length)
}

// DeriveSecret implements RFC 8446 section 7.1: HKDF-Expand-Label using the
// transcript hash (not arbitrary context bytes) truncated to the hash size.
func DeriveSecret(secret []byte, label string, transcriptHash [Sha256Size]byte) [Sha256Size]byte {
	var out [Sha256Size]byte
	copy(out[:], HkdfExpandLabel(secret, label, transcriptHash[:], Sha256Size))
	return out
}
