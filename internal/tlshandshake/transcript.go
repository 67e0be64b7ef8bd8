// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import "github.com/grahamking/ort/internal/tlsprim"

// Transcript is a running SHA-256 hash over every handshake message
// (including its 4-byte header) in wire order, per this design and
// RFC 8446 section 4.4.1. hrissan-dtls's MsgFragmentHeader.AddToHash feeds
// a hash.Hash the same way; this drops the DTLS fragment-reassembly step
// since a TLS message is never split for hashing purposes.
type Transcript struct {
	h tlsprim.Sha256
}

func NewTranscript() *Transcript {
	t := &Transcript{}
	t.h.Reset()
	return t
}

// Add feeds one already-framed handshake message (header + body) into the
// transcript.
func (t *Transcript) Add(framedMessage []byte) {
	t.h.Write(framedMessage)
}

// Sum returns the transcript hash at this point without disturbing state,
// so it can be called at multiple points (CH..SH, CH..CertificateVerify,
// CH..server Finished) as the key schedule requires.
func (t *Transcript) Sum() [32]byte {
	var out [32]byte
	copy(out[:], t.h.Sum(nil))
	return out
}
