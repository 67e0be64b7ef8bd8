// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import "github.com/grahamking/ort/internal/tlsprim"

const legacyHelloVersion uint16 = 0x0303

// CipherSuiteAes128GcmSha256 is the only cipher suite this client offers or
// accepts, per this design.
const CipherSuiteAes128GcmSha256 uint16 = 0x1301

// ClientHello holds the values needed both to serialize the message and to
// later validate the ServerHello and feed the key schedule.
type ClientHello struct {
	Random         [32]byte
	LegacySession  [32]byte
	EphemeralPriv  [32]byte
	EphemeralPub   [32]byte
}

// NewClientHello draws fresh randomness for the hello random, the
// legacy_session_id (present only to look browser-like),
// and the X25519 ephemeral keypair.
func NewClientHello(rng tlsprim.Rand) *ClientHello {
	ch := &ClientHello{}
	rng.Read(ch.Random[:])
	rng.Read(ch.LegacySession[:])
	rng.Read(ch.EphemeralPriv[:])
	tlsprim.ClampScalar(&ch.EphemeralPriv)
	ch.EphemeralPub = tlsprim.X25519PublicKey(ch.EphemeralPriv)
	return ch
}

// Marshal builds the wire body of the ClientHello handshake message body
// (everything after the 4-byte handshake header).
func (ch *ClientHello) Marshal(sni string) ([]byte, error) {
	var body []byte
	body = appendUint16(body, legacyHelloVersion)
	body = append(body, ch.Random[:]...)

	body = append(body, byte(len(ch.LegacySession)))
	body = append(body, ch.LegacySession[:]...)

	cipherSuites := appendUint16(nil, CipherSuiteAes128GcmSha256)
	body = appendUint16(body, uint16(len(cipherSuites)))
	body = append(body, cipherSuites...)

	body = append(body, 1, 0) // legacy_compression_methods = [null]

	exts, err := buildClientExtensions(sni, ch.EphemeralPub)
	if err != nil {
		return nil, err
	}
	body = append(body, exts...)
	return body, nil
}
