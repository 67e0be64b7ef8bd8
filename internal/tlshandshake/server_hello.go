// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import "bytes"

// helloRetryRequestRandom is the fixed SHA-256("HelloRetryRequest") value a
// server sends as the ServerHello.random field instead of a real random
// when it wants a HelloRetryRequest, RFC 8446 section 4.1.3. This client
// does not support HRR (this design): receiving it is fatal.
var helloRetryRequestRandom = [32]byte{
	0xcf, 0x21, 0xad, 0x74, 0xe5, 0x9a, 0x61, 0x11,
	0xbe, 0x1d, 0x8c, 0x02, 0x1e, 0x65, 0xb8, 0x91,
	0xc2, 0xa2, 0x11, 0x16, 0x7a, 0xbb, 0x8c, 0x5e,
	0x07, 0x9e, 0x09, 0xe2, 0xc8, 0xa8, 0x33, 0x9c,
}

// downgradeSentinelTls12 / downgradeSentinelTls11 occupy the last 8 bytes
// of ServerHello.random when a TLS 1.3-aware server deliberately downgrades
// a client that offered 1.3, RFC 8446 section 4.1.3. Since this client only
// ever offers 1.3, seeing either is a sign of a broken or hostile peer.
var downgradeSentinelTls12 = [8]byte{0x44, 0x4f, 0x57, 0x4e, 0x47, 0x52, 0x44, 0x01}
var downgradeSentinelTls11 = [8]byte{0x44, 0x4f, 0x57, 0x4e, 0x47, 0x52, 0x44, 0x00}

// ServerHello holds the fields the client needs after validation: nothing
// else from the message is retained.
type ServerHello struct {
	Random    [32]byte
	PeerShare [32]byte
}

// ParseServerHello validates and extracts a ServerHello handshake message
// body per this design: legacy_version must be 0x0303, cipher_suite
// must be TLS_AES_128_GCM_SHA256, supported_versions must select 0x0304,
// and key_share must carry an x25519 public key.
func ParseServerHello(body []byte) (*ServerHello, error) {
	if len(body) < 2+32+1 {
		return nil, ErrBadServerHello
	}
	pos := 0
	legacyVersion := uint16(body[pos])<<8 | uint16(body[pos+1])
	pos += 2
	if legacyVersion != legacyHelloVersion {
		return nil, ErrWrongLegacyVersion
	}

	var random [32]byte
	copy(random[:], body[pos:pos+32])
	pos += 32

	if bytes.Equal(random[:], helloRetryRequestRandom[:]) {
		return nil, ErrHelloRetryRequest
	}
	if bytes.Equal(random[24:], downgradeSentinelTls12[:]) || bytes.Equal(random[24:], downgradeSentinelTls11[:]) {
		return nil, ErrWrongLegacyVersion
	}

	sessionLen := int(body[pos])
	pos++
	if len(body) < pos+sessionLen+2+1+2 {
		return nil, ErrBadServerHello
	}
	pos += sessionLen // legacy_session_id_echo, ignored

	cipherSuite := uint16(body[pos])<<8 | uint16(body[pos+1])
	pos += 2
	if cipherSuite != CipherSuiteAes128GcmSha256 {
		return nil, ErrUnsupportedCipher
	}

	pos++ // legacy_compression_method, always 0, ignored

	exts, err := parseExtensions(body[pos:])
	if err != nil {
		return nil, err
	}

	versionExt, ok := findExtension(exts, extSupportedVersions)
	if !ok {
		return nil, ErrMissingSupportedVers
	}
	selected, err := parseSupportedVersion(versionExt.Data)
	if err != nil {
		return nil, err
	}
	if selected != tls13Version {
		return nil, ErrWrongLegacyVersion
	}

	keyShareExt, ok := findExtension(exts, extKeyShare)
	if !ok {
		return nil, ErrMissingKeyShare
	}
	group, peerPublic, err := parseServerKeyShare(keyShareExt.Data)
	if err != nil {
		return nil, err
	}
	if group != groupX25519 {
		return nil, ErrUnsupportedGroup
	}

	return &ServerHello{Random: random, PeerShare: peerPublic}, nil
}
