// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import (
	"bytes"
	"testing"
)

func buildTestServerHelloBody(random [32]byte, cipherSuite uint16, peerPublic [32]byte, selectedVersion uint16) []byte {
	var body []byte
	body = appendUint16(body, legacyHelloVersion)
	body = append(body, random[:]...)
	body = append(body, 0) // legacy_session_id_echo, empty

	body = appendUint16(body, cipherSuite)
	body = append(body, 0) // legacy_compression_method

	versionExt := append([]byte{byte(extSupportedVersions >> 8), byte(extSupportedVersions)}, 0, 2)
	versionExt = appendUint16(versionExt, selectedVersion)

	keyShareData := appendUint16(nil, groupX25519)
	keyShareData = appendUint16(keyShareData, 32)
	keyShareData = append(keyShareData, peerPublic[:]...)
	keyShareExt := append([]byte{byte(extKeyShare >> 8), byte(extKeyShare)}, byte(len(keyShareData)>>8), byte(len(keyShareData)))
	keyShareExt = append(keyShareExt, keyShareData...)

	extsBody := append(versionExt, keyShareExt...)
	body = appendUint16(body, uint16(len(extsBody)))
	body = append(body, extsBody...)
	return body
}

func TestParseServerHelloValid(t *testing.T) {
	var random, peerPublic [32]byte
	random[0] = 0xAB
	peerPublic[0] = 0xCD

	body := buildTestServerHelloBody(random, CipherSuiteAes128GcmSha256, peerPublic, tls13Version)
	sh, err := ParseServerHello(body)
	if err != nil {
		t.Fatalf("ParseServerHello: %v", err)
	}
	if sh.Random != random {
		t.Errorf("random = %x, want %x", sh.Random, random)
	}
	if sh.PeerShare != peerPublic {
		t.Errorf("peer share = %x, want %x", sh.PeerShare, peerPublic)
	}
}

func TestParseServerHelloRejectsHelloRetryRequest(t *testing.T) {
	var peerPublic [32]byte
	body := buildTestServerHelloBody(helloRetryRequestRandom, CipherSuiteAes128GcmSha256, peerPublic, tls13Version)
	_, err := ParseServerHello(body)
	if err != ErrHelloRetryRequest {
		t.Errorf("err = %v, want ErrHelloRetryRequest", err)
	}
}

func TestParseServerHelloRejectsWrongCipher(t *testing.T) {
	var random, peerPublic [32]byte
	body := buildTestServerHelloBody(random, 0x1302, peerPublic, tls13Version) // AES-256-GCM
	_, err := ParseServerHello(body)
	if err != ErrUnsupportedCipher {
		t.Errorf("err = %v, want ErrUnsupportedCipher", err)
	}
}

func TestParseServerHelloRejectsWrongVersion(t *testing.T) {
	var random, peerPublic [32]byte
	body := buildTestServerHelloBody(random, CipherSuiteAes128GcmSha256, peerPublic, 0x0303)
	_, err := ParseServerHello(body)
	if err != ErrWrongLegacyVersion {
		t.Errorf("err = %v, want ErrWrongLegacyVersion", err)
	}
}

func TestBuiltExtensionsContainServerNameInOrder(t *testing.T) {
	var pub [32]byte
	exts, err := buildClientExtensions("openrouter.ai", pub)
	if err != nil {
		t.Fatalf("buildClientExtensions: %v", err)
	}
	// server_name (0x0000) must be the first extension.
	if !bytes.HasPrefix(exts[2:], []byte{0x00, 0x00}) {
		t.Errorf("first extension type = %x, want server_name (0000)", exts[2:4])
	}
}
