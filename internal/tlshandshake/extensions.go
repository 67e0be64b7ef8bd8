// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import (
	"encoding/binary"

	"github.com/grahamking/ort/safecast"
)

// Extension type codes and group/signature-algorithm codes used by the
// single supported ClientHello/ServerHello shape (this design).
// Naming mirrors hrissan-dtls/handshake/extensions.go's constant table,
// trimmed to the handful TLS 1.3 over x25519/AES-128-GCM actually needs.

const (
	extServerName         uint16 = 0x0000
	extSupportedGroups    uint16 = 0x000a
	extSignatureAlgs      uint16 = 0x000d
	extSupportedVersions  uint16 = 0x002b
	extKeyShare           uint16 = 0x0033
)

const (
	groupX25519 uint16 = 0x001d
)

const (
	sigRsaPssRsaeSha256   uint16 = 0x0804
	sigEcdsaSecp256r1     uint16 = 0x0403
	sigRsaPkcs1Sha256     uint16 = 0x0401
	sigEd25519            uint16 = 0x0807
)

const tls13Version uint16 = 0x0304
const sniHostNameType byte = 0

// extension is one raw {type, data} pair as parsed off the wire.
type extension struct {
	Type uint16
	Data []byte
}

// parseExtensions reads a length-prefixed extensions block (2-byte overall
// length, then repeated {type uint16, length uint16, data}).
func parseExtensions(data []byte) ([]extension, error) {
	if len(data) < 2 {
		return nil, ErrBadServerHello
	}
	total := int(binary.BigEndian.Uint16(data[:2]))
	body := data[2:]
	if len(body) < total {
		return nil, ErrBadServerHello
	}
	body = body[:total]

	var exts []extension
	for len(body) > 0 {
		if len(body) < 4 {
			return nil, ErrBadServerHello
		}
		extType := binary.BigEndian.Uint16(body[0:2])
		extLen := int(binary.BigEndian.Uint16(body[2:4]))
		body = body[4:]
		if len(body) < extLen {
			return nil, ErrBadServerHello
		}
		exts = append(exts, extension{Type: extType, Data: body[:extLen]})
		body = body[extLen:]
	}
	return exts, nil
}

func findExtension(exts []extension, want uint16) (extension, bool) {
	for _, e := range exts {
		if e.Type == want {
			return e, true
		}
	}
	return extension{}, false
}

// buildClientExtensions serializes the ClientHello extensions block in the
// exact order this design requires: server_name, supported_versions,
// supported_groups, signature_algorithms, key_share.
func buildClientExtensions(sni string, clientPublic [32]byte) ([]byte, error) {
	var body []byte
	var err error
	if body, err = appendServerNameExt(body, sni); err != nil {
		return nil, err
	}
	if body, err = appendSupportedVersionsExt(body); err != nil {
		return nil, err
	}
	if body, err = appendSupportedGroupsExt(body); err != nil {
		return nil, err
	}
	if body, err = appendSignatureAlgorithmsExt(body); err != nil {
		return nil, err
	}
	if body, err = appendKeyShareExt(body, clientPublic); err != nil {
		return nil, err
	}

	bodyLen, err := safecast.TryCast[uint16, int](len(body))
	if err != nil {
		return nil, err
	}
	out := appendUint16(nil, bodyLen)
	return append(out, body...), nil
}

func appendExtHeader(dst []byte, extType uint16, dataLen int) ([]byte, error) {
	n, err := safecast.TryCast[uint16, int](dataLen)
	if err != nil {
		return nil, err
	}
	dst = appendUint16(dst, extType)
	dst = appendUint16(dst, n)
	return dst, nil
}

func appendServerNameExt(dst []byte, sni string) ([]byte, error) {
	sniLen, err := safecast.TryCast[uint16, int](len(sni))
	if err != nil {
		return nil, err
	}
	// ServerNameList = 2-byte length, then {name_type byte, 2-byte length, name}
	nameEntry := append([]byte{sniHostNameType}, appendUint16(nil, sniLen)...)
	nameEntry = append(nameEntry, sni...)
	body := append(appendUint16(nil, uint16(len(nameEntry))), nameEntry...)

	dst, err = appendExtHeader(dst, extServerName, len(body))
	if err != nil {
		return nil, err
	}
	return append(dst, body...), nil
}

func appendSupportedVersionsExt(dst []byte) ([]byte, error) {
	// list is 1-byte length prefixed in ClientHello (a list of uint16s)
	body := append([]byte{2}, appendUint16(nil, tls13Version)...)
	dst, err := appendExtHeader(dst, extSupportedVersions, len(body))
	if err != nil {
		return nil, err
	}
	return append(dst, body...), nil
}

func appendSupportedGroupsExt(dst []byte) ([]byte, error) {
	list := appendUint16(nil, groupX25519)
	body := append(appendUint16(nil, uint16(len(list))), list...)
	dst, err := appendExtHeader(dst, extSupportedGroups, len(body))
	if err != nil {
		return nil, err
	}
	return append(dst, body...), nil
}

func appendSignatureAlgorithmsExt(dst []byte) ([]byte, error) {
	var list []byte
	for _, sig := range []uint16{sigRsaPssRsaeSha256, sigEcdsaSecp256r1, sigRsaPkcs1Sha256, sigEd25519} {
		list = appendUint16(list, sig)
	}
	body := append(appendUint16(nil, uint16(len(list))), list...)
	dst, err := appendExtHeader(dst, extSignatureAlgs, len(body))
	if err != nil {
		return nil, err
	}
	return append(dst, body...), nil
}

func appendKeyShareExt(dst []byte, clientPublic [32]byte) ([]byte, error) {
	entry := appendUint16(nil, groupX25519)
	entry = appendUint16(entry, uint16(len(clientPublic)))
	entry = append(entry, clientPublic[:]...)
	body := append(appendUint16(nil, uint16(len(entry))), entry...)

	dst, err := appendExtHeader(dst, extKeyShare, len(body))
	if err != nil {
		return nil, err
	}
	return append(dst, body...), nil
}

// parseServerKeyShare extracts the single KeyShareEntry a ServerHello
// carries: {group uint16, length uint16, key_exchange}.
func parseServerKeyShare(data []byte) (group uint16, publicKey [32]byte, err error) {
	if len(data) < 4 {
		return 0, publicKey, ErrBadServerHello
	}
	group = binary.BigEndian.Uint16(data[0:2])
	keyLen := int(binary.BigEndian.Uint16(data[2:4]))
	data = data[4:]
	if len(data) < keyLen {
		return 0, publicKey, ErrBadServerHello
	}
	if group == groupX25519 {
		if keyLen != 32 {
			return group, publicKey, ErrBadKeyShareLength
		}
		copy(publicKey[:], data[:keyLen])
	}
	return group, publicKey, nil
}

// parseSupportedVersion extracts the single uint16 a ServerHello's
// supported_versions extension carries (unlike ClientHello's list, this is
// just the selected version, no length prefix).
func parseSupportedVersion(data []byte) (uint16, error) {
	if len(data) != 2 {
		return 0, ErrBadServerHello
	}
	return binary.BigEndian.Uint16(data), nil
}
