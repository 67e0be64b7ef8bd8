// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsrecord

import (
	"encoding/binary"
	"errors"

	"github.com/grahamking/ort/internal/tlsprim"
)

// TLSPlaintext/TLSCiphertext framing per RFC 8446 section 5, and the
// per-record AEAD seal/open. Shape (fixed-size header struct aliasing the
// wire buffer, Protect/Deprotect owning the padding dance) follows
// hrissan-dtls/record and hrissan-dtls/ciphersuite/symmetric_keys_aes.go,
// simplified from DTLS's variable-width header (CID, epoch, optional
// 8/16-bit sequence number) down to TLS's fixed 5-byte header with the
// sequence number carried only in connection state, never on the wire.

const HeaderSize = 5
const MaxPlaintextLength = 16384        // 2^14, [rfc8446:5.1]
const MaxCiphertextLength = 16384 + 256 // [rfc8446:5.2]
const legacyRecordVersion = 0x0303

const (
	TypeChangeCipherSpec = 20
	TypeAlert            = 21
	TypeHandshake        = 22
	TypeApplicationData  = 23
)

var ErrHeaderTooShort = errors.New("tlsrecord: header too short")
var ErrBodyTooShort = errors.New("tlsrecord: body shorter than declared length")
var ErrBodyTooLong = errors.New("tlsrecord: body exceeds maximum record length")
var ErrWrongLegacyVersion = errors.New("tlsrecord: wrong legacy record version")
var ErrAllZeroPadding = errors.New("tlsrecord: ciphertext unpadded to all-zero, no content type byte")

// Header is the 5-byte TLSPlaintext/TLSCiphertext header, aliasing the
// underlying read buffer the way hrissan-dtls/record.Ciphertext does so
// parsing never allocates.
type Header struct {
	ContentType byte
	Length      int
	raw         []byte // the 5 header bytes, reused verbatim as AEAD AAD
}

// ParseHeader reads exactly HeaderSize bytes from data and validates the
// legacy version and max-length fields.
func ParseHeader(data []byte, maxLength int) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrHeaderTooShort
	}
	version := binary.BigEndian.Uint16(data[1:3])
	if version != legacyRecordVersion {
		return Header{}, ErrWrongLegacyVersion
	}
	length := int(binary.BigEndian.Uint16(data[3:5]))
	if length > maxLength {
		return Header{}, ErrBodyTooLong
	}
	return Header{ContentType: data[0], Length: length, raw: data[:HeaderSize]}, nil
}

func putHeader(dst []byte, contentType byte, length int) {
	dst[0] = contentType
	binary.BigEndian.PutUint16(dst[1:3], legacyRecordVersion)
	binary.BigEndian.PutUint16(dst[3:5], uint16(length))
}

// WritePlaintext serializes a pre-handshake-keys record: header + raw
// fragment, no AEAD, no trailing content-type byte.
func WritePlaintext(dst []byte, contentType byte, fragment []byte) []byte {
	out := append(dst, make([]byte, HeaderSize)...)
	putHeader(out[len(out)-HeaderSize:], contentType, len(fragment))
	return append(out, fragment...)
}

// TrafficKeys is the per-direction key material: a fixed
// 16-byte AES-128 key, a fixed 12-byte IV, and a sequence number that
// starts at zero and resets whenever keys are replaced.
type TrafficKeys struct {
	Key [16]byte
	IV  [12]byte
	Seq uint64
}

// Nonce computes iv XOR big_endian_u64(seq), left-padded to 12 bytes, per
// this design — mirrors hrissan-dtls/ciphersuite's FillIVSequence.
func (k *TrafficKeys) Nonce() [12]byte {
	nonce := k.IV
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], k.Seq)
	for i := 0; i < 8; i++ {
		nonce[4+i] ^= seqBytes[i]
	}
	return nonce
}

// SealRecord protects one record: appends the true content type as the
// last plaintext byte, seals with AES-128-GCM, and wraps the result in a
// TLSCiphertext whose wire content type is always application_data.
// Sequence number is incremented on success; overflow of 2^64 is fatal per
// this design, surfaced to the caller as a panic since it can only
// happen after an astronomical number of records.
func SealRecord(dst []byte, keys *TrafficKeys, innerContentType byte, plaintext []byte) []byte {
	if keys.Seq == ^uint64(0) {
		panic("tlsrecord: sequence number overflow")
	}

	inner := make([]byte, 0, len(plaintext)+1)
	inner = append(inner, plaintext...)
	inner = append(inner, innerContentType)

	header := make([]byte, HeaderSize)
	putHeader(header, TypeApplicationData, len(inner)+tlsprim.GcmTagSize)

	nonce := keys.Nonce()
	sealed := tlsprim.GcmSeal(keys.Key[:], nonce[:], header, inner)
	keys.Seq++

	out := append(dst, header...)
	return append(out, sealed...)
}

// OpenRecord decrypts one already-framed TLSCiphertext record (hdr.raw is
// the AAD, body is ciphertext||tag) and strips the trailing content-type
// byte and zero padding per RFC 8446 section 5.4.
func OpenRecord(hdr Header, body []byte, keys *TrafficKeys) (plaintext []byte, contentType byte, err error) {
	if keys.Seq == ^uint64(0) {
		panic("tlsrecord: sequence number overflow")
	}
	nonce := keys.Nonce()
	decrypted, err := tlsprim.GcmOpen(keys.Key[:], nonce[:], hdr.raw, body)
	if err != nil {
		return nil, 0, err
	}
	keys.Seq++

	offset, ctype := findContentTypeOffset(decrypted)
	if offset < 0 {
		return nil, 0, ErrAllZeroPadding
	}
	return decrypted[:offset], ctype, nil
}

// findContentTypeOffset scans backward for the last non-zero byte, which is
// the inner content type; everything after it was zero padding. Shape
// follows hrissan-dtls/ciphersuite/symmetric_keys.go's
// findPaddingOffsetContentType (16-byte strides first, then byte by byte).
func findContentTypeOffset(data []byte) (offset int, contentType byte) {
	i := len(data)
	for ; i > 16; i -= 16 {
		block := data[i-16 : i]
		var nonZero uint64
		for _, b := range block {
			nonZero |= uint64(b)
		}
		if nonZero != 0 {
			break
		}
	}
	for ; i > 0; i-- {
		b := data[i-1]
		if b != 0 {
			return i - 1, b
		}
	}
	return -1, 0
}

// IsChangeCipherSpec reports whether a plaintext record is the single
// allowed middlebox-compatibility CCS record (RFC 8446 section 5,
// 0x14 0x03 0x03 0x00 0x01 0x01), which must be silently discarded rather
// than fed to the handshake parser.
func IsChangeCipherSpec(contentType byte, fragment []byte) bool {
	return contentType == TypeChangeCipherSpec && len(fragment) == 1 && fragment[0] == 0x01
}
