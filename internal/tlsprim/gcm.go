// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

import (
	"crypto/subtle"
	"encoding/binary"
)

// GHASH/GCM over GF(2^128), built on AES128.EncryptBlock for both the
// keystream and the hash subkey. No crypto/cipher.AEAD: GCM's wire-level
// contract (seal/open with a 16-byte tag, AAD, 96-bit nonce) is hand-rolled
// per RFC 8446 section 5.2/5.3 and NIST SP 800-38D.

const GcmTagSize = 16
const GcmNonceSize = 12

// gcmMulH multiplies two 128-bit blocks as elements of GF(2^128) using the
// reduction polynomial x^128+x^127+x^126+x^121+1, bit-reversed per
// SP 800-38D section 6.3 (GHASH numbers bits MSB-first within each byte but
// the reduction constant is easiest to apply with a right-shifting
// bit-at-a-time multiply, shifting the accumulator and conditionally
// XORing 0xe1000000...0 on underflow).
func gcmMulH(x, y [16]byte) [16]byte {
	var z [16]byte
	v := y
	for i := 0; i < 128; i++ {
		byteIdx := i / 8
		bitIdx := 7 - uint(i%8)
		if x[byteIdx]&(1<<bitIdx) != 0 {
			xorBlock(&z, &v)
		}
		lsbSet := v[15]&1 != 0
		shiftRight1(&v)
		if lsbSet {
			v[0] ^= 0xe1
		}
	}
	return z
}

func xorBlock(dst *[16]byte, src *[16]byte) {
	for i := 0; i < 16; i++ {
		dst[i] ^= src[i]
	}
}

func shiftRight1(v *[16]byte) {
	carry := byte(0)
	for i := 0; i < 16; i++ {
		newCarry := v[i] & 1
		v[i] = (v[i] >> 1) | (carry << 7)
		carry = newCarry
	}
}

// ghash computes GHASH_H(aad || pad || ciphertext || pad || lenAAD || lenC)
// per SP 800-38D section 6.4, processing 16-byte blocks.
func ghash(h [16]byte, aad, ciphertext []byte) [16]byte {
	var y [16]byte
	for _, block := range blocks16(aad) {
		xorBlock(&y, &block)
		y = gcmMulH(y, h)
	}
	for _, block := range blocks16(ciphertext) {
		xorBlock(&y, &block)
		y = gcmMulH(y, h)
	}
	var lenBlock [16]byte
	binary.BigEndian.PutUint64(lenBlock[0:8], uint64(len(aad))*8)
	binary.BigEndian.PutUint64(lenBlock[8:16], uint64(len(ciphertext))*8)
	xorBlock(&y, &lenBlock)
	y = gcmMulH(y, h)
	return y
}

// blocks16 splits data into zero-padded 16-byte blocks, matching the GHASH
// padding rule (the final partial block is padded with zero bytes).
func blocks16(data []byte) [][16]byte {
	if len(data) == 0 {
		return nil
	}
	n := (len(data) + 15) / 16
	out := make([][16]byte, n)
	for i := 0; i < n; i++ {
		start := i * 16
		end := start + 16
		if end > len(data) {
			end = len(data)
		}
		copy(out[i][:], data[start:end])
	}
	return out
}

func gcmIncrementCounter(counter *[16]byte) {
	for i := 15; i >= 12; i-- {
		counter[i]++
		if counter[i] != 0 {
			break
		}
	}
}

func gcmJ0(nonce []byte) [16]byte {
	var j0 [16]byte
	if len(nonce) == GcmNonceSize {
		copy(j0[:12], nonce)
		j0[15] = 1
		return j0
	}
	// Not reached by the TLS 1.3 record layer (nonce is always 12 bytes),
	// kept for fidelity to the general GCM definition.
	j0 = ghash(j0, nil, nonce)
	return j0
}

func gcmKeystreamBlock(aes *AES128, counter [16]byte) [16]byte {
	out := counter
	aes.EncryptBlock(&out)
	return out
}

func gcmCtr(aes *AES128, j0 [16]byte, data []byte) []byte {
	out := make([]byte, len(data))
	counter := j0
	gcmIncrementCounter(&counter)
	for i := 0; i < len(data); i += 16 {
		ks := gcmKeystreamBlock(aes, counter)
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		for j := i; j < end; j++ {
			out[j] = data[j] ^ ks[j-i]
		}
		gcmIncrementCounter(&counter)
	}
	return out
}

func ghashKey(aes *AES128) [16]byte {
	var zero [16]byte
	h := zero
	aes.EncryptBlock(&h)
	return h
}

// GcmSeal implements seal(key, nonce12, aad, plaintext) -> ciphertext||tag16,
// as used by the record layer. key selects AES-128-GCM (16-byte key).
func GcmSeal(key, nonce, aad, plaintext []byte) []byte {
	aes := NewAES128(key)
	h := ghashKey(aes)
	j0 := gcmJ0(nonce)

	ciphertext := gcmCtr(aes, j0, plaintext)

	s := ghash(h, aad, ciphertext)
	encJ0 := gcmKeystreamBlock(aes, j0)
	var tag [16]byte
	xorBlock(&tag, &s)
	xorBlock(&tag, &encJ0)

	out := make([]byte, 0, len(ciphertext)+GcmTagSize)
	out = append(out, ciphertext...)
	out = append(out, tag[:]...)
	return out
}

// ErrAuthFailed is the GCM authentication-failure sentinel. Callers must not inspect
// any other return value when this is returned; GcmOpen returns a nil
// plaintext on failure and decrypts only after the tag check passes, so a
// caller that ignores the error cannot leak plaintext.
var ErrAuthFailed = newCryptoPrimError("gcm: authentication failed")

type primError string

func newCryptoPrimError(s string) error { return primError(s) }
func (e primError) Error() string       { return string(e) }

// GcmOpen implements open(key, nonce12, aad, ciphertext||tag16) -> plaintext
// | AUTH_FAIL, comparing tags in constant time and returning no plaintext on
// failure.
func GcmOpen(key, nonce, aad, sealed []byte) ([]byte, error) {
	if len(sealed) < GcmTagSize {
		return nil, ErrAuthFailed
	}
	ciphertext := sealed[:len(sealed)-GcmTagSize]
	wantTag := sealed[len(sealed)-GcmTagSize:]

	aes := NewAES128(key)
	h := ghashKey(aes)
	j0 := gcmJ0(nonce)

	s := ghash(h, aad, ciphertext)
	encJ0 := gcmKeystreamBlock(aes, j0)
	var gotTag [16]byte
	xorBlock(&gotTag, &s)
	xorBlock(&gotTag, &encJ0)

	if subtle.ConstantTimeCompare(gotTag[:], wantTag) != 1 {
		return nil, ErrAuthFailed
	}

	return gcmCtr(aes, j0, ciphertext), nil
}
