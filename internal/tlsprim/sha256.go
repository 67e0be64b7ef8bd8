// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

import "encoding/binary"

// FIPS 180-4 SHA-256, implemented from scratch: no crypto/sha256, no
// hardware acceleration. Incremental API mirrors stdlib hash.Hash so it
// slots into the same call sites a library hasher would.

const Sha256Size = 32
const sha256BlockSize = 64

var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

var sha256Init = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// Sha256 is an incremental SHA-256 hasher. Zero value is not usable; call New.
type Sha256 struct {
	state  [8]uint32
	buf    [sha256BlockSize]byte
	buflen int
	length uint64 // total bytes fed, for the final length suffix
}

func NewSha256() *Sha256 {
	h := &Sha256{}
	h.Reset()
	return h
}

func (h *Sha256) Reset() {
	h.state = sha256Init
	h.buflen = 0
	h.length = 0
}

func (h *Sha256) Size() int      { return Sha256Size }
func (h *Sha256) BlockSize() int { return sha256BlockSize }

func (h *Sha256) Write(p []byte) (int, error) {
	n := len(p)
	h.length += uint64(n)

	if h.buflen > 0 {
		need := sha256BlockSize - h.buflen
		if need > len(p) {
			need = len(p)
		}
		copy(h.buf[h.buflen:], p[:need])
		h.buflen += need
		p = p[need:]
		if h.buflen == sha256BlockSize {
			sha256Compress(&h.state, &h.buf)
			h.buflen = 0
		}
	}

	for len(p) >= sha256BlockSize {
		var block [sha256BlockSize]byte
		copy(block[:], p[:sha256BlockSize])
		sha256Compress(&h.state, &block)
		p = p[sha256BlockSize:]
	}

	if len(p) > 0 {
		copy(h.buf[h.buflen:], p)
		h.buflen += len(p)
	}

	return n, nil
}

// Sum returns the digest without disturbing the hasher's state, matching
// hash.Hash semantics (callers may keep writing afterwards).
func (h *Sha256) Sum(b []byte) []byte {
	clone := *h
	return clone.finalize(b)
}

// Finalize destroys the hasher and returns the digest. Prefer this over Sum
// when the caller is done with the hasher, since it avoids the extra copy.
func (h *Sha256) Finalize() [Sha256Size]byte {
	var out [Sha256Size]byte
	copy(out[:], h.finalize(nil))
	return out
}

func (h *Sha256) finalize(b []byte) []byte {
	bitLen := h.length * 8

	var pad [sha256BlockSize + 8]byte
	pad[0] = 0x80
	// padLen zero bytes follow 0x80 so that buflen+1+padLen == 56 (mod 64),
	// leaving exactly 8 bytes for the big-endian bit length to reach a
	// block boundary.
	padLen := ((55-h.buflen)%sha256BlockSize + sha256BlockSize) % sha256BlockSize
	binary.BigEndian.PutUint64(pad[1+padLen:1+padLen+8], bitLen)

	// Feed the 0x80 byte + zero padding + 8-byte length through Write on a
	// throwaway copy so the real hasher is untouched by Sum.
	h.Write(pad[:1+padLen+8])

	out := make([]byte, 0, Sha256Size)
	for _, w := range h.state {
		out = append(out, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return append(b, out...)
}

func sha256Compress(state *[8]uint32, block *[64]byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(block[i*4 : i*4+4])
	}
	for i := 16; i < 64; i++ {
		s0 := rotr32(w[i-15], 7) ^ rotr32(w[i-15], 18) ^ (w[i-15] >> 3)
		s1 := rotr32(w[i-2], 17) ^ rotr32(w[i-2], 19) ^ (w[i-2] >> 10)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, hh := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for i := 0; i < 64; i++ {
		s1 := rotr32(e, 6) ^ rotr32(e, 11) ^ rotr32(e, 25)
		ch := (e & f) ^ (^e & g)
		temp1 := hh + s1 + ch + sha256K[i] + w[i]
		s0 := rotr32(a, 2) ^ rotr32(a, 13) ^ rotr32(a, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		temp2 := s0 + maj

		hh = g
		g = f
		f = e
		e = d + temp1
		d = c
		c = b
		b = a
		a = temp1 + temp2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += hh
}

func rotr32(x uint32, n uint) uint32 {
	return (x >> n) | (x << (32 - n))
}

// Sha256Sum is a pure convenience wrapper: hash(bytes).
func Sha256Sum(data []byte) [Sha256Size]byte {
	h := NewSha256()
	_, _ = h.Write(data)
	return h.Finalize()
}
