// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

// X25519 scalar multiplication per RFC 7748, tweetnacl-style: radix-2^16
// limbs held in int64, a 255-step Montgomery ladder, and Fermat's little
// theorem for the one field inversion scalar multiplication needs.
// No golang.org/x/crypto/curve25519: the primitive is hand-rolled.

type gf [16]int64

var gfZero = gf{}
var gfOne = gf{1}
var gf121665 = gf{0xDB41, 1}

func car25519(o *gf) {
	var c int64
	for i := 0; i < 16; i++ {
		c = o[i] >> 16
		o[i] -= c << 16
		if i == 15 {
			o[0] += 38 * c
		} else {
			o[i+1] += c
		}
	}
}

// sel25519 conditionally swaps p and q in constant time when b == 1.
func sel25519(p, q *gf, b int64) {
	c := int64(^(b - 1))
	for i := 0; i < 16; i++ {
		t := c & (p[i] ^ q[i])
		p[i] ^= t
		q[i] ^= t
	}
}

func pack25519(o *[32]byte, n *gf) {
	var m, t gf
	t = *n
	car25519(&t)
	car25519(&t)
	car25519(&t)
	for range [2]struct{}{} {
		m[0] = t[0] - 0xffed
		for i := 1; i < 15; i++ {
			m[i] = t[i] - 0xffff - ((m[i-1] >> 16) & 1)
			m[i-1] &= 0xffff
		}
		m[15] = t[15] - 0x7fff - ((m[14] >> 16) & 1)
		carry := (m[15] >> 16) & 1
		m[14] &= 0xffff
		sel25519(&t, &m, 1-carry)
	}
	for i := 0; i < 16; i++ {
		o[2*i] = byte(t[i] & 0xff)
		o[2*i+1] = byte(t[i] >> 8)
	}
}

func unpack25519(o *gf, n *[32]byte) {
	for i := 0; i < 16; i++ {
		o[i] = int64(n[2*i]) + int64(n[2*i+1])<<8
	}
	o[15] &= 0x7fff
}

func gfAdd(a, b gf) gf {
	var o gf
	for i := 0; i < 16; i++ {
		o[i] = a[i] + b[i]
	}
	return o
}

func gfSub(a, b gf) gf {
	var o gf
	for i := 0; i < 16; i++ {
		o[i] = a[i] - b[i]
	}
	return o
}

func gfMul(a, b gf) gf {
	var t [31]int64
	for i := 0; i < 16; i++ {
		for j := 0; j < 16; j++ {
			t[i+j] += a[i] * b[j]
		}
	}
	for i := 0; i < 15; i++ {
		t[i] += 38 * t[i+16]
	}
	var o gf
	copy(o[:], t[:16])
	car25519(&o)
	car25519(&o)
	return o
}

func gfSquare(a gf) gf {
	return gfMul(a, a)
}

// gfInv computes a^(2^255-21), the modular inverse mod 2^255-19 via
// Fermat's little theorem (a^(p-2) = a^-1 for prime p).
func gfInv(i gf) gf {
	c := i
	for a := 253; a >= 0; a-- {
		c = gfSquare(c)
		if a != 2 && a != 4 {
			c = gfMul(c, i)
		}
	}
	return c
}

// ScalarMult implements RFC 7748's X25519(scalar, u). scalar and uCoord are
// both 32 bytes; ScalarMult clamps its own copy of scalar, so callers may
// pass either a clamped or an unclamped scalar.
func ScalarMult(scalar, uCoord [32]byte) [32]byte {
	var out [32]byte
	var clamped [32]byte
	copy(clamped[:], scalar[:])
	ClampScalar(&clamped)

	var x gf
	unpack25519(&x, &uCoord)

	a, b, c, d, e, f := gfOne, x, gfZero, gfOne, gfZero, gfZero
	for i := 254; i >= 0; i-- {
		bit := int64((clamped[i>>3] >> uint(i&7)) & 1)
		sel25519(&a, &b, bit)
		sel25519(&c, &d, bit)

		e = gfAdd(a, c)
		a = gfSub(a, c)
		c = gfAdd(b, d)
		b = gfSub(b, d)
		d = gfSquare(e)
		f = gfSquare(a)
		a = gfMul(c, a)
		c = gfMul(b, e)
		e = gfAdd(a, c)
		a = gfSub(a, c)
		b = gfSquare(a)
		c = gfSub(d, f)
		a = gfMul(c, gf121665)
		a = gfAdd(a, d)
		c = gfMul(c, a)
		a = gfMul(d, f)
		d = gfMul(b, x)
		b = gfSquare(e)

		sel25519(&a, &b, bit)
		sel25519(&c, &d, bit)
	}
	// After the ladder, a/c holds the projective X/Z coordinate (naming
	// follows the RFC 7748 pseudocode, reused across the loop above).
	c = gfInv(c)
	a = gfMul(a, c)
	pack25519(&out, &a)
	return out
}

// ClampScalar applies RFC 7748's required bit clamping to a random 32-byte
// scalar before it is used as an X25519 private key.
func ClampScalar(scalar *[32]byte) {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
}

var x25519BaseU = [32]byte{9}

// X25519PublicKey computes the public key for a (clamped) private scalar.
func X25519PublicKey(private [32]byte) [32]byte {
	return ScalarMult(private, x25519BaseU)
}

// X25519Agreement computes the shared secret for a private scalar and a
// peer's public key (u-coordinate).
func X25519Agreement(private, peerPublic [32]byte) [32]byte {
	return ScalarMult(private, peerPublic)
}

// IsAllZero reports whether the shared secret is the all-zero output RFC
// 7748 allows for certain low-order inputs. The handshake treats this as
// a fatal Crypto error rather than ignoring it.
func IsAllZero(secret [32]byte) bool {
	var acc byte
	for _, b := range secret {
		acc |= b
	}
	return acc == 0
}
