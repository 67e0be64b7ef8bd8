// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlsprim

// RFC 2104 HMAC, keyed on our own Sha256 rather than crypto/hmac.

func HmacSha256(key, msg []byte) [Sha256Size]byte {
	var keyBlock [sha256BlockSize]byte
	if len(key) > sha256BlockSize {
		sum := Sha256Sum(key)
		copy(keyBlock[:], sum[:])
	} else {
		copy(keyBlock[:], key)
	}

	var ipad, opad [sha256BlockSize]byte
	for i := 0; i < sha256BlockSize; i++ {
		ipad[i] = keyBlock[i] ^ 0x36
		opad[i] = keyBlock[i] ^ 0x5c
	}

	inner := NewSha256()
	_, _ = inner.Write(ipad[:])
	_, _ = inner.Write(msg)
	innerSum := inner.Finalize()

	outer := NewSha256()
	_, _ = outer.Write(opad[:])
	_, _ = outer.Write(innerSum[:])
	return outer.Finalize()
}
