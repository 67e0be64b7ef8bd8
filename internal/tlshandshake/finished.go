// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import "crypto/subtle"

// ParseFinished extracts and validates the verify_data length (32 bytes,
// fixed for SHA-256-based cipher suites) from a Finished message body.
func ParseFinished(body []byte) ([32]byte, error) {
	var verifyData [32]byte
	if len(body) != 32 {
		return verifyData, ErrBadFinishedLength
	}
	copy(verifyData[:], body)
	return verifyData, nil
}

// CheckFinished compares the received verify_data against the expected
// value in constant time; a mismatch is fatal.
func CheckFinished(got, want [32]byte) error {
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		return ErrFinishedMismatch
	}
	return nil
}

// BuildFinished wraps verify_data in a Finished handshake message body (the
// message body IS the 32-byte verify_data, no further structure).
func BuildFinished(verifyData [32]byte) []byte {
	return verifyData[:]
}
