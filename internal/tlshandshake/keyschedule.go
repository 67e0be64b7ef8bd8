// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import (
	"github.com/grahamking/ort/internal/tlsprim"
	"github.com/grahamking/ort/internal/tlsrecord"
)

// KeySchedule holds the RFC 8446 section 7.1 secrets and derived per-
// direction traffic keys for a single connection. Field names follow the
// RFC's own secret names so the derivation reads like its pseudocode.
type KeySchedule struct {
	earlySecret     [32]byte
	handshakeSecret [32]byte
	masterSecret    [32]byte

	ClientHsTraffic [32]byte
	ServerHsTraffic [32]byte
	ClientApTraffic [32]byte
	ServerApTraffic [32]byte
}

var zeroKey32 [32]byte

// DeriveHandshakeSecrets computes early_secret, derived1, handshake_secret,
// and the two handshake traffic secrets, given the ECDHE shared secret and
// the transcript hash of ClientHello..ServerHello.
func DeriveHandshakeSecrets(sharedSecret [32]byte, transcriptChSh [32]byte) *KeySchedule {
	ks := &KeySchedule{}
	ks.earlySecret = tlsprim.HkdfExtract(zeroKey32[:], zeroKey32[:])
	derived1 := tlsprim.DeriveSecret(ks.earlySecret[:], "derived", tlsprim.Sha256Sum(nil))
	ks.handshakeSecret = tlsprim.HkdfExtract(derived1[:], sharedSecret[:])
	ks.ClientHsTraffic = tlsprim.DeriveSecret(ks.handshakeSecret[:], "c hs traffic", transcriptChSh)
	ks.ServerHsTraffic = tlsprim.DeriveSecret(ks.handshakeSecret[:], "s hs traffic", transcriptChSh)
	return ks
}

// DeriveApplicationSecrets computes derived2, master_secret, and the two
// application traffic secrets, given the transcript hash of
// ClientHello..server Finished. Must be called after
// DeriveHandshakeSecrets on the same KeySchedule.
func (ks *KeySchedule) DeriveApplicationSecrets(transcriptChServerFin [32]byte) {
	derived2 := tlsprim.DeriveSecret(ks.handshakeSecret[:], "derived", tlsprim.Sha256Sum(nil))
	ks.masterSecret = tlsprim.HkdfExtract(derived2[:], zeroKey32[:])
	ks.ClientApTraffic = tlsprim.DeriveSecret(ks.masterSecret[:], "c ap traffic", transcriptChServerFin)
	ks.ServerApTraffic = tlsprim.DeriveSecret(ks.masterSecret[:], "s ap traffic", transcriptChServerFin)
}

// TrafficKeys derives the {key, iv} pair for one traffic secret per
// this design: HKDF-Expand-Label(secret, "key"/"iv", "", 16/12).
func TrafficKeys(secret [32]byte) *tlsrecord.TrafficKeys {
	keys := &tlsrecord.TrafficKeys{}
	copy(keys.Key[:], tlsprim.HkdfExpandLabel(secret[:], "key", nil, 16))
	copy(keys.IV[:], tlsprim.HkdfExpandLabel(secret[:], "iv", nil, 12))
	return keys
}

// FinishedKey derives HKDF-Expand-Label(traffic_secret, "finished", "", 32).
func FinishedKey(trafficSecret [32]byte) [32]byte {
	var out [32]byte
	copy(out[:], tlsprim.HkdfExpandLabel(trafficSecret[:], "finished", nil, 32))
	return out
}

// VerifyData computes HMAC(finished_key, transcript_hash), used both to
// build the client Finished message and to check the server's.
func VerifyData(finishedKey [32]byte, transcriptHash [32]byte) [32]byte {
	return tlsprim.HmacSha256(finishedKey[:], transcriptHash[:])
}
