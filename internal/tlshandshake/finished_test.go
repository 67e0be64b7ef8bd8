// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import "testing"

// TestFinishedVerificationOneBitFlipFails checks that a one-bit flip in
// any transcript message causes Finished verification to fail.
func TestFinishedVerificationOneBitFlipFails(t *testing.T) {
	var sharedSecret, serverShare [32]byte
	for i := range sharedSecret {
		sharedSecret[i] = byte(i + 1)
	}
	transcriptChSh := [32]byte{}
	for i := range transcriptChSh {
		transcriptChSh[i] = byte(i * 3)
	}
	_ = serverShare

	ks := DeriveHandshakeSecrets(sharedSecret, transcriptChSh)
	finishedKey := FinishedKey(ks.ServerHsTraffic)

	transcriptChCv := transcriptChSh
	transcriptChCv[0] ^= 0x01 // one-bit flip in the transcript hash

	good := VerifyData(finishedKey, transcriptChSh)
	bad := VerifyData(finishedKey, transcriptChCv)

	if err := CheckFinished(good, good); err != nil {
		t.Errorf("CheckFinished(good, good) = %v, want nil", err)
	}
	if err := CheckFinished(bad, good); err == nil {
		t.Error("CheckFinished accepted mismatched verify_data")
	}
}

func TestParseFinishedRejectsWrongLength(t *testing.T) {
	if _, err := ParseFinished(make([]byte, 31)); err != ErrBadFinishedLength {
		t.Errorf("err = %v, want ErrBadFinishedLength", err)
	}
	if _, err := ParseFinished(make([]byte, 33)); err != ErrBadFinishedLength {
		t.Errorf("err = %v, want ErrBadFinishedLength", err)
	}
}
