// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import (
	"io"

	"github.com/grahamking/ort/internal/tlsprim"
	"github.com/grahamking/ort/internal/tlsrecord"
)

// State names the client-side handshake states from this design.
// No state may be skipped; Run enforces the order by construction rather
// than an explicit switch, the way a single straight-line function can
// when there is exactly one path through it (unlike hrissan-dtls's
// transport/statemachine, which needs an explicit state field because
// retransmission can revisit a state).
type State int

const (
	Start State = iota
	WaitServerHello
	WaitEncryptedExtensions
	WaitCertificate
	WaitCertificateVerify
	WaitFinished
	Connected
	StateClosed
)

const maxHandshakeAccumulator = 64 * 1024

const extEarlyData uint16 = 0x002a

// Result is what the record layer needs once the handshake completes: the
// two application traffic key sets, sequence numbers freshly reset to 0.
type Result struct {
	ReadKeys  *tlsrecord.TrafficKeys
	WriteKeys *tlsrecord.TrafficKeys
}

// handshakeReader reassembles whole handshake messages out of a record
// stream, transparently discarding middlebox-compatibility
// change_cipher_spec records and switching to encrypted reads once
// handshake keys are installed. Bounded accumulator per this design.
type handshakeReader struct {
	rr          *tlsrecord.Reader
	keys        *tlsrecord.TrafficKeys
	buf         []byte
	appDataSeen bool
}

func newHandshakeReader(r io.Reader) *handshakeReader {
	return &handshakeReader{rr: tlsrecord.NewReader(r)}
}

func (hr *handshakeReader) installKeys(keys *tlsrecord.TrafficKeys) {
	hr.keys = keys
}

// nextMessage returns the next complete handshake message, header included.
func (hr *handshakeReader) nextMessage() (MsgType, []byte, error) {
	for {
		if len(hr.buf) >= HeaderSize {
			msgType, length, err := ParseMessageHeader(hr.buf)
			if err == nil && len(hr.buf) >= HeaderSize+length {
				framed := hr.buf[:HeaderSize+length]
				hr.buf = hr.buf[HeaderSize+length:]
				return msgType, framed, nil
			}
		}
		if len(hr.buf) > maxHandshakeAccumulator {
			return 0, nil, ErrHandshakeAccumulator
		}

		contentType, fragment, err := hr.rr.ReadRecord(hr.keys)
		if err != nil {
			if err == io.EOF {
				return 0, nil, ErrPeerClosed
			}
			if err == tlsprim.ErrAuthFailed {
				return 0, nil, ErrCiphertextAuthFailed
			}
			return 0, nil, wrapIo(err)
		}

		switch {
		case tlsrecord.IsChangeCipherSpec(contentType, fragment):
			if hr.appDataSeen {
				return 0, nil, ErrCcsAfterAppData
			}
			continue
		case contentType == byte(tlsrecord.TypeAlert):
			return 0, nil, alertToError(fragment)
		case contentType == byte(tlsrecord.TypeApplicationData):
			hr.appDataSeen = true
			return 0, nil, ErrUnexpectedMessage
		case contentType != byte(tlsrecord.TypeHandshake):
			return 0, nil, ErrUnexpectedMessage
		}
		hr.buf = append(hr.buf, fragment...)
	}
}

// alertToError maps a 2-byte TLS alert record to the tagged error taxonomy.
func alertToError(fragment []byte) *Error {
	if len(fragment) != 2 {
		return ErrUnexpectedMessage
	}
	description := fragment[1]
	switch description {
	case alertCloseNotify:
		return ErrPeerClosed
	case alertBadRecordMac, alertDecryptError:
		return newError(Crypto, 0, "peer sent bad_record_mac/decrypt_error alert")
	case alertHandshakeFailure, alertProtocolVersion, alertNoApplicationProto:
		return newError(Unsupported, 0, "peer sent a negotiation-failure alert")
	default:
		return newError(Protocol, 0, "peer sent a fatal alert")
	}
}

// Run drives the full client handshake over conn: ClientHello out,
// ServerHello/EncryptedExtensions/Certificate/CertificateVerify/Finished
// in, client Finished out, and returns the application traffic keys.
// conn's read/write deadlines are the caller's responsibility: timeouts
// are plain socket deadlines set before this runs.
func Run(conn io.ReadWriter, sni string, rng tlsprim.Rand) (*Result, error) {
	ch := NewClientHello(rng)
	chBody, err := ch.Marshal(sni)
	if err != nil {
		return nil, err
	}
	chFramed := WrapMessage(TypeClientHello, chBody)

	writer := tlsrecord.NewWriter(conn)
	if err := writer.WritePlaintextRecord(byte(tlsrecord.TypeHandshake), chFramed); err != nil {
		return nil, wrapIo(err)
	}

	transcript := NewTranscript()
	transcript.Add(chFramed)

	hr := newHandshakeReader(conn)

	msgType, framed, err := hr.nextMessage()
	if err != nil {
		return nil, err
	}
	if msgType != TypeServerHello {
		return nil, ErrUnexpectedMessage
	}
	sh, err := ParseServerHello(framed[HeaderSize:])
	if err != nil {
		return nil, err
	}
	transcript.Add(framed)

	sharedSecret := tlsprim.X25519Agreement(ch.EphemeralPriv, sh.PeerShare)
	if tlsprim.IsAllZero(sharedSecret) {
		return nil, ErrAllZeroSharedSecret
	}

	ks := DeriveHandshakeSecrets(sharedSecret, transcript.Sum())
	clientHsKeys := TrafficKeys(ks.ClientHsTraffic)
	serverHsKeys := TrafficKeys(ks.ServerHsTraffic)
	hr.installKeys(serverHsKeys)

	msgType, framed, err = hr.nextMessage()
	if err != nil {
		return nil, err
	}
	if msgType != TypeEncryptedExtensions {
		return nil, ErrUnexpectedMessage
	}
	if err := checkEncryptedExtensions(framed[HeaderSize:]); err != nil {
		return nil, err
	}
	transcript.Add(framed)

	msgType, framed, err = hr.nextMessage()
	if err != nil {
		return nil, err
	}
	if msgType != TypeCertificate {
		return nil, ErrUnexpectedMessage
	}
	if _, err := ParseCertificateMessage(framed[HeaderSize:]); err != nil {
		return nil, err
	}
	transcript.Add(framed)

	msgType, framed, err = hr.nextMessage()
	if err != nil {
		return nil, err
	}
	if msgType != TypeCertificateVerify {
		return nil, ErrUnexpectedMessage
	}
	if _, err := ParseCertificateVerifyMessage(framed[HeaderSize:]); err != nil {
		return nil, err
	}
	transcript.Add(framed)

	transcriptChCv := transcript.Sum()

	msgType, framed, err = hr.nextMessage()
	if err != nil {
		return nil, err
	}
	if msgType != TypeFinished {
		return nil, ErrUnexpectedMessage
	}
	serverVerifyData, err := ParseFinished(framed[HeaderSize:])
	if err != nil {
		return nil, err
	}
	serverFinishedKey := FinishedKey(ks.ServerHsTraffic)
	if err := CheckFinished(serverVerifyData, VerifyData(serverFinishedKey, transcriptChCv)); err != nil {
		return nil, err
	}
	transcript.Add(framed)

	transcriptChServerFin := transcript.Sum()
	ks.DeriveApplicationSecrets(transcriptChServerFin)

	clientFinishedKey := FinishedKey(ks.ClientHsTraffic)
	clientVerifyData := VerifyData(clientFinishedKey, transcriptChServerFin)
	clientFinFramed := WrapMessage(TypeFinished, BuildFinished(clientVerifyData))
	if err := writer.WriteRecords(clientHsKeys, byte(tlsrecord.TypeHandshake), clientFinFramed); err != nil {
		return nil, wrapIo(err)
	}

	return &Result{
		ReadKeys:  TrafficKeys(ks.ServerApTraffic),
		WriteKeys: TrafficKeys(ks.ClientApTraffic),
	}, nil
}

// checkEncryptedExtensions parses well enough to reject the one
// client-forbidden extension (early_data without a prior PSK); anything
// else unrecognized is ignored.
func checkEncryptedExtensions(body []byte) error {
	exts, err := parseExtensions(body)
	if err != nil {
		return err
	}
	if _, ok := findExtension(exts, extEarlyData); ok {
		return ErrUnexpectedMessage
	}
	return nil
}
