// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tlshandshake

import (
	"encoding/binary"
	"errors"
)

// Handshake message type constants and the 4-byte {type, length24} header
// framing from RFC 8446 section 4. Naming follows
// hrissan-dtls/handshake/msg_type.go and message_handshake.go, with the
// DTLS-only fields (MsgSeq, FragmentOffset, FragmentLength) dropped: TLS
// over a reliable TCP stream has no message sequence numbers or
// retransmission, only the plain type+length header.

type MsgType byte

const (
	TypeClientHello         MsgType = 1
	TypeServerHello         MsgType = 2
	TypeNewSessionTicket    MsgType = 4
	TypeEncryptedExtensions MsgType = 8
	TypeCertificate         MsgType = 11
	TypeCertificateVerify   MsgType = 15
	TypeFinished            MsgType = 20
)

const HeaderSize = 4
const MaxMessageLength = 1 << 14 // this design: longer is fatal

var ErrMessageTooShort = errors.New("tlshandshake: message header too short")
var ErrMessageTooLong = errors.New("tlshandshake: message exceeds 2^14 bytes")

func TypeName(t MsgType) string {
	switch t {
	case TypeClientHello:
		return "ClientHello"
	case TypeServerHello:
		return "ServerHello"
	case TypeNewSessionTicket:
		return "NewSessionTicket"
	case TypeEncryptedExtensions:
		return "EncryptedExtensions"
	case TypeCertificate:
		return "Certificate"
	case TypeCertificateVerify:
		return "CertificateVerify"
	case TypeFinished:
		return "Finished"
	default:
		return "<unknown>"
	}
}

// WrapMessage prepends the 4-byte {type, length24} header to body.
func WrapMessage(msgType MsgType, body []byte) []byte {
	out := make([]byte, HeaderSize, HeaderSize+len(body))
	out[0] = byte(msgType)
	out[1] = byte(len(body) >> 16)
	out[2] = byte(len(body) >> 8)
	out[3] = byte(len(body))
	return append(out, body...)
}

// ParseMessageHeader reads the 4-byte header from the front of data.
func ParseMessageHeader(data []byte) (msgType MsgType, length int, err error) {
	if len(data) < HeaderSize {
		return 0, 0, ErrMessageTooShort
	}
	length = int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	if length > MaxMessageLength {
		return 0, 0, ErrMessageTooLong
	}
	return MsgType(data[0]), length, nil
}

// appendUint16 is the small wire-encoding helper used by the
// ClientHello/ServerHello/extension builders and parsers below.
func appendUint16(b []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(b, v)
}
