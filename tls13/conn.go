// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

package tls13

import (
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/grahamking/ort/internal/tlshandshake"
	"github.com/grahamking/ort/internal/tlsprim"
	"github.com/grahamking/ort/internal/tlsrecord"
)

// Conn is a single client-side TLS 1.3 connection, restricted to
// TLS_AES_128_GCM_SHA256 over x25519 (this design). One goroutine
// owns it at a time: synchronous reads and writes, no internal buffering
// goroutine, unlike hrissan-dtls's channel-driven Conn in conn.go, which
// exists only because DTLS there runs its state machine off a shared UDP
// socket. A plain net.Conn underneath a reliable TCP stream needs none of
// that; Connect does the handshake inline and hands back a Conn that reads
// and writes records directly off the socket.
type Conn struct {
	net         net.Conn
	readKeys    *tlsrecord.TrafficKeys
	writeKeys   *tlsrecord.TrafficKeys
	recordRead  *tlsrecord.Reader
	recordWrite *tlsrecord.Writer

	mu     sync.Mutex
	closed bool

	handshakeStart time.Time
	stats          ConnectionStats
}

// closeNotifyTimeout bounds the best-effort close_notify write so Close
// never blocks indefinitely on a peer that stopped reading.
const closeNotifyTimeout = 200 * time.Millisecond

// ConnectionStats is the caller-visible summary this design promises:
// byte counters and the time the handshake itself took.
type ConnectionStats struct {
	BytesIn     int64
	BytesOut    int64
	HandshakeMs int64
}

// Connect dials host:port over TCP (an IP address is dialed directly; a
// name goes through the system resolver) plus the full TLS 1.3 handshake, and returns a ready-to-use
// Conn. ctx governs both the dial and the handshake; timeout, if nonzero,
// additionally bounds the whole operation via the socket deadline.
func Connect(ctx context.Context, host string, port int, sni string, timeout time.Duration) (*Conn, error) {
	dialer := net.Dialer{}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	dialCtx := ctx
	if timeout != 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rawConn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, tlshandshake.IoOrTimeoutError(err)
	}

	if timeout != 0 {
		deadline := time.Now().Add(timeout)
		if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
			deadline = dl
		}
		_ = rawConn.SetDeadline(deadline)
	} else if dl, ok := ctx.Deadline(); ok {
		_ = rawConn.SetDeadline(dl)
	}

	start := time.Now()
	result, err := tlshandshake.Run(rawConn, sni, tlsprim.CryptoRand())
	if err != nil {
		rawConn.Close()
		return nil, err
	}
	handshakeMs := time.Since(start).Milliseconds()

	_ = rawConn.SetDeadline(time.Time{})

	c := &Conn{
		net:            rawConn,
		readKeys:       result.ReadKeys,
		writeKeys:      result.WriteKeys,
		recordRead:     tlsrecord.NewReader(rawConn),
		recordWrite:    tlsrecord.NewWriter(rawConn),
		handshakeStart: start,
		stats:          ConnectionStats{HandshakeMs: handshakeMs},
	}
	return c, nil
}

// Write sends p as one or more application_data records.
func (c *Conn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, tlshandshake.ErrConnectionClosed
	}
	if err := c.recordWrite.WriteRecords(c.writeKeys, byte(tlsrecord.TypeApplicationData), p); err != nil {
		return 0, wrapWriteErr(err)
	}
	c.stats.BytesOut += int64(len(p))
	return len(p), nil
}

// ReadStream pulls application_data records until the peer closes the
// connection or sink returns a non-nil error, calling sink with each
// record's plaintext. It stops early and performs a clean shutdown when
// ctx is done, which it checks between records, per this design's
// cooperative cancellation model.
func (c *Conn) ReadStream(ctx context.Context, sink func([]byte) error) error {
	for {
		select {
		case <-ctx.Done():
			c.closeLocal()
			return ctx.Err()
		default:
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return tlshandshake.ErrConnectionClosed
		}
		contentType, fragment, err := c.recordRead.ReadRecord(c.readKeys)
		if err != nil {
			c.mu.Unlock()
			return c.handleReadErr(err)
		}

		if tlsrecord.IsChangeCipherSpec(contentType, fragment) {
			c.mu.Unlock()
			continue
		}
		if contentType == byte(tlsrecord.TypeAlert) {
			c.mu.Unlock()
			return c.handleAlert(fragment)
		}
		if contentType == byte(tlsrecord.TypeHandshake) {
			// Post-handshake messages (NewSessionTicket and friends) arrive
			// on this same key; no session resumption means there is
			// nothing to do with them but drop them.
			c.mu.Unlock()
			continue
		}
		if contentType != byte(tlsrecord.TypeApplicationData) {
			c.mu.Unlock()
			c.closeLocal()
			return tlshandshake.ErrUnexpectedMessage
		}
		c.stats.BytesIn += int64(len(fragment))
		c.mu.Unlock()

		if err := sink(fragment); err != nil {
			return err
		}
	}
}

// Stats returns a snapshot of byte counters and handshake timing.
func (c *Conn) Stats() ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close sends a best-effort close_notify alert (never blocks on failure to
// do so) and closes the underlying socket.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLockedWithNotify()
}

// closeLockedWithAlert sends a best-effort alert with the given
// description byte (0 means close_notify, sent at warning level; anything
// else is a fatal-level alert) and closes the underlying socket.
func (c *Conn) closeLockedWithAlert(desc byte) error {
	if c.closed {
		return nil
	}
	c.closed = true
	level := byte(1)
	if desc != 0 {
		level = 2
	}
	alert := []byte{level, desc}
	_ = c.net.SetWriteDeadline(time.Now().Add(closeNotifyTimeout))
	_ = c.recordWrite.WriteRecords(c.writeKeys, byte(tlsrecord.TypeAlert), alert)
	return c.net.Close()
}

func (c *Conn) closeLockedWithNotify() error {
	return c.closeLockedWithAlert(0)
}

func (c *Conn) closeLocalWithAlert(desc byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.closeLockedWithAlert(desc)
}

func (c *Conn) closeLocal() {
	c.closeLocalWithAlert(0)
}

func (c *Conn) handleReadErr(err error) error {
	if err == tlsprim.ErrAuthFailed {
		c.closeLocalWithAlert(tlshandshake.ErrCiphertextAuthFailed.Alert)
		return tlshandshake.ErrCiphertextAuthFailed
	}
	c.closeLocal()
	if hsErr, ok := err.(*tlshandshake.Error); ok {
		return hsErr
	}
	if err == io.EOF {
		return tlshandshake.ErrPeerClosed
	}
	return tlshandshake.IoOrTimeoutError(err)
}

func (c *Conn) handleAlert(fragment []byte) error {
	c.closeLocal()
	if len(fragment) == 2 && fragment[1] == 0 {
		return tlshandshake.ErrPeerClosed
	}
	return tlshandshake.ErrUnexpectedMessage
}

func wrapWriteErr(err error) error {
	if hsErr, ok := err.(*tlshandshake.Error); ok {
		return hsErr
	}
	return tlshandshake.IoOrTimeoutError(err)
}
