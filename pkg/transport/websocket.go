// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transport manages the WebSocket connection to a local wallet
// endpoint: dialing with retry and an overall timeout, message-delimited
// receiving, and exactly-once teardown.
package transport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gorilla/websocket"
)

const (
	// Subprotocol is offered during the WebSocket upgrade.
	Subprotocol = "com.solana.mobilewalletadapter.v1"

	// DefaultConnectTimeout bounds the whole retry loop, measured from the
	// first connection attempt.
	DefaultConnectTimeout = 30 * time.Second
)

// ErrSessionTimeout is returned when the wallet endpoint did not accept a
// connection before the overall timeout elapsed, regardless of remaining
// retry budget.
var ErrSessionTimeout = errors.New("association timed out before the wallet endpoint came up")

// Endpoint returns the WebSocket URL for a local association port.
func Endpoint(port uint16) string {
	return fmt.Sprintf("ws://localhost:%d/solana-wallet", port)
}

// Conn is a message-delimited channel to the wallet endpoint. The
// underlying socket is owned by the Conn and its consumer for the session's
// duration and is closed exactly once.
type Conn struct {
	ws *websocket.Conn

	in      chan []byte
	errChan chan error

	// done releases the reader once no consumer remains.
	done      chan struct{}
	closeOnce sync.Once
}

// Connect dials url, retrying failed attempts with the backoff schedule
// until timeout has elapsed since the first attempt. A timeout of zero
// selects DefaultConnectTimeout.
func Connect(url string, timeout time.Duration) (*Conn, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	deadline := time.Now().Add(timeout)

	dialer := websocket.Dialer{
		Subprotocols:     []string{Subprotocol},
		HandshakeTimeout: timeout,
	}

	var backoff Backoff
	for {
		ws, _, err := dialer.Dial(url, nil)
		if err == nil {
			conn := &Conn{
				ws:      ws,
				in:      make(chan []byte),
				errChan: make(chan error, 1),
				done:    make(chan struct{}),
			}
			go conn.reader()

			log.WithField("url", url).Debug("Connected to wallet endpoint")
			return conn, nil
		}

		delay := backoff.Next()
		if time.Now().Add(delay).After(deadline) {
			log.WithField("url", url).WithError(err).Debug("Giving up dialing wallet endpoint")
			return nil, ErrSessionTimeout
		}

		log.WithFields(log.Fields{
			"url":   url,
			"delay": delay,
		}).WithError(err).Debug("Dialing wallet endpoint errored, backing off")

		time.Sleep(delay)
	}
}

// reader pumps inbound binary messages into the Conn's channel until the
// socket dies or the Conn is closed. The terminal error is buffered for the
// consumer and the message channel is closed afterwards.
func (conn *Conn) reader() {
	defer close(conn.in)

	for {
		mt, data, err := conn.ws.ReadMessage()
		if err != nil {
			conn.errChan <- err
			return
		}

		if mt != websocket.BinaryMessage {
			log.WithField("type", mt).Warn("Ignoring non-binary WebSocket message")
			continue
		}

		select {
		case conn.in <- data:

		case <-conn.done:
			return
		}
	}
}

// Receive returns the channel of inbound messages. It is closed once the
// socket is gone; Err then yields the cause.
func (conn *Conn) Receive() <-chan []byte {
	return conn.in
}

// Err yields the terminal read error, at most once.
func (conn *Conn) Err() <-chan error {
	return conn.errChan
}

// Send writes one binary message. Send must only be called from a single
// goroutine.
func (conn *Conn) Send(data []byte) error {
	return conn.ws.WriteMessage(websocket.BinaryMessage, data)
}

// Close shuts the socket down. Calling Close multiple times is allowed;
// only the first call has an effect.
func (conn *Conn) Close() (err error) {
	conn.closeOnce.Do(func() {
		close(conn.done)
		err = conn.ws.Close()
	})
	return
}
