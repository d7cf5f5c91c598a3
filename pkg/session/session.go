// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session drives one encrypted association session: it performs
// the HELLO exchange on a fresh transport connection, multiplexes
// request/response envelopes over it and hands a bound remote-call surface
// to the caller's scenario function.
//
// All protocol state, the pending-request table and the sequence counter
// are owned by a single run loop goroutine; their mutation is serialized by
// that loop, so no locking is involved.
package session

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/solana-mobile/mwa-go/pkg/frame"
	"github.com/solana-mobile/mwa-go/pkg/handshake"
	"github.com/solana-mobile/mwa-go/pkg/keyex"
	"github.com/solana-mobile/mwa-go/pkg/transport"
)

var (
	// ErrSessionClosed fails every request still pending when the session
	// terminates before its response arrived.
	ErrSessionClosed = errors.New("session closed unexpectedly")

	// ErrSequenceOverflow is raised when the outbound sequence counter
	// would exceed its 32 bit range. The counter never wraps; overflow is
	// a fatal session error.
	ErrSequenceOverflow = errors.New("outbound sequence number exhausted")
)

// Session multiplexes encrypted application envelopes over an established
// transport connection. Exactly one session key is ever negotiated per
// Session; there is no renegotiation.
type Session struct {
	conn *transport.Conn
	key  handshake.SessionKey

	state State

	// seq is the outbound sequence counter. It equals the identifier of
	// the request it protects.
	seq     uint32
	pending map[uint32]chan callOutcome

	callChan chan *call
}

type call struct {
	method  string
	params  json.RawMessage
	outcome chan callOutcome
}

type callOutcome struct {
	result json.RawMessage
	err    error
}

// Establish performs the HELLO exchange on a fresh connection and returns
// a Session that is ready to Run. The ephemeral private key is dropped as
// soon as the session key is derived.
func Establish(conn *transport.Conn, association *ecdsa.PrivateKey) (*Session, error) {
	s := &Session{
		conn:     conn,
		state:    AwaitingHello,
		pending:  make(map[uint32]chan callOutcome),
		callChan: make(chan *call),
	}

	ephemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		return nil, err
	}

	hello, err := handshake.BuildHello(ephemeral.PublicKey(), association)
	if err != nil {
		return nil, err
	}

	if err := conn.Send(hello); err != nil {
		return nil, fmt.Errorf("sending HELLO_REQ: %w", err)
	}
	s.log().Debug("Sent HELLO_REQ")

	var reply []byte
	select {
	case data, ok := <-conn.Receive():
		if !ok {
			// The receive channel only closes after the terminal error
			// was buffered; a drop must never look like a bad HELLO_RSP.
			return nil, fmt.Errorf("%w: %v", ErrSessionClosed, <-conn.Err())
		}
		reply = data

	case err := <-conn.Err():
		return nil, fmt.Errorf("%w: %v", ErrSessionClosed, err)
	}

	s.key, err = handshake.ParseHelloReply(reply, &association.PublicKey, ephemeral)
	if err != nil {
		return nil, err
	}

	s.log().Debug("Derived session key")
	return s, nil
}

// log prepares a new log entry with the session's state attached.
func (s *Session) log() *log.Entry {
	return log.WithField("state", s.state)
}

// Run enters Ready, hands the bound wallet surface to scenario on its own
// goroutine and blocks until the session has fully torn down. Exactly one
// terminal outcome is returned: the scenario's result, or the first fatal
// error encountered. The connection is closed on every path.
func (s *Session) Run(scenario func(*Wallet) error) error {
	s.state = Ready
	s.log().Info("Session established")

	scenarioDone := make(chan error, 1)
	go func() {
		scenarioDone <- scenario(&Wallet{session: s})
	}()

	defer func() {
		s.state = Closed
		if err := s.conn.Close(); err != nil {
			s.log().WithError(err).Warn("Closing connection errored")
		}
		s.log().Info("Session closed")
	}()

	return s.loop(scenarioDone)
}

// loop is the session's run loop. It exits only once the scenario has
// completed, so a Wallet call never blocks on a vanished consumer.
func (s *Session) loop(scenarioDone <-chan error) error {
	var fatal error
	in := s.conn.Receive()
	errChan := s.conn.Err()

	for {
		select {
		case c := <-s.callChan:
			if fatal != nil {
				c.outcome <- callOutcome{err: ErrSessionClosed}
				continue
			}
			if err := s.dispatch(c); err != nil {
				fatal = err
				// Only the triggering call sees the specific error;
				// everything else pending is failed as closed.
				s.failPending(ErrSessionClosed)
				_ = s.conn.Close()
			}

		case data, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			if err := s.deliver(data); err != nil && fatal == nil {
				fatal = err
				s.failPending(ErrSessionClosed)
				_ = s.conn.Close()
			}

		case err := <-errChan:
			errChan = nil
			if fatal == nil {
				fatal = multierror.Append(ErrSessionClosed, err)
				s.log().WithError(err).Warn("Transport dropped, failing pending requests")
				s.failPending(ErrSessionClosed)
			}

		case scenarioErr := <-scenarioDone:
			s.failPending(ErrSessionClosed)
			if fatal != nil {
				return fatal
			}
			return scenarioErr
		}
	}
}

// dispatch assigns the next identifier, encrypts the request and registers
// its continuation. A non-nil error is fatal for the session.
func (s *Session) dispatch(c *call) error {
	if s.seq == math.MaxUint32 {
		c.outcome <- callOutcome{err: ErrSequenceOverflow}
		return ErrSequenceOverflow
	}
	s.seq += 1
	id := s.seq

	plaintext, err := json.Marshal(frame.Request{ID: id, Method: c.method, Params: c.params})
	if err != nil {
		c.outcome <- callOutcome{err: err}
		return nil
	}

	raw, err := frame.Encode(plaintext, id, s.key)
	if err != nil {
		c.outcome <- callOutcome{err: err}
		return nil
	}

	if err := s.conn.Send(raw); err != nil {
		c.outcome <- callOutcome{err: ErrSessionClosed}
		return multierror.Append(ErrSessionClosed, err)
	}

	s.pending[id] = c.outcome
	s.log().WithFields(log.Fields{"id": id, "method": c.method}).Debug("Sent request")
	return nil
}

// deliver decrypts an inbound frame and resolves the matching pending
// request. Responses are matched solely by identifier, so out-of-order
// delivery is fine. A decode failure is fatal; an unknown identifier is
// logged and dropped.
func (s *Session) deliver(data []byte) error {
	plaintext, seq, err := s.decodeFrame(data)
	if err != nil {
		s.log().WithError(err).Error("Decoding inbound frame errored")
		return err
	}

	resp, err := frame.ParseResponse(plaintext)
	if err != nil {
		s.log().WithError(err).WithField("seq", seq).Error("Parsing inbound envelope errored")
		return err
	}

	outcome, ok := s.pending[resp.ID]
	if !ok {
		s.log().WithField("id", resp.ID).Warn("Response matches no pending request")
		return nil
	}
	delete(s.pending, resp.ID)

	if resp.Error != nil {
		outcome <- callOutcome{err: resp.Error}
	} else {
		outcome <- callOutcome{result: resp.Result}
	}
	return nil
}

func (s *Session) decodeFrame(data []byte) ([]byte, uint32, error) {
	return frame.Decode(data, s.key)
}

// failPending drains the pending-request table, failing every outstanding
// entry. Each entry is removed exactly once.
func (s *Session) failPending(err error) {
	for id, outcome := range s.pending {
		delete(s.pending, id)
		outcome <- callOutcome{err: err}
	}
}

// submit hands a call to the run loop and awaits its outcome.
func (s *Session) submit(method string, params json.RawMessage) (json.RawMessage, error) {
	c := &call{
		method:  method,
		params:  params,
		outcome: make(chan callOutcome, 1),
	}

	s.callChan <- c
	outcome := <-c.outcome
	return outcome.result, outcome.err
}
