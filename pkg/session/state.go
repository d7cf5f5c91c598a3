// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

// State describes the lifecycle position of a Session. A Session only ever
// moves forward; there is no way back into an earlier State.
//
// The positions before AwaitingHello are owned by the association flow and
// the transport; a Session value is only constructed once its socket is
// open. Idle and Connecting are listed anyway so the whole lifecycle shares
// one vocabulary in log output.
type State int

const (
	// Idle is the initial State before any connection attempt.
	Idle State = iota

	// Connecting means the transport is dialing the wallet endpoint.
	Connecting State = iota

	// AwaitingHello means the socket is open and HELLO_REQ was sent, but
	// the wallet's reply is still outstanding.
	AwaitingHello State = iota

	// Ready describes an established session with a negotiated key,
	// allowing application requests to be exchanged.
	Ready State = iota

	// Closed is the final State, entered on completion or on the first
	// fatal error.
	Closed State = iota
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case AwaitingHello:
		return "awaiting hello"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return "INVALID"
	}
}
