// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import "encoding/json"

// Recognized application methods. Their parameters and results are opaque
// payloads which this client neither validates nor interprets.
const (
	MethodAuthorize               = "authorize"
	MethodReauthorize             = "reauthorize"
	MethodDeauthorize             = "deauthorize"
	MethodSignTransactions        = "sign_transactions"
	MethodSignMessages            = "sign_messages"
	MethodSignAndSendTransactions = "sign_and_send_transactions"
)

// Wallet is the remote-call surface bound to a Ready session. It is handed
// to the caller's scenario function and must not be used after the scenario
// returned.
type Wallet struct {
	session *Session
}

// Authorize requests authorization for this client.
func (w *Wallet) Authorize(params json.RawMessage) (json.RawMessage, error) {
	return w.session.submit(MethodAuthorize, params)
}

// Reauthorize renews a previously issued authorization.
func (w *Wallet) Reauthorize(params json.RawMessage) (json.RawMessage, error) {
	return w.session.submit(MethodReauthorize, params)
}

// Deauthorize revokes an authorization.
func (w *Wallet) Deauthorize(params json.RawMessage) (json.RawMessage, error) {
	return w.session.submit(MethodDeauthorize, params)
}

// SignTransactions asks the wallet to sign the given transaction payloads.
func (w *Wallet) SignTransactions(params json.RawMessage) (json.RawMessage, error) {
	return w.session.submit(MethodSignTransactions, params)
}

// SignMessages asks the wallet to sign the given message payloads.
func (w *Wallet) SignMessages(params json.RawMessage) (json.RawMessage, error) {
	return w.session.submit(MethodSignMessages, params)
}

// SignAndSendTransactions asks the wallet to sign and submit the given
// transaction payloads.
func (w *Wallet) SignAndSendTransactions(params json.RawMessage) (json.RawMessage, error) {
	return w.session.submit(MethodSignAndSendTransactions, params)
}
