// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handshake builds and parses the unencrypted HELLO exchange which
// opens every association session. The client proves possession of the
// association key by signing its ephemeral public point; the wallet's reply
// contributes the remote half of the key agreement. Binding the association
// public point into the key derivation as salt makes the session key
// unusable without that proof, which is what authenticates the otherwise
// unauthenticated ephemeral exchange.
package handshake

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
)

// SessionKey is the symmetric key negotiated for exactly one session. It is
// never renegotiated and never written to persistent storage.
type SessionKey []byte

// ErrMalformedHandshake is returned for a HELLO reply that is too short or
// does not carry a usable public point.
var ErrMalformedHandshake = errors.New("malformed handshake reply")

// BuildHello assembles HELLO_REQ: the ephemeral public point followed by
// the association signature over it.
func BuildHello(ephemeralPub *ecdh.PublicKey, associationPriv *ecdsa.PrivateKey) ([]byte, error) {
	point := ephemeralPub.Bytes()

	sig, err := keyex.Sign(associationPriv, point)
	if err != nil {
		return nil, fmt.Errorf("signing ephemeral point: %w", err)
	}

	return append(point, sig...), nil
}

// ParseHelloReply validates HELLO_RSP and derives the session key. The
// reply must carry at least one encoded public point; any trailing
// verification material is ignored. The local ephemeral private key must
// not be retained by the caller afterwards.
func ParseHelloReply(raw []byte, associationPub *ecdsa.PublicKey, ephemeralPriv *ecdh.PrivateKey) (SessionKey, error) {
	if len(raw) < keyex.PublicPointLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedHandshake, len(raw), keyex.PublicPointLen)
	}

	secret, err := keyex.SharedSecret(ephemeralPriv, raw[:keyex.PublicPointLen])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHandshake, err)
	}

	salt, err := keyex.PublicPoint(associationPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHandshake, err)
	}

	key, err := keyex.DeriveKey(secret, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHandshake, err)
	}
	return SessionKey(key), nil
}
