// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package association implements the local association flow: composing and
// launching the wallet invocation URL, and the Associate entry point which
// wires launcher, transport, handshake and session into one protocol run.
package association

import (
	"crypto/ecdsa"
	"encoding/base64"
	"net/url"
	"strconv"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
)

const (
	// Scheme is the custom URL scheme claimed by wallet applications.
	Scheme = "solana-wallet"

	// associatePath selects the local, WebSocket-based association flow.
	associatePath = "/v1/associate/local"

	// protocolVersion is the version tag carried in the invocation URL.
	protocolVersion = "v1"
)

// PortLo and PortHi delimit the ephemeral port range an association port is
// drawn from.
const (
	PortLo uint16 = 49152
	PortHi uint16 = 65535
)

// AssociationToken encodes the association public key the way it travels
// inside the invocation URL: the X9.62 uncompressed point, base64
// URL-encoded without padding.
func AssociationToken(associationPub *ecdsa.PublicKey) (string, error) {
	point, err := keyex.PublicPoint(associationPub)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(point), nil
}

// AssociationURL composes the custom-scheme invocation URL carrying the
// association token, the chosen port and the protocol version tag.
func AssociationURL(associationPub *ecdsa.PublicKey, port uint16) (string, error) {
	token, err := AssociationToken(associationPub)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("association", token)
	query.Set("port", strconv.Itoa(int(port)))
	query.Set("v", protocolVersion)

	// OmitHost keeps the canonical scheme:/path form instead of scheme:///path.
	u := url.URL{
		Scheme:   Scheme,
		OmitHost: true,
		Path:     associatePath,
		RawQuery: query.Encode(),
	}
	return u.String(), nil
}
