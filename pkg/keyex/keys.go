// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package keyex bundles the stateless cryptographic primitives of the local
// association protocol: key generation, signing, key agreement, key
// derivation and authenticated encryption. No function in this package
// retains state between calls.
package keyex

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

const (
	// PublicPointLen is the length of an X9.62 uncompressed P-256 point,
	// the wire encoding for every public key of the protocol.
	PublicPointLen = 65

	// SessionKeyLen is the length of a derived symmetric session key,
	// sized for AES-128.
	SessionKeyLen = 16
)

// GenerateAssociationKey returns a fresh ECDSA P-256 signing keypair. Its
// public half is exported into the association URL, its private half signs
// the ephemeral key exchange. The keypair lives for one session attempt and
// is never persisted.
func GenerateAssociationKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// GenerateEphemeralKey returns a fresh ECDH P-256 key agreement keypair.
func GenerateEphemeralKey() (*ecdh.PrivateKey, error) {
	return ecdh.P256().GenerateKey(rand.Reader)
}

// PublicPoint exports pub as an X9.62 uncompressed point.
func PublicPoint(pub *ecdsa.PublicKey) ([]byte, error) {
	ecdhPub, err := pub.ECDH()
	if err != nil {
		return nil, fmt.Errorf("exporting public point: %w", err)
	}
	return ecdhPub.Bytes(), nil
}

// ParsePublicPoint parses an X9.62 uncompressed point back into an ECDSA
// public key, rejecting encodings that are not on the curve.
func ParsePublicPoint(point []byte) (*ecdsa.PublicKey, error) {
	if len(point) != PublicPointLen {
		return nil, fmt.Errorf("public point must be %d bytes, got %d", PublicPointLen, len(point))
	}
	if _, err := ecdh.P256().NewPublicKey(point); err != nil {
		return nil, fmt.Errorf("invalid P-256 point: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(point[1:33]),
		Y:     new(big.Int).SetBytes(point[33:]),
	}, nil
}

// Sign signs SHA-256(data) with the association private key. The signature
// is ASN.1 DER encoded.
func Sign(priv *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	return ecdsa.SignASN1(rand.Reader, priv, digest[:])
}

// Verify reports whether sig is a valid signature over data under pub.
func Verify(pub *ecdsa.PublicKey, data, sig []byte) bool {
	digest := sha256.Sum256(data)
	return ecdsa.VerifyASN1(pub, digest[:], sig)
}

// SharedSecret performs the ECDH exchange between the local ephemeral
// private key and a remote public point.
func SharedSecret(priv *ecdh.PrivateKey, remotePoint []byte) ([]byte, error) {
	remote, err := ecdh.P256().NewPublicKey(remotePoint)
	if err != nil {
		return nil, fmt.Errorf("remote public point: %w", err)
	}
	return priv.ECDH(remote)
}

// DeriveKey expands a shared secret into a SessionKeyLen byte symmetric key
// via HKDF-SHA256 with the given salt and an empty info string. Binding the
// association public point in as salt ties the resulting key to the claimed
// identity.
func DeriveKey(secret, salt []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty shared secret")
	}

	key := make([]byte, SessionKeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, nil), key); err != nil {
		return nil, err
	}
	return key, nil
}
