// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package handshake

import (
	"bytes"
	"errors"
	"testing"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
)

func TestBuildHello(t *testing.T) {
	association, err := keyex.GenerateAssociationKey()
	if err != nil {
		t.Fatal(err)
	}
	ephemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		t.Fatal(err)
	}

	hello, err := BuildHello(ephemeral.PublicKey(), association)
	if err != nil {
		t.Fatal(err)
	}
	if len(hello) <= keyex.PublicPointLen {
		t.Fatalf("HELLO_REQ of %d bytes carries no signature", len(hello))
	}

	point, sig := hello[:keyex.PublicPointLen], hello[keyex.PublicPointLen:]
	if !bytes.Equal(point, ephemeral.PublicKey().Bytes()) {
		t.Fatal("HELLO_REQ does not start with the ephemeral point")
	}
	if !keyex.Verify(&association.PublicKey, point, sig) {
		t.Fatal("HELLO_REQ signature does not verify")
	}
}

func TestParseHelloReplyShort(t *testing.T) {
	association, err := keyex.GenerateAssociationKey()
	if err != nil {
		t.Fatal(err)
	}
	ephemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		t.Fatal(err)
	}

	for _, length := range []int{0, 1, keyex.PublicPointLen - 1} {
		_, err := ParseHelloReply(make([]byte, length), &association.PublicKey, ephemeral)
		if !errors.Is(err, ErrMalformedHandshake) {
			t.Fatalf("length %d: expected ErrMalformedHandshake, got %v", length, err)
		}
	}
}

func TestParseHelloReplyInvalidPoint(t *testing.T) {
	association, err := keyex.GenerateAssociationKey()
	if err != nil {
		t.Fatal(err)
	}
	ephemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		t.Fatal(err)
	}

	garbage := make([]byte, keyex.PublicPointLen)
	garbage[0] = 0x04

	if _, err := ParseHelloReply(garbage, &association.PublicKey, ephemeral); !errors.Is(err, ErrMalformedHandshake) {
		t.Fatalf("expected ErrMalformedHandshake, got %v", err)
	}
}

// TestHelloKeyAgreement plays both roles of the exchange and checks that
// client and wallet derive the same session key.
func TestHelloKeyAgreement(t *testing.T) {
	association, err := keyex.GenerateAssociationKey()
	if err != nil {
		t.Fatal(err)
	}
	clientEphemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		t.Fatal(err)
	}

	hello, err := BuildHello(clientEphemeral.PublicKey(), association)
	if err != nil {
		t.Fatal(err)
	}

	// Wallet side: verify the signature, contribute an ephemeral key and
	// derive with the association point as salt.
	clientPoint := hello[:keyex.PublicPointLen]
	if !keyex.Verify(&association.PublicKey, clientPoint, hello[keyex.PublicPointLen:]) {
		t.Fatal("wallet rejects HELLO_REQ signature")
	}

	walletEphemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		t.Fatal(err)
	}
	walletSecret, err := keyex.SharedSecret(walletEphemeral, clientPoint)
	if err != nil {
		t.Fatal(err)
	}
	salt, err := keyex.PublicPoint(&association.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	walletKey, err := keyex.DeriveKey(walletSecret, salt)
	if err != nil {
		t.Fatal(err)
	}

	clientKey, err := ParseHelloReply(walletEphemeral.PublicKey().Bytes(), &association.PublicKey, clientEphemeral)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(clientKey, walletKey) {
		t.Fatal("client and wallet derived different session keys")
	}
	if len(clientKey) != keyex.SessionKeyLen {
		t.Fatalf("expected %d key bytes, got %d", keyex.SessionKeyLen, len(clientKey))
	}
}
