// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package walletsim

import (
	"encoding/base64"
	"testing"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
	"github.com/solana-mobile/mwa-go/pkg/session"
)

func validToken(t *testing.T) string {
	association, err := keyex.GenerateAssociationKey()
	if err != nil {
		t.Fatal(err)
	}
	point, err := keyex.PublicPoint(&association.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	return base64.RawURLEncoding.EncodeToString(point)
}

func TestStartInvalidToken(t *testing.T) {
	if err := New(nil).Start("not base64url!", 0); err == nil {
		t.Fatal("expected error for invalid base64")
	}

	// Valid base64, but not a curve point.
	garbage := base64.RawURLEncoding.EncodeToString(make([]byte, keyex.PublicPointLen))
	if err := New(nil).Start(garbage, 0); err == nil {
		t.Fatal("expected error for invalid point")
	}
}

func TestLaunchURL(t *testing.T) {
	sim := New(nil)
	url := "solana-wallet:/v1/associate/local?association=" + validToken(t) + "&port=0&v=v1"
	if err := sim.LaunchURL(url); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sim.Close() }()

	if sim.Port() == 0 {
		t.Fatal("expected a bound port")
	}
}

func TestLaunchURLBadPort(t *testing.T) {
	url := "solana-wallet:/v1/associate/local?association=" + validToken(t) + "&port=99999&v=v1"
	if err := New(nil).LaunchURL(url); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestDefaultHandler(t *testing.T) {
	for _, method := range []string{
		session.MethodAuthorize,
		session.MethodReauthorize,
		session.MethodDeauthorize,
		session.MethodSignTransactions,
		session.MethodSignMessages,
		session.MethodSignAndSendTransactions,
	} {
		result, respErr := DefaultHandler(method, nil)
		if respErr != nil {
			t.Fatalf("method %q: unexpected error %v", method, respErr)
		}
		if string(result) != `{}` {
			t.Fatalf("method %q: unexpected result %s", method, result)
		}
	}

	if _, respErr := DefaultHandler("mint_money", nil); respErr == nil || respErr.Code != -32601 {
		t.Fatalf("expected error code -32601, got %v", respErr)
	}
}
