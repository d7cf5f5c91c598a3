// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package association_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/solana-mobile/mwa-go/pkg/association"
	"github.com/solana-mobile/mwa-go/pkg/session"
	"github.com/solana-mobile/mwa-go/pkg/transport"
	"github.com/solana-mobile/mwa-go/pkg/walletsim"
)

// loopbackPlatform starts a wallet simulator in-process when the invocation
// URL is opened and fires the focus-loss signal afterwards.
type loopbackPlatform struct {
	sim   *walletsim.Sim
	focus chan struct{}
}

func (p *loopbackPlatform) OpenURL(url string) error {
	if err := p.sim.LaunchURL(url); err != nil {
		return err
	}
	close(p.focus)
	return nil
}

func (p *loopbackPlatform) FocusLost() <-chan struct{} {
	return p.focus
}

func TestAssociateLoopback(t *testing.T) {
	sim := walletsim.New(nil)
	defer func() { _ = sim.Close() }()

	config := association.Config{
		Platform: &loopbackPlatform{sim: sim, focus: make(chan struct{})},
	}

	err := association.Associate(config, func(wallet *session.Wallet) error {
		result, err := wallet.Authorize(json.RawMessage(`{"cluster":"devnet"}`))
		if err != nil {
			return err
		}
		if string(result) != `{}` {
			t.Errorf("unexpected authorize result %s", result)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// inertPlatform opens nothing and never loses focus.
type inertPlatform struct{}

func (inertPlatform) OpenURL(string) error       { return nil }
func (inertPlatform) FocusLost() <-chan struct{} { return nil }

func TestAssociateHandlerNotFound(t *testing.T) {
	config := association.Config{
		Platform:        inertPlatform{},
		DetectionWindow: 50 * time.Millisecond,
	}

	err := association.Associate(config, func(*session.Wallet) error {
		t.Error("scenario must not run without a wallet")
		return nil
	})
	if !errors.Is(err, association.ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
}

func TestAssociateConnectTimeout(t *testing.T) {
	config := association.Config{
		Platform:       inertPlatform{},
		AssumeClaimed:  true,
		ConnectTimeout: 200 * time.Millisecond,
	}

	err := association.Associate(config, func(*session.Wallet) error {
		t.Error("scenario must not run without a connection")
		return nil
	})
	if !errors.Is(err, transport.ErrSessionTimeout) {
		t.Fatalf("expected ErrSessionTimeout, got %v", err)
	}
}
