// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// mwa-demo runs one complete local association against an in-process
// wallet simulator: launch, handshake, an authorize call and a
// sign_messages call.
package main

import (
	"encoding/json"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/solana-mobile/mwa-go/pkg/association"
	"github.com/solana-mobile/mwa-go/pkg/session"
	"github.com/solana-mobile/mwa-go/pkg/walletsim"
)

// loopbackPlatform stands in for the OS URL dispatch: opening the
// invocation URL starts the wallet simulator in-process and the "app
// switch" is simulated by firing the focus-loss signal.
type loopbackPlatform struct {
	sim   *walletsim.Sim
	focus chan struct{}
}

func newLoopbackPlatform(sim *walletsim.Sim) *loopbackPlatform {
	return &loopbackPlatform{
		sim:   sim,
		focus: make(chan struct{}),
	}
}

func (platform *loopbackPlatform) OpenURL(url string) error {
	if err := platform.sim.LaunchURL(url); err != nil {
		return err
	}

	close(platform.focus)
	return nil
}

func (platform *loopbackPlatform) FocusLost() <-chan struct{} {
	return platform.focus
}

func scenario(wallet *session.Wallet) error {
	authParams := json.RawMessage(`{"identity":{"name":"mwa-demo"},"cluster":"devnet"}`)
	authResult, err := wallet.Authorize(authParams)
	if err != nil {
		return err
	}
	log.WithField("result", string(authResult)).Info("Authorized")

	signParams := json.RawMessage(`{"payloads":["aGVsbG8gd2FsbGV0"]}`)
	signResult, err := wallet.SignMessages(signParams)
	if err != nil {
		return err
	}
	log.WithField("result", string(signResult)).Info("Signed messages")

	return nil
}

func main() {
	var filename string
	switch len(os.Args) {
	case 1:
	case 2:
		filename = os.Args[1]
	default:
		log.Fatalf("Usage: %s [configuration.toml]", os.Args[0])
	}

	conf, err := parseConfig(filename)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse config")
	}

	sim := walletsim.New(nil)
	defer func() {
		if err := sim.Close(); err != nil {
			log.WithError(err).Warn("Closing wallet simulator errored")
		}
	}()

	config := association.Config{
		Platform:        newLoopbackPlatform(sim),
		Port:            conf.Association.Port,
		ConnectTimeout:  conf.Association.connectTimeout(),
		DetectionWindow: conf.Association.detectionWindow(),
	}

	if err := association.Associate(config, scenario); err != nil {
		log.WithError(err).Fatal("Association failed")
	}
	log.Info("Association finished")
}
