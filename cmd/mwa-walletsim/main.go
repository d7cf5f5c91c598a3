// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// mwa-walletsim serves a local wallet endpoint answering association
// sessions with canned results, for developing and testing clients without
// a real wallet app.
package main

import (
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"

	"github.com/solana-mobile/mwa-go/pkg/walletsim"
)

// waitSigint blocks the current thread until a SIGINT appears.
func waitSigint() {
	signalSyn := make(chan os.Signal, 1)
	signalAck := make(chan struct{})

	signal.Notify(signalSyn, os.Interrupt)

	go func() {
		<-signalSyn
		close(signalAck)
	}()

	<-signalAck
}

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Usage: %s configuration.toml", os.Args[0])
	}

	conf, err := parseConfig(os.Args[1])
	if err != nil {
		log.WithError(err).Fatal("Failed to parse config")
	}

	sim := walletsim.New(nil)
	if err := sim.Start(conf.Endpoint.Association, conf.Endpoint.Port); err != nil {
		log.WithError(err).Fatal("Failed to start wallet endpoint")
	}

	waitSigint()
	log.Info("Shutting down..")

	if err := sim.Close(); err != nil {
		log.WithError(err).Warn("Shutdown errored")
	}
}
