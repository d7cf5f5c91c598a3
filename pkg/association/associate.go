// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package association

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
	"github.com/solana-mobile/mwa-go/pkg/session"
	"github.com/solana-mobile/mwa-go/pkg/transport"
)

// Config parameterizes one association run. Platform is the only required
// field; zero values select the protocol defaults.
type Config struct {
	// Platform supplies the URL trigger and focus-loss capabilities.
	Platform Platform

	// Port fixes the association port. Zero draws a random port from the
	// ephemeral range.
	Port uint16

	// ConnectTimeout bounds the transport's retrying, measured from the
	// first connection attempt.
	ConnectTimeout time.Duration

	// DetectionWindow bounds the launcher's focus-loss detection.
	DetectionWindow time.Duration

	// AssumeClaimed disables focus-loss detection, see Launcher.
	AssumeClaimed bool
}

// Associate performs one complete local association: it generates the
// session's association keypair, launches the wallet, connects, performs
// the HELLO exchange and runs scenario against the Ready session.
//
// Exactly one terminal outcome is returned, either scenario's result or the
// first fatal error, and the socket is closed exactly once on every path.
func Associate(config Config, scenario func(*session.Wallet) error) error {
	association, err := keyex.GenerateAssociationKey()
	if err != nil {
		return err
	}

	port := config.Port
	if port == 0 {
		if port, err = keyex.RandomPort(PortLo, PortHi); err != nil {
			return err
		}
	}

	invocationURL, err := AssociationURL(&association.PublicKey, port)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"url":  invocationURL,
		"port": port,
	}).Info("Starting local association")

	launcher := Launcher{
		Platform:      config.Platform,
		Window:        config.DetectionWindow,
		AssumeClaimed: config.AssumeClaimed,
	}
	if err := launcher.Launch(invocationURL); err != nil {
		return err
	}

	conn, err := transport.Connect(transport.Endpoint(port), config.ConnectTimeout)
	if err != nil {
		return err
	}
	defer func() {
		// Session.Run closes on its paths as well; Close is idempotent.
		_ = conn.Close()
	}()

	sess, err := session.Establish(conn, association)
	if err != nil {
		return err
	}

	return sess.Run(scenario)
}
