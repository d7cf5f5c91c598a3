// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package keyex

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomNonce returns a fresh NonceLen byte nonce.
func RandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// RandomPort draws a uniformly random port from [lo, hi], both inclusive.
func RandomPort(lo, hi uint16) (uint16, error) {
	if hi < lo {
		return 0, fmt.Errorf("invalid port range [%d, %d]", lo, hi)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo)+1))
	if err != nil {
		return 0, err
	}
	return lo + uint16(n.Int64()), nil
}
