// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package frame implements the encrypted application frame of the local
// association protocol. A frame is, in order: the big-endian sequence
// number, the AES-GCM nonce and the ciphertext with its trailing
// authentication tag. The transport is message-delimited, so no length
// prefix is carried.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
)

const (
	seqLen    = 4
	headerLen = seqLen + keyex.NonceLen
)

// ErrTruncated is returned for frames shorter than the fixed header.
var ErrTruncated = errors.New("frame shorter than header")

// Encode seals plaintext into a wire frame. The sequence number is carried
// in clear and doubles as additional authenticated data, binding the frame
// to its position in the stream against reordering and replay.
func Encode(plaintext []byte, seq uint32, key []byte) ([]byte, error) {
	var seqBytes [seqLen]byte
	binary.BigEndian.PutUint32(seqBytes[:], seq)

	nonce, err := keyex.RandomNonce()
	if err != nil {
		return nil, err
	}

	ciphertext, err := keyex.Seal(key, nonce, plaintext, seqBytes[:])
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 0, headerLen+len(ciphertext))
	raw = append(raw, seqBytes[:]...)
	raw = append(raw, nonce...)
	raw = append(raw, ciphertext...)
	return raw, nil
}

// Decode splits a frame into its fields and decrypts the ciphertext,
// authenticating it against the leading sequence bytes. A tampered frame
// fails with keyex.ErrDecrypt.
func Decode(raw, key []byte) (plaintext []byte, seq uint32, err error) {
	if len(raw) < headerLen {
		err = fmt.Errorf("%w: %d bytes", ErrTruncated, len(raw))
		return
	}

	seq = binary.BigEndian.Uint32(raw[:seqLen])
	nonce := raw[seqLen:headerLen]

	plaintext, err = keyex.Open(key, nonce, raw[headerLen:], raw[:seqLen])
	return
}
