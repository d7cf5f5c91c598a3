// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package keyex

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// NonceLen is the AES-GCM nonce length used on every frame.
const NonceLen = 12

// ErrDecrypt is returned when an authentication tag does not verify. It is
// non-retryable; a frame failing authentication never yields plaintext.
var ErrDecrypt = errors.New("frame failed authentication")

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under key with the given nonce and additional
// authenticated data using AES-GCM. The authentication tag is appended to
// the returned ciphertext.
func Seal(key, nonce, plaintext, aad []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

// Open decrypts and authenticates ciphertext. A tag mismatch surfaces as
// ErrDecrypt, never as corrupted plaintext.
func Open(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
