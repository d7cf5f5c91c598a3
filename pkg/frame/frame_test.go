// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/solana-mobile/mwa-go/pkg/keyex"
)

var testKey = bytes.Repeat([]byte{0x42}, keyex.SessionKeyLen)

func TestFrameRoundtrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{"id":1,"method":"authorize"}`),
		[]byte(`{}`),
		{},
	}

	for _, payload := range payloads {
		for _, seq := range []uint32{0, 1, 4711, 1<<32 - 1} {
			raw, err := Encode(payload, seq, testKey)
			if err != nil {
				t.Fatal(err)
			}

			plaintext, gotSeq, err := Decode(raw, testKey)
			if err != nil {
				t.Fatal(err)
			}
			if gotSeq != seq {
				t.Fatalf("expected seq %d, got %d", seq, gotSeq)
			}
			if !bytes.Equal(plaintext, payload) {
				t.Fatalf("expected payload %q, got %q", payload, plaintext)
			}
		}
	}
}

func TestFrameTampering(t *testing.T) {
	raw, err := Encode([]byte(`{"id":7}`), 7, testKey)
	if err != nil {
		t.Fatal(err)
	}

	// Flipping any bit, in the ciphertext or in the cleartext sequence
	// number, must fail authentication.
	for _, offset := range []int{0, headerLen, len(raw) - 1} {
		tampered := append([]byte{}, raw...)
		tampered[offset] ^= 0x01

		if _, _, err := Decode(tampered, testKey); !errors.Is(err, keyex.ErrDecrypt) {
			t.Fatalf("offset %d: expected ErrDecrypt, got %v", offset, err)
		}
	}
}

func TestFrameWrongKey(t *testing.T) {
	raw, err := Encode([]byte(`{"id":7}`), 7, testKey)
	if err != nil {
		t.Fatal(err)
	}

	otherKey := bytes.Repeat([]byte{0x23}, keyex.SessionKeyLen)
	if _, _, err := Decode(raw, otherKey); !errors.Is(err, keyex.ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestFrameTruncated(t *testing.T) {
	for _, length := range []int{0, seqLen, headerLen - 1} {
		if _, _, err := Decode(make([]byte, length), testKey); !errors.Is(err, ErrTruncated) {
			t.Fatalf("length %d: expected ErrTruncated, got %v", length, err)
		}
	}
}
