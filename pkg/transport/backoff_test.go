// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"testing"
	"time"
)

func TestBackoffSchedule(t *testing.T) {
	expected := []time.Duration{
		150 * time.Millisecond,
		150 * time.Millisecond,
		200 * time.Millisecond,
		500 * time.Millisecond,
		500 * time.Millisecond,
		750 * time.Millisecond,
		750 * time.Millisecond,
		1000 * time.Millisecond,
	}

	var backoff Backoff
	for i, delay := range expected {
		if next := backoff.Next(); next != delay {
			t.Fatalf("attempt %d: expected %v, got %v", i, delay, next)
		}
	}

	// Once exhausted, the last entry repeats.
	for i := 0; i < 5; i++ {
		if next := backoff.Next(); next != expected[len(expected)-1] {
			t.Fatalf("expected schedule tail %v, got %v", expected[len(expected)-1], next)
		}
	}
}
