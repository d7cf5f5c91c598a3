// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import "time"

// reconnectSchedule is the fixed delay sequence consumed between connection
// attempts. The wallet process may take variable time to start listening,
// so the schedule is front-loaded and then steadies; once exhausted, the
// last entry repeats.
var reconnectSchedule = []time.Duration{
	150 * time.Millisecond,
	150 * time.Millisecond,
	200 * time.Millisecond,
	500 * time.Millisecond,
	500 * time.Millisecond,
	750 * time.Millisecond,
	750 * time.Millisecond,
	1000 * time.Millisecond,
}

// Backoff walks the reconnect delay schedule. The zero value starts at the
// schedule's beginning.
type Backoff struct {
	attempt int
}

// Next returns the delay to wait before the upcoming retry.
func (b *Backoff) Next() time.Duration {
	i := b.attempt
	if i >= len(reconnectSchedule) {
		i = len(reconnectSchedule) - 1
	}
	b.attempt += 1

	return reconnectSchedule[i]
}
