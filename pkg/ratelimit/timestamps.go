// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import "time"

// pruneBefore removes, in place, every timestamp at or before cutoff and
// returns the remaining ones.
//
// A timestamp recorded before the wall clock stepped backward sits in the
// future relative to now and compares as inside the window, so negative
// elapsed time behaves as zero. The limiter never rejects a request because
// the clock moved; entries just take real time to expire.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
