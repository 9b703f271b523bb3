// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import (
	"sync"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
)

var mon = monkit.Package()

// RequestLimiter admits or rejects requests per key using a sliding-window
// counter: the window boundary is now minus the configured window, recomputed
// on every check, which gives smooth decay instead of bucket-edge bursts.
//
// One RequestLimiter is meant to be shared by all request handling
// goroutines; all methods are safe for concurrent use. Operations on the same
// key are serialized in arrival order.
type RequestLimiter struct {
	config Config
	now    func() time.Time

	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewRequestLimiter constructs a RequestLimiter. The configuration is taken
// verbatim, see Config.
func NewRequestLimiter(config Config) *RequestLimiter {
	return &RequestLimiter{
		config:   config,
		now:      time.Now,
		attempts: make(map[string][]time.Time),
	}
}

// CheckRateLimit admits the request identified by key and records it, or
// returns *ExceededError when key has already used up its budget for the
// current window. Rejected requests are not recorded and never count toward
// future windows.
//
// When limiting is disabled the check succeeds without any bookkeeping.
func (rl *RequestLimiter) CheckRateLimit(key string) error {
	if !rl.config.Enabled {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := pruneBefore(rl.attempts[key], now.Add(-rl.config.RateWindow))

	if uint(len(recent)) >= rl.config.MaxRequestsPerWindow {
		rl.attempts[key] = recent
		mon.Meter("request_rejected").Mark(1)
		return &ExceededError{
			Limit:  rl.config.MaxRequestsPerWindow,
			Window: rl.config.RateWindow,
		}
	}

	rl.attempts[key] = append(recent, now)
	return nil
}

// Sweep drops every timestamp that fell out of the window and every key left
// without timestamps. It only bounds memory; checks prune lazily on their
// own, so skipping Sweep never affects their outcome.
func (rl *RequestLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.config.RateWindow)
	for key, ts := range rl.attempts {
		if recent := pruneBefore(ts, cutoff); len(recent) > 0 {
			rl.attempts[key] = recent
		} else {
			delete(rl.attempts, key)
		}
	}
}
