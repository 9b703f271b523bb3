// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import "time"

// Config configures both the request and the login limiter.
//
// Values are used verbatim and never validated: a zero MaxRequestsPerWindow
// is an always-rejecting policy and a false Enabled admits everything.
// Consumers that want the documented defaults should start from
// DefaultConfig; binding these fields to flags or files is the consumer's
// job.
type Config struct {
	Enabled              bool          `help:"whether limits are enforced at all" default:"true"`
	MaxRequestsPerWindow uint          `help:"maximum requests admitted per key within the rate window" default:"100"`
	RateWindow           time.Duration `help:"trailing window requests and login failures are counted over" default:"60s"`
	MaxLoginAttempts     uint          `help:"failed login attempts within the rate window before lockout" default:"5"`
	LockoutDuration      time.Duration `help:"how long a locked account stays locked" default:"300s"`
}

// DefaultConfig returns the configuration used when a consumer overrides
// nothing.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		MaxRequestsPerWindow: 100,
		RateWindow:           60 * time.Second,
		MaxLoginAttempts:     5,
		LockoutDuration:      300 * time.Second,
	}
}
