// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import (
	"fmt"
	"time"

	"github.com/zeebo/errs"
)

// Error is the error class for this package.
var Error = errs.Class("ratelimit")

// ExceededError is returned by CheckRateLimit when a key has used up its
// request budget for the current window. It is an expected business outcome,
// not a fault; Limit and Window carry the configured values for composing a
// response.
type ExceededError struct {
	Limit  uint
	Window time.Duration
}

// Error implements the error interface.
func (e *ExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded: maximum %d requests per %s", e.Limit, e.Window)
}

// LockedError is returned by CheckLoginAttempt while an identifier is locked
// out, whether the lockout was already in force or this check triggered it.
// Until is the time the lockout expires.
type LockedError struct {
	Until time.Time
}

// Error implements the error interface.
func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

// RemainingAt returns how long the lockout is still in force at now, or zero
// when it has already expired.
func (e *LockedError) RemainingAt(now time.Time) time.Duration {
	if d := e.Until.Sub(now); d > 0 {
		return d
	}
	return 0
}
