// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

// Package ratelimit implements in-process admission control: a sliding-window
// request limiter and a login limiter with account lockout.
//
// Both limiters track per-key activity in memory, guarded by a single mutex,
// and are meant to be shared across all request handling goroutines of one
// process. There is no cross-instance coordination.
//
// A key is a caller-supplied string that partitions the tracked state,
// typically "clientIP:path" for requests and an account identifier for
// logins.
//
// The login limiter separates checking from recording: CheckLoginAttempt
// gates an attempt before credentials are verified, and the authentication
// flow reports the real outcome afterwards through RecordFailedAttempt or
// ClearAttempts. The limiter never infers success or failure on its own.
//
// Both limiters expose Sweep to evict stale per-key state. Sweeping only
// bounds memory growth; checks prune lazily and stay correct without it. The
// Sweeper type runs Sweep on a fixed cadence.
package ratelimit
