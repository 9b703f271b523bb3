// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import (
	"sync"
	"time"
)

// LoginLimiter tracks failed login attempts per account identifier and locks
// an identifier out once too many failures happened inside the window.
//
// Checking and recording are separate on purpose: CheckLoginAttempt gates the
// attempt before credentials are verified, which stops lockout bypass by
// flooding attempts while verification is still running, and the
// authentication flow reports the real outcome afterwards through
// RecordFailedAttempt or ClearAttempts.
//
// All methods are safe for concurrent use.
type LoginLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	records map[string]*loginRecord
}

// loginRecord is the per-identifier state machine: unlocked while lockedUntil
// is zero, locked until that deadline otherwise. Attempts are frozen while
// locked.
type loginRecord struct {
	attempts    []time.Time
	lockedUntil time.Time
}

// NewLoginLimiter constructs a LoginLimiter. The configuration is taken
// verbatim, see Config.
func NewLoginLimiter(config Config) *LoginLimiter {
	return &LoginLimiter{
		config:  config,
		now:     time.Now,
		records: make(map[string]*loginRecord),
	}
}

// CheckLoginAttempt reports whether identifier may try to log in right now.
// It returns *LockedError while a lockout is in force, or when this check
// finds the failure budget already spent and transitions the identifier into
// lockout. A successful check is a permission, not an attempt: it records
// nothing.
//
// The first check after a lockout deadline passes clears the deadline and the
// whole attempt history, so the identifier starts over clean.
func (ll *LoginLimiter) CheckLoginAttempt(identifier string) error {
	if !ll.config.Enabled {
		return nil
	}

	ll.mu.Lock()
	defer ll.mu.Unlock()

	now := ll.now()
	rec := ll.records[identifier]
	if rec == nil {
		rec = &loginRecord{}
		ll.records[identifier] = rec
	}

	if !rec.lockedUntil.IsZero() {
		if now.Before(rec.lockedUntil) {
			return &LockedError{Until: rec.lockedUntil}
		}
		rec.lockedUntil = time.Time{}
		rec.attempts = rec.attempts[:0]
	}

	rec.attempts = pruneBefore(rec.attempts, now.Add(-ll.config.RateWindow))

	if uint(len(rec.attempts)) >= ll.config.MaxLoginAttempts {
		rec.lockedUntil = now.Add(ll.config.LockoutDuration)
		mon.Meter("account_locked").Mark(1)
		return &LockedError{Until: rec.lockedUntil}
	}

	return nil
}

// RecordFailedAttempt records a verified login failure for identifier. It
// never evaluates the lockout transition itself; the next CheckLoginAttempt
// does that.
func (ll *LoginLimiter) RecordFailedAttempt(identifier string) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	rec := ll.records[identifier]
	if rec == nil {
		rec = &loginRecord{}
		ll.records[identifier] = rec
	}
	rec.attempts = append(rec.attempts, ll.now())
}

// ClearAttempts forgets identifier entirely, attempts and lockout both. Call
// it after a successful authentication; afterwards the identifier is
// indistinguishable from one never seen.
func (ll *LoginLimiter) ClearAttempts(identifier string) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	delete(ll.records, identifier)
}

// Sweep drops identifiers that carry no state worth keeping: stale attempts
// are pruned and records left with no attempts and no active lockout are
// removed. An actively locked identifier is kept untouched; the
// history-clearing transition out of lockout happens only in
// CheckLoginAttempt, never here.
func (ll *LoginLimiter) Sweep() {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	now := ll.now()
	cutoff := now.Add(-ll.config.RateWindow)
	for identifier, rec := range ll.records {
		if !rec.lockedUntil.IsZero() && now.Before(rec.lockedUntil) {
			continue
		}
		rec.attempts = pruneBefore(rec.attempts, cutoff)
		if len(rec.attempts) == 0 {
			delete(ll.records, identifier)
		}
	}
}
