// Copyright (C) 2025 Pleme, Inc.
// See LICENSE for copying information.

package ratelimit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingTarget struct {
	sweeps int64
}

func (c *countingTarget) Sweep() { atomic.AddInt64(&c.sweeps, 1) }

func TestSweeperRejectsBadInterval(t *testing.T) {
	_, err := NewSweeper(zaptest.NewLogger(t), 0)
	require.Error(t, err)
	assert.True(t, Error.Has(err))
}

func TestSweeperRun(t *testing.T) {
	target := &countingTarget{}
	sweeper, err := NewSweeper(zaptest.NewLogger(t), 10*time.Millisecond, target)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&target.sweeps) >= 2
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestSweeperRunsAllTargets(t *testing.T) {
	rl := NewRequestLimiter(DefaultConfig())
	ll := NewLoginLimiter(DefaultConfig())
	sweeper, err := NewSweeper(zaptest.NewLogger(t), 5*time.Millisecond, rl, ll)
	require.NoError(t, err)

	require.NoError(t, rl.CheckRateLimit("key"))
	ll.RecordFailedAttempt("user")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = sweeper.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Fresh state survives sweeping.
	rl.mu.Lock()
	assert.Contains(t, rl.attempts, "key")
	rl.mu.Unlock()
	ll.mu.Lock()
	assert.Contains(t, ll.records, "user")
	ll.mu.Unlock()
}
