package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBackoff_ClimbsTheRunLoopLadder(t *testing.T) {
	// Run starts at 200ms after any failure, doubles per consecutive
	// failure, and holds at the 5s ceiling; a successful cycle resets it.
	const ceiling = 5 * time.Second

	backoff := 200 * time.Millisecond
	var ladder []time.Duration
	for range [7]struct{}{} {
		ladder = append(ladder, backoff)
		backoff = nextBackoff(backoff, ceiling)
	}

	assert.Equal(t, []time.Duration{
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
		5 * time.Second,
		5 * time.Second,
	}, ladder)
}

func TestSleepWithContext(t *testing.T) {
	t.Run("completes after the delay", func(t *testing.T) {
		assert.True(t, sleepWithContext(context.Background(), time.Millisecond))
	})

	t.Run("aborts on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.False(t, sleepWithContext(ctx, time.Minute))
	})

	t.Run("zero delay never blocks", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.True(t, sleepWithContext(ctx, 0))
	})
}
