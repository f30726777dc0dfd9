package controller

import (
	"sync"
	"time"

	"github.com/orionvision/orion/internal/clock"
)

// RateLimiter is a fixed-window action rate limiter for input devices.
// Physical input layers misbehave when flooded, so the keyboard controller
// throttles itself to a configured number of actions per second.
//
// The limiter is clock-driven rather than timer-driven so tests can control
// time precisely. Safe for concurrent use.
type RateLimiter struct {
	mu          sync.Mutex
	clk         clock.Clock
	maxPerSec   int
	windowStart time.Time
	count       int
}

// NewRateLimiter creates a limiter allowing maxPerSec actions per one-second
// window. A nil clk selects the real clock.
func NewRateLimiter(maxPerSec int, clk clock.Clock) *RateLimiter {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &RateLimiter{
		clk:       clk,
		maxPerSec: maxPerSec,
	}
}

// Allow consumes one action slot if the current window has capacity.
// It returns false when the window is exhausted.
func (l *RateLimiter) Allow() bool {
	allowed, _ := l.reserve()
	return allowed
}

// Wait returns the duration the caller must sleep before the next action
// slot opens, or zero if a slot was consumed immediately.
func (l *RateLimiter) Wait() time.Duration {
	allowed, wait := l.reserve()
	if allowed {
		return 0
	}
	return wait
}

// reserve consumes a slot when available; otherwise reports the time until
// the current window rolls over.
func (l *RateLimiter) reserve() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= time.Second {
		l.windowStart = now
		l.count = 0
	}

	if l.count < l.maxPerSec {
		l.count++
		return true, 0
	}

	return false, l.windowStart.Add(time.Second).Sub(now)
}

// WindowCount returns the number of actions consumed in the current window.
func (l *RateLimiter) WindowCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
