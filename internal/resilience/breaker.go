// Package resilience provides reliability patterns for external service calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker is a consecutive-failure circuit breaker. After maxFailures failed
// calls in a row it rejects everything for the cooldown period, then admits
// probe calls until one succeeds and the run of failures resets.
//
// State is derived rather than stored: a zero openedAt means closed, a recent
// openedAt means open, an expired one means probing (half-open).
type Breaker struct {
	mu          sync.Mutex
	failures    int
	openedAt    time.Time // zero while closed
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time // for testing
}

// NewBreaker creates a circuit breaker that opens after maxFailures
// consecutive failures and admits probes again once cooldown has elapsed.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// Execute runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without invoking fn.
func (b *Breaker) Execute(fn func() error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}
	err := fn()
	b.record(err)
	return err
}

// State reports the current circuit state as a label: "closed", "open" or
// "half-open".
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.openedAt.IsZero():
		return "closed"
	case b.now().Sub(b.openedAt) >= b.cooldown:
		return "half-open"
	default:
		return "open"
	}
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openedAt.IsZero() || b.now().Sub(b.openedAt) >= b.cooldown
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.openedAt = time.Time{}
		return
	}

	b.failures++
	// A failed probe reopens immediately; a closed circuit opens only once
	// the run of failures reaches the threshold.
	if !b.openedAt.IsZero() || b.failures >= b.maxFailures {
		b.openedAt = b.now()
	}
}
