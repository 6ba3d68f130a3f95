// Package git holds shared plumbing for invoking the git binary.
package git

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of git subprocesses in flight. A dashboard refresh
// fans out one status query per project; without a bound a large workspace
// would fork dozens of git processes at once.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a Pool admitting at most limit concurrent operations.
// Limits below one are clamped to one.
func NewPool(limit int) *Pool {
	return &Pool{sem: semaphore.NewWeighted(int64(max(limit, 1)))}
}

// Run executes fn once a slot is free, blocking while the pool is full.
// It returns ctx.Err() when the caller gives up waiting, otherwise fn's
// error. A nil Pool runs fn unbounded.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	if p == nil || p.sem == nil {
		return fn()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
