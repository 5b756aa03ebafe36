// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry wraps operations that perform external I/O with a bounded
// number of attempts and capped exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultMaxAttempts = 5
	defaultInitial     = time.Second
	defaultMax         = 60 * time.Second
)

// Policy bounds a retried operation. The wait before attempt n+1 is
// Initial * 2^(n-1), never more than Max.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
}

// DefaultPolicy returns 5 attempts with waits of 1s, 2s, 4s, 8s (cap 60s).
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: defaultMaxAttempts,
		Initial:     defaultInitial,
		Max:         defaultMax,
	}
}

// withDefaults fills zero fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Initial <= 0 {
		p.Initial = d.Initial
	}
	if p.Max <= 0 {
		p.Max = d.Max
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
	return p
}

// Notify is called after a failed attempt, before waiting.
type Notify func(attempt int, err error, wait time.Duration)

// Do runs op until it succeeds or the policy's attempts are exhausted. The
// error returned after exhaustion wraps the last error from op. A cancelled
// context stops the retries and its cause is returned.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), notify Notify) (T, error) {
	p = p.withDefaults()

	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.Initial,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         p.Max,
	}
	b.Reset()

	attempt := 0
	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			notify(attempt, err, wait)
		}))
	}

	res, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		return op(ctx)
	}, opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, fmt.Errorf("after %d attempts: %w", attempt, err)
	}
	return res, nil
}
