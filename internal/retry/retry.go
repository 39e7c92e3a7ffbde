// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry re-runs operations that fail with transient errors.
package retry

import (
	"context"
	"math"
	"time"
)

// BaseDelay controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var BaseDelay = 50 * time.Millisecond

const defaultMaxRetries = 5

// Policy decides how often and on which errors an operation is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// uses the default (5).
	MaxRetries int

	// BaseDelay overrides the package BaseDelay when positive.
	BaseDelay time.Duration

	// Retryable reports whether err is transient. A nil Retryable never
	// retries.
	Retryable func(err error) bool
}

// Do runs fn and retries it while it returns a retryable error. The delay
// starts at the policy's base delay and doubles each attempt. If the context is
// cancelled during a backoff wait Do returns ctx.Err(). After exhausting
// retries the last error is returned unchanged.
func Do(ctx context.Context, p Policy, fn func() error) error {
	maxRetries := p.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := p.BaseDelay
	if base <= 0 {
		base = BaseDelay
	}

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) || attempt >= maxRetries {
			return err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * base
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
