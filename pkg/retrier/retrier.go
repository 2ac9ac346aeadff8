// Package retrier describes retry policies independently of the backoff
// implementation that runs them.
package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type ShouldRetryFunc func(error) bool

// OnRetryFunc observes a failed attempt before the retrier sleeps for next.
type OnRetryFunc func(err error, next time.Duration)

// Config describes an exponential backoff policy.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64

	// MaxRetries caps the number of retries on top of the first attempt.
	// Zero means only MaxElapsedTime bounds the loop.
	MaxRetries uint64

	// nil retries every error; otherwise only errors for which it returns true.
	ShouldRetry ShouldRetryFunc

	// OnRetry is optional. It is not called for the final failure.
	OnRetry OnRetryFunc
}
