// Package backoff_adapter runs retrier.Config policies on cenkalti/backoff.
package backoff_adapter

import (
	"context"

	"dispatch/pkg/retrier"

	"github.com/cenkalti/backoff/v4"
)

type Retrier struct {
	config retrier.Config
}

func New(config retrier.Config) *Retrier {
	return &Retrier{config: config}
}

// ExecuteWithContext calls fn until it succeeds, the policy gives up, ctx is
// done, or ShouldRetry rejects the error. The last error is returned
// unwrapped.
func (r *Retrier) ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error {
	return backoff.RetryNotify(r.operation(ctx, fn), backoff.WithContext(r.policy(), ctx), backoff.Notify(r.config.OnRetry))
}

func (r *Retrier) policy() backoff.BackOff {
	var b backoff.BackOff = backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.config.InitialInterval),
		backoff.WithMaxInterval(r.config.MaxInterval),
		backoff.WithMaxElapsedTime(r.config.MaxElapsedTime),
		backoff.WithRandomizationFactor(r.config.Randomization),
		backoff.WithMultiplier(r.config.Multiplier),
	)
	if r.config.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, r.config.MaxRetries)
	}
	return b
}

func (r *Retrier) operation(ctx context.Context, fn func(context.Context) error) backoff.Operation {
	return func() error {
		err := fn(ctx)
		if err != nil && r.config.ShouldRetry != nil && !r.config.ShouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}
}
