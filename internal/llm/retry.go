package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryConfig bounds retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

type retrying struct {
	inner Provider
	cfg   RetryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry retries p with exponential backoff and ±20% jitter. Rate
// limits honour the server's Retry-After. Invalid output is retried once;
// truncation and context errors are not retried.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &retrying{inner: p, cfg: cfg, sleep: sleepCtx}
}

func (r *retrying) ModelID() string { return r.inner.ModelID() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidSeen := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= r.cfg.MaxAttempts || !retryable(err, &invalidSeen) {
			return nil, err
		}
		if serr := r.sleep(ctx, r.delay(attempt, err)); serr != nil {
			return nil, serr
		}
	}
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindTruncated:
		return false
	case KindInvalidOutput:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

// delay is the wait before attempt+1.
func (r *retrying) delay(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimited && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	wait := float64(r.cfg.InitialWait)
	for range attempt - 1 {
		wait *= r.cfg.Multiplier
	}
	if ceiling := float64(r.cfg.MaxWait); ceiling > 0 && wait > ceiling {
		wait = ceiling
	}
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
