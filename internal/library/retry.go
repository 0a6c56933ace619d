package library

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tessro/kodictl/internal/config"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/kodi/rpc"
	"github.com/tessro/kodictl/internal/logging"
)

// RetryPolicy bounds the attempts made for one remote window.
type RetryPolicy struct {
	MaxRetries int
	Initial    time.Duration
	Max        time.Duration
	// Retryable classifies errors; nil means rpc.IsRetryable.
	Retryable func(error) bool
}

// RetryPolicyFromConfig builds the policy described by the library section.
func RetryPolicyFromConfig(cfg config.LibraryConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		Initial:    time.Duration(cfg.RetryInitialMS) * time.Millisecond,
		Max:        time.Duration(cfg.RetryMaxMS) * time.Millisecond,
	}
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return rpc.IsRetryable(err)
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		b.InitialInterval = p.Initial
	}
	if p.Max > 0 {
		b.MaxInterval = p.Max
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(p.MaxRetries, 0))), ctx)
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// retry budget is spent. Exhaustion wraps kerrors.ErrRetriesExhausted.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	log := logging.Ctx(ctx)
	attempts := 0

	operation := func() error {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("op", op).Int("attempt", attempts).Dur("wait", wait).Msg("retrying")
	}

	err := backoff.RetryNotify(operation, p.backOff(ctx), notify)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if p.retryable(err) {
		return fmt.Errorf("%s: %w after %d attempts: %w", op, kerrors.ErrRetriesExhausted, attempts, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
