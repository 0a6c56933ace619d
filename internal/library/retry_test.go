package library

import (
	"context"
	"errors"
	"testing"

	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/kodi/rpc"
)

func TestRetryPolicyDo(t *testing.T) {
	retryable := &rpc.TransportError{Op: "dial", Err: errors.New("connection refused"), Retryable: true}
	fatal := &rpc.Error{Code: -32602, Message: "Invalid params."}

	tests := []struct {
		name         string
		errs         []error
		maxRetries   int
		wantAttempts int
		wantErr      error
	}{
		{"first try", nil, 3, 1, nil},
		{"recovers", []error{retryable, retryable}, 3, 3, nil},
		{"exhausted", []error{retryable, retryable, retryable, retryable}, 2, 3, kerrors.ErrRetriesExhausted},
		{"fatal", []error{fatal}, 3, 1, fatal},
		{"no retries", []error{retryable}, 0, 1, kerrors.ErrRetriesExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := append([]error(nil), tt.errs...)
			attempts := 0
			err := fastRetry(tt.maxRetries).Do(context.Background(), "op", func() error {
				attempts++
				if len(errs) == 0 {
					return nil
				}
				e := errs[0]
				errs = errs[1:]
				return e
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryPolicyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fastRetry(50).Do(ctx, "op", func() error {
		return &rpc.ShapeError{Method: "m", Key: "k"}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
