// Package retry provides bounded retry with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxRetries is the number of retry attempts after the first try.
	MaxRetries int
	// InitialBackoff is the initial delay before retrying.
	InitialBackoff time.Duration
	// MaxBackoff is the maximum delay between retries.
	MaxBackoff time.Duration
	// Multiplier is the exponential backoff multiplier.
	Multiplier float64
	// JitterFraction is the fraction of backoff used for jitter (0.0-1.0).
	JitterFraction float64
}

// DefaultConfig returns the default budget of three attempts total.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.2,
	}
}

// ErrorClassifier determines if an error is retryable.
type ErrorClassifier func(error) bool

// IsRetryable is the default classifier: context errors are permanent,
// everything else gets another attempt.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// ExhaustedError is returned when every attempt of an operation failed.
// It wraps the error from the final attempt.
type ExhaustedError struct {
	// Op names the operation that was retried.
	Op string
	// Attempts is the total number of attempts made.
	Attempts int
	// Err is the error from the last attempt.
	Err error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: %s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

// Unwrap returns the last attempt's error for errors.Is/As.
func (e *ExhaustedError) Unwrap() error { return e.Err }

// Do executes fn with retry logic. Each failed attempt is logged with the
// operation name. A permanent error (per the classifier) is returned as-is;
// exhausting the budget returns an *ExhaustedError wrapping the last error.
func Do(ctx context.Context, op string, cfg Config, classifier ErrorClassifier, fn func(context.Context) error) error {
	if classifier == nil {
		classifier = IsRetryable
	}

	var lastErr error
	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxRetries+1; attempt++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			if !classifier(err) {
				return err
			}
			log.Printf("retry: %s attempt %d/%d failed: %v", op, attempt, cfg.MaxRetries+1, err)
		}

		if attempt == cfg.MaxRetries+1 {
			break
		}

		sleep := backoff + jitter(backoff, cfg.JitterFraction)
		if sleep > cfg.MaxBackoff {
			sleep = cfg.MaxBackoff
		}

		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff = time.Duration(float64(backoff) * cfg.Multiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return &ExhaustedError{Op: op, Attempts: cfg.MaxRetries + 1, Err: lastErr}
}

// jitter returns a random duration in range [-fraction*d, +fraction*d].
func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return 0
	}
	jitterRange := float64(d) * fraction
	return time.Duration((rand.Float64() - 0.5) * 2 * jitterRange)
}
