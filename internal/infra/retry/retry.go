// Package retry executes backend operations with bounded exponential
// backoff. The backend is prone to slow cold starts and transient
// unavailability, so transient failures are retried automatically;
// client errors fail fast.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/fairwaylabs/caddie/internal/infra/api"
)

// Config defines retry behavior.
type Config struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	Multiplier float64       `yaml:"multiplier"`
}

// DefaultConfig provides sensible defaults.
var DefaultConfig = Config{
	MaxRetries: 4,
	BaseDelay:  1500 * time.Millisecond,
	MaxDelay:   15 * time.Second,
	Multiplier: 2.0,
}

// TransientSignatures are message fragments that mark a failure as
// retryable regardless of HTTP status. Matching is case-insensitive
// substring. Extend the list to teach the classifier new failure shapes.
var TransientSignatures = []string{
	"network request failed",
	"connection reset",
	"connection refused",
	"timeout",
	"timed out",
	"deadline exceeded",
	"socket hang up",
	"econnreset",
	"econnrefused",
	"no such host",
	"unexpected eof",
	"temporary failure",
}

// retryableStatuses are the gateway-class statuses worth retrying.
// 0 is the sentinel for "no response reached us".
var retryableStatuses = map[int]bool{
	0:   true,
	502: true,
	503: true,
	504: true,
}

// Retryable reports whether a failure is transient. 4xx client errors are
// never retryable: a malformed or rejected request will not get better by
// being repeated.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range TransientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return retryableStatuses[apiErr.HTTPStatus]
	}
	return false
}

// Operation is one logical request: a single network round trip that
// either returns a parsed result or fails.
type Operation struct {
	Name   string
	Invoke func(ctx context.Context) (any, error)
}

// Executor runs operations with retry.
type Executor struct {
	cfg Config

	// Sleep performs the backoff wait. Replaceable in tests to avoid
	// real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Executor. Zero config fields fall back to DefaultConfig.
func New(cfg Config) *Executor {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultConfig.MaxRetries
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = DefaultConfig.BaseDelay
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = DefaultConfig.MaxDelay
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = DefaultConfig.Multiplier
	}
	return &Executor{cfg: cfg, Sleep: ctxSleep}
}

// Do executes op, retrying transient failures with exponential backoff.
// Attempt 0 runs immediately; attempt k waits min(base*mult^(k-1), max)
// first. Delays are deterministic, no jitter. A retried attempt may repeat
// a write the backend already applied; mutations are upserts-by-key, so
// the duplicate is accepted rather than deduplicated here.
func (e *Executor) Do(ctx context.Context, op Operation) (any, error) {
	attempts := e.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := e.backoff(attempt)
			slog.Debug("Retrying operation",
				"operation", op.Name, "attempt", attempt, "delay", delay, "error", lastErr)
			attemptsRetried.WithLabelValues(op.Name).Inc()
			if err := e.Sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		result, err := op.Invoke(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !Retryable(err) {
			return nil, err
		}
	}

	exhausted.WithLabelValues(op.Name).Inc()
	return nil, fmt.Errorf("%s failed after %d attempts: %w", op.Name, attempts, lastErr)
}

func (e *Executor) backoff(attempt int) time.Duration {
	delay := float64(e.cfg.BaseDelay) * math.Pow(e.cfg.Multiplier, float64(attempt-1))
	if delay > float64(e.cfg.MaxDelay) {
		delay = float64(e.cfg.MaxDelay)
	}
	return time.Duration(delay)
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
