package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fairwaylabs/caddie/internal/infra/api"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"network failure", errors.New("Network request failed"), true},
		{"timeout", errors.New("request timeout"), true},
		{"timed out", errors.New("context deadline exceeded (Client.Timeout exceeded while awaiting headers)"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"dns failure", errors.New("dial tcp: lookup api: no such host"), true},
		{"no response", &api.Error{Message: "request aborted", HTTPStatus: 0}, true},
		{"bad gateway", &api.Error{Message: "http 502: upstream", HTTPStatus: 502}, true},
		{"unavailable", &api.Error{Message: "http 503: cold start", HTTPStatus: 503}, true},
		{"gateway timeout", &api.Error{Message: "http 504", HTTPStatus: 504}, true},
		{"not found", &api.Error{Message: "response not found", HTTPStatus: 404}, false},
		{"validation", &api.Error{Message: "status must be one of IN, OUT, UNDECIDED", HTTPStatus: 422}, false},
		{"bad request", &api.Error{Message: "malformed body", HTTPStatus: 400}, false},
		{"server error", &api.Error{Message: "internal error", HTTPStatus: 500}, false},
		{"plain error", errors.New("something else"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.expect {
			t.Errorf("Retryable(%v) [%s] = %v, want %v", tt.err, tt.name, got, tt.expect)
		}
	}
}

// fakeSleep records requested delays without waiting.
func fakeSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDo_TransientExhaustsRetries(t *testing.T) {
	e := New(Config{})
	var delays []time.Duration
	e.Sleep = fakeSleep(&delays)

	attempts := 0
	_, err := e.Do(context.Background(), Operation{
		Name: "submit",
		Invoke: func(ctx context.Context) (any, error) {
			attempts++
			return nil, &api.Error{Message: "http 503", HTTPStatus: 503}
		},
	})

	if err == nil {
		t.Fatal("Expected failure after exhausting retries")
	}
	if attempts != 5 {
		t.Errorf("Expected 5 attempts (1 + 4 retries), got %d", attempts)
	}

	want := []time.Duration{
		1500 * time.Millisecond,
		3000 * time.Millisecond,
		6000 * time.Millisecond,
		12000 * time.Millisecond,
	}
	if len(delays) != len(want) {
		t.Fatalf("Expected %d delays, got %d: %v", len(want), len(delays), delays)
	}
	var total time.Duration
	for i, d := range delays {
		if d != want[i] {
			t.Errorf("Delay %d = %v, want %v", i, d, want[i])
		}
		total += d
	}
	if total != 22500*time.Millisecond {
		t.Errorf("Cumulative delay = %v, want 22.5s", total)
	}
}

func TestDo_NonRetryableFailsFast(t *testing.T) {
	e := New(Config{})
	var delays []time.Duration
	e.Sleep = fakeSleep(&delays)

	attempts := 0
	_, err := e.Do(context.Background(), Operation{
		Name: "submit",
		Invoke: func(ctx context.Context) (any, error) {
			attempts++
			return nil, &api.Error{Message: "response not found", HTTPStatus: 404}
		},
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("Expected no backoff delays, got %v", delays)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.HTTPStatus != 404 {
		t.Errorf("Expected the original error to propagate, got %v", err)
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	e := New(Config{})
	var delays []time.Duration
	e.Sleep = fakeSleep(&delays)

	attempts := 0
	result, err := e.Do(context.Background(), Operation{
		Name: "submit",
		Invoke: func(ctx context.Context) (any, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("connection reset by peer")
			}
			return "ok", nil
		},
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected result ok, got %v", result)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(delays) != 2 {
		t.Errorf("Expected 2 delays, got %v", delays)
	}
}

func TestDo_FirstAttemptImmediate(t *testing.T) {
	e := New(Config{})
	e.Sleep = func(context.Context, time.Duration) error {
		t.Fatal("Sleep called before the first attempt")
		return nil
	}

	result, err := e.Do(context.Background(), Operation{
		Name:   "fetch",
		Invoke: func(ctx context.Context) (any, error) { return 42, nil },
	})
	if err != nil || result != 42 {
		t.Fatalf("Expected immediate success, got %v / %v", result, err)
	}
}

func TestDo_ContextCancelAbortsBackoff(t *testing.T) {
	e := New(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := e.Do(ctx, Operation{
			Name: "submit",
			Invoke: func(ctx context.Context) (any, error) {
				attempts++
				return nil, &api.Error{Message: "http 503", HTTPStatus: 503}
			},
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	}()

	// First attempt runs immediately; cancel during the first backoff.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestBackoff_CapsAtMaxDelay(t *testing.T) {
	e := New(Config{
		MaxRetries: 8,
		BaseDelay:  1500 * time.Millisecond,
		MaxDelay:   15 * time.Second,
		Multiplier: 2.0,
	})

	if d := e.backoff(1); d != 1500*time.Millisecond {
		t.Errorf("backoff(1) = %v, want 1.5s", d)
	}
	if d := e.backoff(4); d != 12*time.Second {
		t.Errorf("backoff(4) = %v, want 12s", d)
	}
	if d := e.backoff(5); d != 15*time.Second {
		t.Errorf("backoff(5) = %v, want capped 15s", d)
	}
	if d := e.backoff(8); d != 15*time.Second {
		t.Errorf("backoff(8) = %v, want capped 15s", d)
	}
}
