package respond

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fairwaylabs/caddie/internal/core/domain"
	"github.com/fairwaylabs/caddie/internal/infra/api"
	"github.com/fairwaylabs/caddie/internal/infra/retry"
	"github.com/fairwaylabs/caddie/internal/respond/metrics"
)

// settleDelay is how long a successful transport change keeps its overlay
// entry before clearing it. The repository update from the same mutation
// may not be visible to readers at the instant the call returns; clearing
// immediately would briefly show the pre-edit transport.
const settleDelay = 100 * time.Millisecond

// Backend is the mutation surface of the scheduling API used by the
// dispatcher.
type Backend interface {
	SubmitResponse(ctx context.Context, sessionID string, payload api.SubmitPayload) (*domain.Response, error)
	DeleteResponse(ctx context.Context, sessionID, userID string) (*domain.Response, error)
}

// Dispatcher drives the three per-field edit operations. Each follows the
// same shape: write a provisional overlay entry, run the mutation through
// the retrying executor, then reconcile the overlay and repository against
// the outcome.
type Dispatcher struct {
	backend Backend
	exec    *retry.Executor
	repo    *Repository
	overlay *Overlay
	tracker *Tracker
	settle  func()

	errMu   sync.Mutex
	lastErr string
}

// NewDispatcher wires a dispatcher over its stores. The overlay must have
// been built over repo.
func NewDispatcher(backend Backend, exec *retry.Executor, repo *Repository, overlay *Overlay, tracker *Tracker) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		exec:    exec,
		repo:    repo,
		overlay: overlay,
		tracker: tracker,
		settle:  func() { time.Sleep(settleDelay) },
	}
}

// UserResponse returns the user's effective response: overlay over
// repository, or nil when the user has neither.
func (d *Dispatcher) UserResponse(userID string) *domain.Response {
	return d.overlay.Read(userID)
}

// IsSubmitting reports whether the user has a mutation in flight.
func (d *Dispatcher) IsSubmitting(userID string) bool {
	return d.tracker.IsSubmitting(userID)
}

// LastError returns the human-readable message of the most recent failed
// mutation, or "" when none is pending display.
func (d *Dispatcher) LastError() string {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	return d.lastErr
}

// ClearError clears the last-error slot.
func (d *Dispatcher) ClearError() {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	d.lastErr = ""
}

// SetStatus changes a user's attendance status. Re-selecting the current
// effective status means "toggle off": the response is deleted instead of
// resubmitted. Otherwise the status changes while note and transport carry
// their current effective values.
func (d *Dispatcher) SetStatus(ctx context.Context, userID string, status domain.Status) error {
	d.tracker.Begin(userID)
	defer d.tracker.End(userID)

	current := d.overlay.Read(userID)
	if current != nil && current.Status == status {
		return d.toggleOff(ctx, userID, current)
	}

	return d.applyAndSubmit(ctx, userID, "set_status", current, Edit{Status: &status}, false)
}

// SetNote changes a user's note, holding status and transport at their
// current effective values.
func (d *Dispatcher) SetNote(ctx context.Context, userID, note string) error {
	d.tracker.Begin(userID)
	defer d.tracker.End(userID)

	current := d.overlay.Read(userID)
	return d.applyAndSubmit(ctx, userID, "set_note", current, Edit{Note: &note}, false)
}

// SetTransport changes a user's transport choice, holding status and note
// at their current effective values. On success the overlay entry is
// cleared only after a short settle delay.
func (d *Dispatcher) SetTransport(ctx context.Context, userID string, transport domain.Transport) error {
	d.tracker.Begin(userID)
	defer d.tracker.End(userID)

	current := d.overlay.Read(userID)
	return d.applyAndSubmit(ctx, userID, "set_transport", current, Edit{Transport: &transport}, true)
}

// applyAndSubmit is the shared path for the submit-shaped mutations:
// write the provisional entry, execute, reconcile.
func (d *Dispatcher) applyAndSubmit(ctx context.Context, userID, op string, current *domain.Response, edit Edit, settleOnSuccess bool) error {
	payload := MergeDefaults(userID, current, edit)
	d.overlay.Set(userID, Entry{
		Status:    domain.Status(payload.Status),
		Note:      payload.Note,
		Transport: domain.Transport(payload.Transport),
	})

	result, err := d.exec.Do(ctx, retry.Operation{
		Name: "submit response",
		Invoke: func(ctx context.Context) (any, error) {
			return d.backend.SubmitResponse(ctx, d.repo.SessionID(), payload)
		},
	})
	if err != nil {
		// The interface falls back to whatever the repository holds.
		d.overlay.Clear(userID)
		d.recordError(op, userID, err)
		return err
	}

	echo := result.(*domain.Response)
	d.repo.ReplaceFor(userID, echo)
	if settleOnSuccess {
		d.settle()
	}
	d.overlay.Clear(userID)
	metrics.MutationsTotal.WithLabelValues(op, "success").Inc()
	return nil
}

// toggleOff deletes the user's response. The overlay entry is cleared
// immediately so the interface stops showing the provisional edit; on
// failure the prior effective response is restored so the interface
// reverts to its pre-toggle state.
func (d *Dispatcher) toggleOff(ctx context.Context, userID string, prior *domain.Response) error {
	d.overlay.Clear(userID)

	_, err := d.exec.Do(ctx, retry.Operation{
		Name: "delete response",
		Invoke: func(ctx context.Context) (any, error) {
			return d.backend.DeleteResponse(ctx, d.repo.SessionID(), userID)
		},
	})
	if err != nil {
		d.overlay.Set(userID, Entry{
			Status:    prior.Status,
			Note:      prior.Note,
			Transport: prior.Transport,
		})
		d.recordError("toggle_off", userID, err)
		return err
	}

	d.repo.RemoveFor(userID)
	metrics.MutationsTotal.WithLabelValues("toggle_off", "success").Inc()
	return nil
}

func (d *Dispatcher) recordError(op, userID string, err error) {
	slog.Warn("Mutation failed", "op", op, "user", userID, "error", err)
	metrics.MutationsTotal.WithLabelValues(op, "failure").Inc()
	d.errMu.Lock()
	defer d.errMu.Unlock()
	d.lastErr = err.Error()
}
