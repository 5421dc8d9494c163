package respond

import "sync"

// Tracker marks which users have a mutation in flight so the interface
// can disable controls and show a pending indicator. It does not queue or
// reject a second edit for the same user; callers avoid that race by
// checking IsSubmitting before enabling input.
type Tracker struct {
	mu       sync.RWMutex
	inFlight map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[string]struct{})}
}

// Begin marks the user as mid-submit.
func (t *Tracker) Begin(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight[userID] = struct{}{}
}

// End clears the user's mark.
func (t *Tracker) End(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, userID)
}

// IsSubmitting reports whether the user has a mutation in flight.
func (t *Tracker) IsSubmitting(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.inFlight[userID]
	return ok
}
