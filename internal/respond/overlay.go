package respond

import (
	"sync"

	"github.com/fairwaylabs/caddie/internal/core/domain"
)

// Entry is a provisional response fragment: the status, note, and
// transport a user just asked for, before the backend has confirmed it.
type Entry struct {
	Status    domain.Status
	Note      string
	Transport domain.Transport
}

// Overlay holds at most one provisional Entry per user. Entries exist only
// for the duration of one in-flight mutation (plus the short settle delay
// after a transport change); an entry left behind after reconciliation
// would mask corrected server state.
type Overlay struct {
	mu      sync.RWMutex
	repo    *Repository
	entries map[string]Entry
}

// NewOverlay creates an empty overlay reading through to repo.
func NewOverlay(repo *Repository) *Overlay {
	return &Overlay{
		repo:    repo,
		entries: make(map[string]Entry),
	}
}

// Peek returns the user's provisional entry, if any.
func (o *Overlay) Peek(userID string) (Entry, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.entries[userID]
	return e, ok
}

// Set stores a provisional entry, replacing any previous one for the user.
// A new edit does not queue behind an in-flight one.
func (o *Overlay) Set(userID string, e Entry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[userID] = e
}

// Clear removes the user's provisional entry.
func (o *Overlay) Clear(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, userID)
}

// Read returns the user's effective response: the provisional entry merged
// over the confirmed record when an entry exists (entry fields win,
// server-assigned identity is preserved), the confirmed record alone
// otherwise, or nil when there is neither.
func (o *Overlay) Read(userID string) *domain.Response {
	entry, ok := o.Peek(userID)
	confirmed := o.repo.Get(userID)
	if !ok {
		return confirmed
	}

	merged := confirmed
	if merged == nil {
		merged = &domain.Response{
			SessionID: o.repo.SessionID(),
			UserID:    userID,
		}
	}
	merged.Status = entry.Status
	merged.Note = entry.Note
	merged.Transport = entry.Transport
	return merged
}
