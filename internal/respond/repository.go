// Package respond implements optimistic response editing for a session:
// provisional edits show instantly, a retrying request layer carries them
// to the backend, and the confirmed server state is reconciled back in.
package respond

import (
	"sort"
	"sync"

	"github.com/fairwaylabs/caddie/internal/core/domain"
)

// Repository holds the last confirmed server state of a session's
// responses, keyed by user. It carries no retry or optimism logic; it is
// written exactly once per confirmed server round trip (a full fetch merge
// or a single mutation echo).
type Repository struct {
	mu        sync.RWMutex
	sessionID string
	byUser    map[string]*domain.Response
}

// NewRepository creates an empty repository for one session.
func NewRepository(sessionID string) *Repository {
	return &Repository{
		sessionID: sessionID,
		byUser:    make(map[string]*domain.Response),
	}
}

// SessionID returns the session this repository belongs to.
func (r *Repository) SessionID() string {
	return r.sessionID
}

// Replace rebuilds the repository from a full roster fetch.
func (r *Repository) Replace(responses []*domain.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser = make(map[string]*domain.Response, len(responses))
	for _, resp := range responses {
		r.byUser[resp.UserID] = resp.Clone()
	}
}

// ReplaceFor stores the server echo of one user's mutation.
func (r *Repository) ReplaceFor(userID string, resp *domain.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = resp.Clone()
}

// RemoveFor drops a user's response after a confirmed delete.
func (r *Repository) RemoveFor(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}

// Get returns a copy of the user's confirmed response, or nil.
func (r *Repository) Get(userID string) *domain.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byUser[userID].Clone()
}

// Responses returns copies of all confirmed responses, ordered by user ID
// for stable display.
func (r *Repository) Responses() []*domain.Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Response, 0, len(r.byUser))
	for _, resp := range r.byUser {
		out = append(out, resp.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
