package respond

import (
	"strings"

	"github.com/fairwaylabs/caddie/internal/core/domain"
	"github.com/fairwaylabs/caddie/internal/infra/api"
)

// Edit is a partial change to a user's response. Nil fields mean "keep the
// current effective value".
type Edit struct {
	Status    *domain.Status
	Note      *string
	Transport *domain.Transport
}

// MergeDefaults fills the unspecified fields of an edit from the user's
// current effective response and returns the full payload to submit. The
// backend replaces the whole record on every mutation, so a field the user
// did not touch must be resubmitted with its last known value or it would
// be silently dropped.
//
// Transport defaults to walking when neither the edit nor the current
// response carries one; notes are trimmed of surrounding whitespace before
// transmission.
func MergeDefaults(userID string, current *domain.Response, edit Edit) api.SubmitPayload {
	status := domain.StatusUndecided
	note := ""
	transport := domain.Transport("")
	if current != nil {
		status = current.Status
		note = current.Note
		transport = current.Transport
	}

	if edit.Status != nil {
		status = *edit.Status
	}
	if edit.Note != nil {
		note = *edit.Note
	}
	if edit.Transport != nil {
		transport = *edit.Transport
	}
	if transport == "" {
		transport = domain.TransportWalking
	}

	return api.SubmitPayload{
		UserID:    userID,
		Status:    string(status),
		Note:      strings.TrimSpace(note),
		Transport: string(transport),
	}
}
