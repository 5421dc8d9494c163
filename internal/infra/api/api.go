// Package api provides the HTTP client for the Teetime scheduling backend.
package api

import (
	"time"
)

// Config holds backend connection configuration.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Error is a transport-level failure. HTTPStatus is 0 when no response
// reached the client (connection failure, timeout).
type Error struct {
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	return e.Message
}

// SubmitPayload is the full field set sent on every submit. The backend
// upserts by (session, user) key and replaces the whole record, so fields
// the user did not touch must still carry their last known values.
type SubmitPayload struct {
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Note      string `json:"note,omitempty"`
	Transport string `json:"transport,omitempty"`
}
