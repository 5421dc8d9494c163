package domain

import "time"

// Session is one scheduled outing with its roster of responses.
type Session struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Course    string      `json:"course,omitempty"`
	StartsAt  time.Time   `json:"starts_at"`
	Responses []*Response `json:"responses"`
}
