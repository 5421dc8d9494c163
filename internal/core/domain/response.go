package domain

// Status is a user's attendance answer for a session.
type Status string

const (
	StatusIn        Status = "IN"
	StatusOut       Status = "OUT"
	StatusUndecided Status = "UNDECIDED"
)

// Transport is how an attending user gets around the course.
// Only meaningful when Status is IN.
type Transport string

const (
	TransportWalking Transport = "WALKING"
	TransportRiding  Transport = "RIDING"
)

// Response is one user's standing answer for one session.
// At most one Response exists per (session, user) pair; the backend
// replaces the whole record on every submit rather than patching fields.
type Response struct {
	ID        string    `json:"id,omitempty"` // server-assigned; empty until confirmed
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	Transport Transport `json:"transport,omitempty"`
}

// Clone returns a copy safe to hand to readers.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
