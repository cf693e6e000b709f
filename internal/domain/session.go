package domain

type SessionStatus string

const (
	StatusLoggedIn  SessionStatus = "logged_in"
	StatusLoggedOut SessionStatus = "logged_out"
)

// Session is the locally persisted identity state. Token is an opaque
// bearer credential; empty means logged out.
type Session struct {
	Token    string
	ClientID string
	Status   SessionStatus
}
