package ports

import "github.com/gplaydev/gtv-sdk-go/internal/domain"

// SessionStore persists the local session across process restarts.
// Operations are synchronous and never fail observably: persistence errors
// are swallowed by implementations, which keep an in-memory copy as the
// source of truth. Calls are expected from a single logical session owner.
type SessionStore interface {
	SaveToken(token string)
	Token() string
	ClearToken()
	SaveClientID(id string)
	ClientID() string
	Status() domain.SessionStatus
}
