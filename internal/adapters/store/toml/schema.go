package toml

import (
	"fmt"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Session sessionSchema `toml:"session"`
}

type sessionSchema struct {
	Token    string `toml:"token"`
	ClientID string `toml:"client_id"`
	Status   string `toml:"status"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func toSchema(session domain.Session) fileSchema {
	return fileSchema{
		Session: sessionSchema{
			Token:    session.Token,
			ClientID: session.ClientID,
			Status:   string(session.Status),
		},
	}
}

// fromSchema repairs the logged-in/token invariant on load: a missing
// token always reads back as logged out.
func fromSchema(file fileSchema) domain.Session {
	status := domain.SessionStatus(file.Session.Status)
	if file.Session.Token == "" || status != domain.StatusLoggedIn {
		status = domain.StatusLoggedOut
	}

	return domain.Session{
		Token:    file.Session.Token,
		ClientID: file.Session.ClientID,
		Status:   status,
	}
}
