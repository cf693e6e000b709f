package toml

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName        = "config"
	configType        = "toml"
	sessionPathKey    = "session.path"
	sessionFileMode   = 0o600
	sessionDirMode    = 0o700
	sessionConfigDir  = ".gtv"
	sessionConfigFile = "session.toml"
	tempFilePattern   = ".session-*.toml.tmp"
)

// Store is a durable SessionStore backed by a single TOML document. The
// in-memory session is the source of truth; disk reads happen once at
// construction and writes are best effort, so no operation ever fails
// observably.
type Store struct {
	path string
	log  *slog.Logger

	mu      sync.Mutex
	session domain.Session
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore resolves the session file location through viper, honoring
// `session.path` from ~/.gtv/config.toml when present, and loads any
// previously persisted session.
func NewStore(cfg *viper.Viper, log *slog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, sessionConfigDir, sessionConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, sessionConfigDir))
	cfg.SetDefault(sessionPathKey, defaultPath)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sessionPath := cfg.GetString(sessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}
	sessionPath, err = filepath.Abs(sessionPath)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}

	return NewStoreAt(filepath.Clean(sessionPath), log), nil
}

// NewStoreAt opens a store on an explicit file path.
func NewStoreAt(path string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}

	s := &Store{path: path, log: log}
	s.session = s.load()

	return s
}

func (s *Store) SaveToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Token = token
	s.session.Status = domain.StatusLoggedIn
	s.persistLocked()
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

func (s *Store) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Token = ""
	s.session.Status = domain.StatusLoggedOut
	s.persistLocked()
}

func (s *Store) SaveClientID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ClientID = id
	s.persistLocked()
}

func (s *Store) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.ClientID
}

func (s *Store) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Token == "" {
		return domain.StatusLoggedOut
	}
	return domain.StatusLoggedIn
}

func (s *Store) load() domain.Session {
	empty := domain.Session{Status: domain.StatusLoggedOut}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("read session file failed", "path", s.path, "error", err)
		}
		return empty
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		s.log.Warn("decode session file failed", "path", s.path, "error", err)
		return empty
	}
	if err := file.validateVersion(); err != nil {
		s.log.Warn("session file rejected", "path", s.path, "error", err)
		return empty
	}

	return fromSchema(file)
}

// persistLocked writes the session document atomically. Failures are
// logged and swallowed; the in-memory session stays authoritative.
func (s *Store) persistLocked() {
	if err := s.writeFile(toSchema(s.session)); err != nil {
		s.log.Warn("persist session failed", "path", s.path, "error", err)
	}
}

func (s *Store) writeFile(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	return nil
}
