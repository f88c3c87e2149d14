package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
)

// fileCredentials is the on-disk shape of the credential file.
type fileCredentials struct {
	Token string          `json:"token,omitempty"`
	User  *domain.Profile `json:"user,omitempty"`
}

// FileStore persists the session credential and the cached profile snapshot
// in a JSON file under the user's home directory. All storage failures are
// swallowed: a store that cannot read or write degrades to "absent" rather
// than surfacing an error, because a lost session is recoverable by logging
// in again.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

// NewFileStore creates a FileStore rooted at path. The file is created lazily
// on the first write.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Token returns the stored bearer token, or "" when absent.
func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Token
}

// SetToken persists the token; "" clears it.
func (s *FileStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds := s.load()
	creds.Token = token
	s.save(creds)
}

// User returns the cached profile snapshot. Malformed stored data reads as
// absent.
func (s *FileStore) User() (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds := s.load()
	if creds.User == nil {
		return domain.Profile{}, false
	}
	return *creds.User, true
}

// SetUser persists the profile snapshot; nil clears it.
func (s *FileStore) SetUser(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds := s.load()
	creds.User = p
	s.save(creds)
}

// ClearIfTokenMatches clears both token and profile only when the stored
// token still equals stale, so a login that raced the 401 keeps its token.
func (s *FileStore) ClearIfTokenMatches(stale string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds := s.load()
	if stale == "" || creds.Token != stale {
		return false
	}
	s.save(fileCredentials{})
	return true
}

// load reads the credential file. Any failure, including malformed JSON,
// yields the zero value.
func (s *FileStore) load() fileCredentials {
	var creds fileCredentials
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fileCredentials{}
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		s.log.Debug().Err(err).Str("path", s.path).Msg("credential file malformed, treating as absent")
		return fileCredentials{}
	}
	return creds
}

// save writes the credential file with owner-only permissions. Write failures
// are logged and swallowed.
func (s *FileStore) save(creds fileCredentials) {
	raw, err := json.Marshal(creds)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential serialization failed")
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("credential directory unavailable")
		return
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("credential write failed")
	}
}
