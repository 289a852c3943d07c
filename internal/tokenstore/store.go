// Package tokenstore persists the backend-issued bearer token and a
// best-effort user snapshot across process restarts. It is the durable
// shadow of the in-memory session: written and deleted only in reaction
// to session transitions, never an independent source of truth.
package tokenstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"satang/internal/core"
	"satang/internal/log"
)

// TokenTTL is the client-visible lifetime of a stored token. The
// backend may revoke sooner; this only bounds how long the client
// trusts its local copy.
const TokenTTL = 7 * 24 * time.Hour

const (
	tokenFile = "token.json"
	userFile  = "user.json"
)

type storedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is a small file-backed key/value store under a state
// directory. A Store constructed with an empty directory is disabled:
// every operation becomes a silent no-op, reads report absence.
type Store struct {
	dir    string
	logger *log.Logger
	now    func() time.Time
}

func New(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentTokenStore})
	}
	return &Store{
		dir:    dir,
		logger: logger.WithComponent(log.ComponentTokenStore),
		now:    time.Now,
	}
}

// Enabled reports whether the store has a backing directory.
func (s *Store) Enabled() bool {
	return s.dir != ""
}

// SaveToken persists the token with a fresh TTL. Last write wins.
func (s *Store) SaveToken(token string) {
	if !s.Enabled() || token == "" {
		return
	}
	expiresAt := s.now().Add(TokenTTL)
	if err := s.writeJSON(tokenFile, storedToken{Value: token, ExpiresAt: expiresAt}); err != nil {
		s.logger.Error("Failed to persist token", log.FieldError, err.Error())
		return
	}
	s.logger.Debug("Token persisted", log.FieldExpiresAt, expiresAt.Format(time.RFC3339))
}

// Token returns the stored token if present and unexpired. An expired
// token is removed lazily and reported as absent.
func (s *Store) Token() (string, bool) {
	if !s.Enabled() {
		return "", false
	}
	var tok storedToken
	if !s.readJSON(tokenFile, &tok) {
		return "", false
	}
	if tok.Value == "" || s.now().After(tok.ExpiresAt) {
		s.RemoveToken()
		return "", false
	}
	return tok.Value, true
}

// RemoveToken deletes the stored token. Removing an absent token is
// not an error.
func (s *Store) RemoveToken() {
	s.remove(tokenFile)
}

// SaveUser caches the last known account snapshot for optimistic
// display. The cached copy never authorizes anything.
func (s *Store) SaveUser(user core.BackendUser) {
	if !s.Enabled() {
		return
	}
	if err := s.writeJSON(userFile, user); err != nil {
		s.logger.Error("Failed to persist user snapshot", log.FieldError, err.Error())
	}
}

// User returns the cached account snapshot, if any.
func (s *Store) User() (core.BackendUser, bool) {
	var user core.BackendUser
	if !s.Enabled() || !s.readJSON(userFile, &user) {
		return core.BackendUser{}, false
	}
	return user, true
}

// RemoveUser deletes the cached account snapshot.
func (s *Store) RemoveUser() {
	s.remove(userFile)
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), payload, 0600)
}

func (s *Store) readJSON(name string, v any) bool {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read state file", log.FieldError, err.Error())
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("Corrupt state file, ignoring", log.FieldError, err.Error())
		s.remove(name)
		return false
	}
	return true
}

func (s *Store) remove(name string) {
	if !s.Enabled() {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Failed to remove state file", log.FieldError, err.Error())
	}
}
