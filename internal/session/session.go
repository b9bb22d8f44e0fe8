// package session holds the ambient bearer credential for the client.
//
// The token is the sole authorization signal: it is written at login, removed
// at logout, and read before every authenticated request. No expiry or
// validity check is performed client-side.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Source exposes read access to the session token.
//
// The API client takes a Source rather than reaching into ambient storage so
// tests can substitute a fixed token.
type Source interface {
	// Token returns the current bearer token and whether one is present.
	Token() (string, bool)
}

// Authenticated reports whether the session holds a credential.
//
// Pure predicate: the token only needs to be present and non-empty.
func Authenticated(src Source) bool {
	if src == nil {
		return false
	}
	token, ok := src.Token()
	return ok && token != ""
}

// Store persists the session token to a file between runs.
//
// The persisted value is read once at construction; Set and Clear write
// through to disk so the credential survives process restarts until logout.
type Store struct {
	path  string
	mu    sync.RWMutex
	token string
}

var _ Source = (*Store)(nil)

// NewStore creates a Store backed by the file at path, loading any previously
// persisted token.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("token path is required")
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err == nil {
		s.token = strings.TrimSpace(string(data))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	return s, nil
}

// Token returns the current bearer token and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set persists a new token. Called only on successful login.
func (s *Store) Set(token string) error {
	if token == "" {
		return fmt.Errorf("refusing to store empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	s.token = token
	return nil
}

// Clear removes the persisted token. Called on logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Static is a fixed-token Source for tests and one-off calls.
type Static string

// Token implements [Source].
func (s Static) Token() (string, bool) {
	return string(s), s != ""
}
