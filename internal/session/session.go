// Package session tracks the authenticated user for the lifetime of the
// process and gates access to protected pages.
package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/localstore"
)

// Credentials is the payload the backend returns from /auth/login and
// /auth/register.
type Credentials struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// Store holds the current user in memory and mirrors it into the local
// store. All mutations are synchronous; the network calls that produce a
// Credentials happen elsewhere (the login/register pages).
type Store struct {
	mu      sync.RWMutex
	local   localstore.Store
	current *core.User
	token   string
}

// New creates a signed-out store. Call Restore to re-hydrate a previous
// session.
func New(local localstore.Store) *Store {
	return &Store{local: local}
}

// Restore re-hydrates the session from the local store. A missing,
// corrupt, or literal "undefined" user record yields the signed-out state;
// it is never an error.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.token, _ = s.local.Get(localstore.KeyToken)

	raw, ok := s.local.Get(localstore.KeyUser)
	if !ok || raw == "" || raw == "undefined" {
		return
	}
	var u core.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		slog.Warn("Discarding unreadable persisted user", "error", err)
		return
	}
	s.current = &u
}

// Login persists the credentials and updates the in-memory user.
func (s *Store) Login(c Credentials) error {
	raw, err := json.Marshal(c.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.Set(localstore.KeyToken, c.Token); err != nil {
		return err
	}
	if err := s.local.Set(localstore.KeyUser, string(raw)); err != nil {
		return err
	}
	u := c.User
	s.current = &u
	s.token = c.Token
	return nil
}

// SetUser replaces the stored user record, keeping the token. Used after
// a profile update so the restored session reflects the new name/email.
func (s *Store) SetUser(u core.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.Set(localstore.KeyUser, string(raw)); err != nil {
		return err
	}
	s.current = &u
	return nil
}

// Logout clears all persisted session data and resets the in-memory user.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.local.Delete(localstore.KeyToken); err != nil {
		slog.Warn("Failed clearing persisted token", "error", err)
	}
	if err := s.local.Delete(localstore.KeyUser); err != nil {
		slog.Warn("Failed clearing persisted user", "error", err)
	}
	s.current = nil
	s.token = ""
}

// Current returns the signed-in user, or nil.
func (s *Store) Current() *core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Token implements the api client's TokenSource. Empty means no bearer
// header is attached.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
