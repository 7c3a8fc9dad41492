// Package localstore is the durable key/value storage the session and
// preference stores persist into, the moral equivalent of the browser's
// localStorage in the original single-page app.
package localstore

import "sync"

// Well-known keys. Session keys and preference keys never overlap so the
// two stores persist and restore independently.
const (
	KeyToken    = "token"
	KeyUser     = "user"
	KeyTheme    = "theme"
	KeyCurrency = "currency"
)

// Store reads and writes string values. Implementations must treat a
// missing key as (_, false), never as an error the caller has to handle
// at startup.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is the in-process implementation used by tests.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
