package localstore

import (
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemory()

	if _, ok := s.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
	if err := s.Set(KeyTheme, "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok := s.Get(KeyTheme); !ok || v != "dark" {
		t.Fatalf("get: %q %v", v, ok)
	}
	if err := s.Delete(KeyTheme); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(KeyTheme); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Set(KeyCurrency, "INR"); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Upsert overwrites
	if err := s.Set(KeyCurrency, "USD"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if v, ok := s.Get(KeyCurrency); !ok || v != "USD" {
		t.Fatalf("get: %q %v", v, ok)
	}

	// Reopen: values survive the process
	s.Close()
	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if v, ok := s2.Get(KeyCurrency); !ok || v != "USD" {
		t.Fatalf("after reopen: %q %v", v, ok)
	}
	if _, ok := s2.Get("never-set"); ok {
		t.Fatalf("expected miss")
	}
}
