package session

import (
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/localstore"
)

func TestLoginRestoreRoundTrip(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local)

	creds := Credentials{
		Token: "tok-123",
		User:  core.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
	}
	if err := s.Login(creds); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := s.Current(); got == nil || got.Email != "ada@example.com" {
		t.Fatalf("current after login: %+v", got)
	}

	// Simulated reload: a fresh store over the same local storage.
	s2 := New(local)
	s2.Restore()
	got := s2.Current()
	if got == nil || got.ID != "u1" || got.Name != "Ada" {
		t.Fatalf("restored user: %+v", got)
	}
	if s2.Token() != "tok-123" {
		t.Fatalf("restored token: %q", s2.Token())
	}
}

func TestRestoreToleratesCorruptUser(t *testing.T) {
	cases := []struct {
		name  string
		value string
		set   bool
	}{
		{"absent", "", false},
		{"literal undefined", "undefined", true},
		{"invalid json", `{"name": `, true},
		{"empty string", "", true},
	}
	for _, tc := range cases {
		local := localstore.NewMemory()
		if tc.set {
			if err := local.Set(localstore.KeyUser, tc.value); err != nil {
				t.Fatalf("%s: seed: %v", tc.name, err)
			}
		}
		s := New(local)
		s.Restore()
		if s.Current() != nil {
			t.Fatalf("%s: expected signed-out state", tc.name)
		}
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local)
	if err := s.Login(Credentials{Token: "t", User: core.User{ID: "u1"}}); err != nil {
		t.Fatalf("login: %v", err)
	}

	s.Logout()
	if s.Current() != nil || s.Token() != "" {
		t.Fatalf("store not reset")
	}
	if _, ok := local.Get(localstore.KeyToken); ok {
		t.Fatalf("token still persisted")
	}
	if _, ok := local.Get(localstore.KeyUser); ok {
		t.Fatalf("user still persisted")
	}

	// A restore after logout stays signed out.
	s2 := New(local)
	s2.Restore()
	if s2.Current() != nil {
		t.Fatalf("session survived logout")
	}
}

func TestSetUserKeepsToken(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local)
	if err := s.Login(Credentials{Token: "t", User: core.User{ID: "u1", Name: "Old"}}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.SetUser(core.User{ID: "u1", Name: "New"}); err != nil {
		t.Fatalf("set user: %v", err)
	}
	if s.Current().Name != "New" {
		t.Fatalf("user not replaced")
	}
	if s.Token() != "t" {
		t.Fatalf("token lost on profile update")
	}
}
