package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		UnprocessableEntityError("Email and password are required").Write(w)
		return
	}

	cred, err := s.backend.Login(r.Context(), email, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login rejected", "email", email, "error", err)
		backendError(err, "Invalid email or password").Write(w)
		return
	}
	if err := s.sessions.Login(cred); err != nil {
		slog.ErrorContext(r.Context(), "Failed persisting session", "error", err)
	}

	slog.InfoContext(r.Context(), "User signed in", "user_id", cred.User.ID)
	s.publishActivity(r.Context(), "session", "login", cred.User.ID, core.CurrentMonth())
	redirectAfterMutation(w, r, "/dashboard", NewHTMXResponse())
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if s.sessions.Current() != nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		s.render(w, r, "register.html", nil)
		return
	}
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	if name == "" || email == "" || password == "" {
		UnprocessableEntityError("Name, email and password are required").Write(w)
		return
	}
	if len(password) < 6 {
		UnprocessableEntityError("Password must be at least 6 characters").Write(w)
		return
	}

	cred, err := s.backend.Register(r.Context(), name, email, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Registration failed", "email", email, "error", err)
		backendError(err, "Registration failed").Write(w)
		return
	}
	if err := s.sessions.Login(cred); err != nil {
		slog.ErrorContext(r.Context(), "Failed persisting session", "error", err)
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", cred.User.ID)
	s.publishActivity(r.Context(), "session", "register", cred.User.ID, core.CurrentMonth())
	redirectAfterMutation(w, r, "/dashboard", NewHTMXResponse())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if u := s.sessions.Current(); u != nil {
		s.publishActivity(r.Context(), "session", "logout", u.ID, core.CurrentMonth())
	}
	s.sessions.Logout()
	redirectAfterMutation(w, r, "/", NewHTMXResponse())
}
