package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/prefs"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "profile.html", nil)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
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
	if name == "" || email == "" {
		UnprocessableEntityError("Name and email are required").Write(w)
		return
	}

	updated, err := s.backend.UpdateProfile(r.Context(), name, email)
	if err != nil {
		slog.ErrorContext(r.Context(), "Profile update failed", "error", err)
		backendError(err, "Could not update profile").Write(w)
		return
	}
	if err := s.sessions.SetUser(updated); err != nil {
		slog.ErrorContext(r.Context(), "Failed persisting updated user", "error", err)
	}

	s.publishActivity(r.Context(), "profile", "updated", updated.ID, core.CurrentMonth())

	b := NewHTMXResponse().TriggerSuccessNotification("Profile updated")
	redirectAfterMutation(w, r, "/profile", b)
}

func (s *Server) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	current := r.Form.Get("currentPassword")
	next := r.Form.Get("newPassword")
	if current == "" || next == "" {
		UnprocessableEntityError("Both passwords are required").Write(w)
		return
	}
	if len(next) < 6 {
		UnprocessableEntityError("Password must be at least 6 characters").Write(w)
		return
	}

	if err := s.backend.ChangePassword(r.Context(), current, next); err != nil {
		slog.WarnContext(r.Context(), "Password change rejected", "error", err)
		backendError(err, "Could not change password").Write(w)
		return
	}

	b := NewHTMXResponse().
		TriggerFormReset().
		TriggerSuccessNotification("Password changed")
	redirectAfterMutation(w, r, "/profile", b)
}

type settingsData struct {
	Rate       string
	RateSource string
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	rate := s.prefs.Rate()
	s.render(w, r, "settings.html", settingsData{
		Rate:       core.Money{Cents: int64(rate.Rate * 100)}.String(),
		RateSource: string(rate.Source),
	})
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	mode := s.prefs.ToggleColorMode()
	slog.InfoContext(r.Context(), "Color mode toggled", "mode", mode)

	if isHTMX(r) {
		NewHTMXResponse().Header("HX-Refresh", "true").Write(w)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (s *Server) handleCurrencyToggle(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	code := s.prefs.ToggleCurrency()
	slog.InfoContext(r.Context(), "Currency toggled", "currency", code)

	// Switching to the alternate currency is a good moment to try for a
	// fresh rate. Best effort; the fallback keeps formatting working.
	if s.rates != nil && s.prefs.Rate().Source == prefs.RateFallback {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			s.prefs.Refresh(ctx, s.rates)
		}()
	}

	if isHTMX(r) {
		NewHTMXResponse().Header("HX-Refresh", "true").Write(w)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
