package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/api"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// isHTMX reports whether the request came from htmx rather than a plain
// form submission or navigation.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirectAfterMutation finishes a successful mutation: htmx clients get
// the builder's triggers plus an HX-Redirect, plain forms get a 303.
func redirectAfterMutation(w http.ResponseWriter, r *http.Request, target string, b *HTMXResponseBuilder) {
	if isHTMX(r) {
		b.Header("HX-Redirect", target).Write(w)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// backendError maps a backend call failure onto an error response,
// surfacing the server's message when there is one. Transport failures
// come back as 502.
func backendError(err error, fallback string) *HTMXResponseBuilder {
	msg := api.UserMessage(err, fallback)
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return ErrorResponse(apiErr.StatusCode, msg)
	}
	return ErrorResponse(http.StatusBadGateway, msg)
}

// pathParts splits a subroute like /accounts/{id}/delete into its id and
// action. The action is empty for /accounts/{id}.
func pathParts(path, prefix string) (id, action string) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return "", ""
	}
	segs := strings.SplitN(rest, "/", 2)
	id = segs[0]
	if len(segs) == 2 {
		action = segs[1]
	}
	return id, action
}
