package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuilderWritesStatusAndBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		Status(http.StatusCreated).
		BodyHTML(`<div class="success">done</div>`).
		Write(rr)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type=%q", ct)
	}
	if !strings.Contains(rr.Body.String(), "done") {
		t.Fatalf("body=%q", rr.Body.String())
	}
}

func TestBuilderMergesTriggers(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerChanged("transaction", "created", "2026-03").
		TriggerFormReset().
		TriggerSuccessNotification("Saved").
		Write(rr)

	raw := rr.Header().Get("HX-Trigger")
	var triggers map[string]any
	if err := json.Unmarshal([]byte(raw), &triggers); err != nil {
		t.Fatalf("HX-Trigger not valid JSON: %q", raw)
	}

	if _, ok := triggers["transaction:created"]; !ok {
		t.Fatalf("missing transaction:created in %q", raw)
	}
	if _, ok := triggers["form:reset"]; !ok {
		t.Fatalf("missing form:reset in %q", raw)
	}
	notif, ok := triggers["show-notification"].(map[string]any)
	if !ok {
		t.Fatalf("missing show-notification in %q", raw)
	}
	if notif["type"] != "success" || notif["message"] != "Saved" {
		t.Fatalf("notification=%v", notif)
	}
}

func TestBuilderNoTriggersNoHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHTMXResponse().BodyString("ok").Write(rr)

	if rr.Header().Get("HX-Trigger") != "" {
		t.Fatalf("unexpected HX-Trigger header")
	}
}

func TestErrorResponseEscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	UnprocessableEntityError(`<script>alert("x")</script>`).Write(rr)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "<script>") {
		t.Fatalf("message not escaped: %s", rr.Body.String())
	}
}

func TestMethodNotAllowedSetsAllow(t *testing.T) {
	rr := httptest.NewRecorder()
	MethodNotAllowedError("GET, POST").Write(rr)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr.Header().Get("Allow") != "GET, POST" {
		t.Fatalf("Allow=%q", rr.Header().Get("Allow"))
	}
}
