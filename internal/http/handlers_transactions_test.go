package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func postForm(srv *Server, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestCreateTransferSameAccountStaysLocal(t *testing.T) {
	// Any backend request fails the test: the invalid form must be
	// rejected before the network.
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	})
	srv, sessions := newTestServer(t, backend)
	signIn(t, sessions)

	rr := postForm(srv, "/transactions", url.Values{
		"type":          {"transfer"},
		"description":   {"move savings"},
		"amount":        {"100.00"},
		"fromAccountId": {"a1"},
		"toAccountId":   {"a1"},
	}, true)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "differ") {
		t.Fatalf("expected same-account message, got: %s", rr.Body.String())
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	})
	srv, sessions := newTestServer(t, backend)
	signIn(t, sessions)

	tests := []struct {
		name string
		form url.Values
	}{
		{"bad amount", url.Values{"type": {"expense"}, "description": {"x"}, "amount": {"abc"}, "category": {"Food"}, "accountId": {"a1"}}},
		{"zero amount", url.Values{"type": {"expense"}, "description": {"x"}, "amount": {"0"}, "category": {"Food"}, "accountId": {"a1"}}},
		{"missing description", url.Values{"type": {"expense"}, "description": {""}, "amount": {"5"}, "category": {"Food"}, "accountId": {"a1"}}},
		{"wrong category for type", url.Values{"type": {"income"}, "description": {"x"}, "amount": {"5"}, "category": {"Rent"}, "accountId": {"a1"}}},
		{"missing account", url.Values{"type": {"expense"}, "description": {"x"}, "amount": {"5"}, "category": {"Food"}, "accountId": {""}}},
		{"bad type", url.Values{"type": {"loan"}, "description": {"x"}, "amount": {"5"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postForm(srv, "/transactions", tt.form, true)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d, want 422: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func testAccounts() []core.Account {
	return []core.Account{
		{ID: "a1", Name: "Checking", Type: core.Bank, Balance: core.Money{Cents: 50000}, Currency: "USD"},
		{ID: "a2", Name: "Savings", Type: core.Savings, Balance: core.Money{Cents: 200000}, Currency: "USD"},
	}
}

func TestCreateTransactionSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testAccounts())
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var tx core.Transaction
		if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
			t.Errorf("decode transaction: %v", err)
		}
		if tx.Amount.Cents != 1250 {
			t.Errorf("amount cents=%d, want 1250", tx.Amount.Cents)
		}
		tx.ID = "tx-1"
		_ = json.NewEncoder(w).Encode(tx)
	})
	srv, sessions := newTestServer(t, mux)
	signIn(t, sessions)

	rr := postForm(srv, "/transactions", url.Values{
		"type":        {"expense"},
		"description": {"groceries"},
		"amount":      {"12.50"},
		"date":        {"2026-03-14"},
		"category":    {"Food"},
		"accountId":   {"a1"},
	}, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/transactions?month=2026-03" {
		t.Fatalf("HX-Redirect=%q", got)
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "transaction:created") || !strings.Contains(trigger, "2026-03") {
		t.Fatalf("HX-Trigger=%q", trigger)
	}
}

func TestCreateTransactionOverdraftWarning(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testAccounts())
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		var tx core.Transaction
		_ = json.NewDecoder(r.Body).Decode(&tx)
		tx.ID = "tx-2"
		_ = json.NewEncoder(w).Encode(tx)
	})
	srv, sessions := newTestServer(t, mux)
	signIn(t, sessions)

	// Spending far more than the checking balance: saved, but flagged.
	rr := postForm(srv, "/transactions", url.Values{
		"type":        {"expense"},
		"description": {"rent"},
		"amount":      {"9000.00"},
		"date":        {"2026-03-01"},
		"category":    {"Rent"},
		"accountId":   {"a1"},
	}, true)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d: %s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "warning") {
		t.Fatalf("expected overdraft warning trigger, got %q", trigger)
	}
}

func TestCreateTransactionPlainFormRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testAccounts())
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		var tx core.Transaction
		_ = json.NewDecoder(r.Body).Decode(&tx)
		tx.ID = "tx-3"
		_ = json.NewEncoder(w).Encode(tx)
	})
	srv, sessions := newTestServer(t, mux)
	signIn(t, sessions)

	rr := postForm(srv, "/transactions", url.Values{
		"type":        {"income"},
		"description": {"paycheck"},
		"amount":      {"2500"},
		"date":        {"2026-03-31"},
		"category":    {"Salary"},
		"accountId":   {"a1"},
	}, false)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status=%d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/transactions?month=2026-03" {
		t.Fatalf("Location=%q", loc)
	}
}

func TestTransactionListAppliesFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testAccounts())
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		txs := []core.Transaction{
			{ID: "t1", Description: "coffee", Amount: core.Money{Cents: 400}, Type: core.Expense, Category: "Food", Date: core.NewDate(2026, 3, 2), AccountID: "a1"},
			{ID: "t2", Description: "paycheck", Amount: core.Money{Cents: 250000}, Type: core.Income, Category: "Salary", Date: core.NewDate(2026, 3, 1), AccountID: "a1"},
		}
		_ = json.NewEncoder(w).Encode(txs)
	})
	srv, sessions := newTestServer(t, mux)
	signIn(t, sessions)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transactions?month=2026-03&q=coffee", nil))
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "coffee") {
		t.Fatalf("expected matching transaction in page")
	}
	if strings.Contains(body, "paycheck") {
		t.Fatalf("expected non-matching transaction filtered out")
	}
}

func TestTransactionExportCSV(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testAccounts())
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		txs := []core.Transaction{
			{ID: "t1", Description: "Rent, March", Amount: core.Money{Cents: 120000}, Type: core.Expense, Category: "Rent", Date: core.NewDate(2026, 3, 1), AccountID: "a1"},
		}
		_ = json.NewEncoder(w).Encode(txs)
	})
	srv, sessions := newTestServer(t, mux)
	signIn(t, sessions)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transactions/export?month=2026-03", nil))
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type=%q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions_") {
		t.Fatalf("Content-Disposition=%q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "Date,Description,Category,Type,Amount,Account" {
		t.Fatalf("header=%q", lines[0])
	}
	// The embedded comma is stripped so the row keeps six columns.
	if got := len(strings.Split(lines[1], ",")); got != 6 {
		t.Fatalf("row has %d columns, want 6: %q", got, lines[1])
	}
}

func TestDeleteTransactionInvalidatesCache(t *testing.T) {
	var listCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testAccounts())
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		_ = json.NewEncoder(w).Encode([]core.Transaction{})
	})
	mux.HandleFunc("/transactions/t1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})
	srv, sessions := newTestServer(t, mux)
	signIn(t, sessions)

	// Two reads, one backend hit: second comes from cache.
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transactions?month=2026-03", nil))
		if rr.Code != 200 {
			t.Fatalf("status=%d", rr.Code)
		}
	}
	if listCalls != 1 {
		t.Fatalf("list calls=%d, want 1 (cached)", listCalls)
	}

	rr := postForm(srv, "/transactions/t1/delete?month=2026-03", url.Values{}, false)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete status=%d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/transactions?month=2026-03", nil))
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if listCalls != 2 {
		t.Fatalf("list calls=%d, want 2 after invalidation", listCalls)
	}
}
