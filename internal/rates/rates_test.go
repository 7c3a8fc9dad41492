package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","rates":{"USD":1,"INR":88.21}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	rate, err := c.Rate(context.Background(), "INR")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rate != 88.21 {
		t.Fatalf("rate=%v", rate)
	}
}

func TestRateFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates": [`))
		}},
		{"missing code", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":"success","rates":{"EUR":0.85}}`))
		}},
		{"zero rate", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates":{"INR":0}}`))
		}},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(tc.handler)
		c := NewClient(srv.URL)
		if _, err := c.Rate(context.Background(), "INR"); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		srv.Close()
	}
}

func TestRateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // already closed: connection refused

	c := NewClient(srv.URL)
	if _, err := c.Rate(context.Background(), "INR"); err == nil {
		t.Fatalf("expected transport error")
	}
}
