package prefs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/localstore"
)

type fakeFetcher struct {
	rate float64
	err  error
}

func (f fakeFetcher) Rate(ctx context.Context, code string) (float64, error) {
	return f.rate, f.err
}

func newTestStore() (*Store, *localstore.Memory) {
	local := localstore.NewMemory()
	return New(local, Config{FallbackRate: 83.0}), local
}

func TestToggleCurrencyIdempotence(t *testing.T) {
	s, _ := newTestStore()
	amount := core.Money{Cents: 123456}

	original := s.Currency()
	before := s.Format(amount)

	if got := s.ToggleCurrency(); got == original {
		t.Fatalf("toggle did not switch currency")
	}
	s.ToggleCurrency()

	if s.Currency() != original {
		t.Fatalf("double toggle: currency=%q, want %q", s.Currency(), original)
	}
	if after := s.Format(amount); after != before {
		t.Fatalf("double toggle changed output: %q vs %q", after, before)
	}
}

func TestTogglePersistsImmediately(t *testing.T) {
	s, local := newTestStore()
	s.ToggleCurrency()
	if v, ok := local.Get(localstore.KeyCurrency); !ok || v != "INR" {
		t.Fatalf("currency not persisted: %q %v", v, ok)
	}
	s.ToggleColorMode()
	if v, ok := local.Get(localstore.KeyTheme); !ok || v != ModeDark {
		t.Fatalf("mode not persisted: %q %v", v, ok)
	}

	// A fresh store over the same local storage restores both.
	s2 := New(local, Config{})
	if s2.Currency() != "INR" || s2.ColorMode() != ModeDark {
		t.Fatalf("restore: currency=%q mode=%q", s2.Currency(), s2.ColorMode())
	}
}

func TestRestoreIgnoresGarbage(t *testing.T) {
	local := localstore.NewMemory()
	local.Set(localstore.KeyTheme, "blurple")
	local.Set(localstore.KeyCurrency, "DOGE")
	s := New(local, Config{})
	if s.ColorMode() != ModeLight || s.Currency() != "USD" {
		t.Fatalf("defaults not applied: mode=%q currency=%q", s.ColorMode(), s.Currency())
	}
}

func TestFormatZeroNeverNaN(t *testing.T) {
	s, _ := newTestStore()
	for _, m := range []core.Money{{}, {Cents: 0}} {
		got := s.Format(m)
		if got == "" || strings.Contains(got, "NaN") {
			t.Fatalf("zero amount rendered as %q", got)
		}
		if !strings.Contains(got, "0.00") {
			t.Fatalf("expected two-digit zero amount, got %q", got)
		}
	}

	// Same guarantees in the alternate currency, pre-Refresh.
	s.ToggleCurrency()
	got := s.Format(core.Money{})
	if strings.Contains(got, "NaN") || !strings.Contains(got, "0.00") {
		t.Fatalf("alt zero amount rendered as %q", got)
	}
}

func TestRefreshLiveAndFallback(t *testing.T) {
	s, _ := newTestStore()
	if r := s.Rate(); r.Source != RateFallback || r.Rate != 83.0 {
		t.Fatalf("initial rate: %+v", r)
	}

	s.Refresh(context.Background(), fakeFetcher{rate: 88.5})
	if r := s.Rate(); r.Source != RateLive || r.Rate != 88.5 {
		t.Fatalf("after live refresh: %+v", r)
	}

	// A failed refresh keeps the previous value silently.
	s.Refresh(context.Background(), fakeFetcher{err: errors.New("network down")})
	if r := s.Rate(); r.Source != RateLive || r.Rate != 88.5 {
		t.Fatalf("failed refresh overwrote rate: %+v", r)
	}

	s2, _ := newTestStore()
	s2.Refresh(context.Background(), fakeFetcher{rate: -1})
	if r := s2.Rate(); r.Source != RateFallback {
		t.Fatalf("nonsense rate accepted: %+v", r)
	}
}

func TestFormatAppliesRateInAltCurrency(t *testing.T) {
	s, _ := newTestStore()
	s.Refresh(context.Background(), fakeFetcher{rate: 2})
	s.ToggleCurrency()

	got := s.Format(core.Money{Cents: 1000}) // 10.00 USD -> 20.00 INR
	if !strings.Contains(got, "20.00") {
		t.Fatalf("conversion missing: %q", got)
	}
}
