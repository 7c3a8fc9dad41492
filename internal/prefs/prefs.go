// Package prefs holds the cross-cutting display preferences: color mode,
// currency selection, and the cached exchange rate behind the money
// formatter every page uses.
package prefs

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fintrack/internal/core"
	"fintrack/internal/localstore"
)

const (
	ModeLight = "light"
	ModeDark  = "dark"
)

// RateSource records which branch produced the cached exchange rate, so
// callers (and tests) can tell a live quote from the baked-in default.
type RateSource string

const (
	RateLive     RateSource = "live"
	RateFallback RateSource = "fallback"
)

// RateResult is the cached USD->alternate conversion rate and where it
// came from.
type RateResult struct {
	Rate   float64
	Source RateSource
}

// Fetcher supplies the USD rate for a currency code. Implemented by
// rates.Client.
type Fetcher interface {
	Rate(ctx context.Context, code string) (float64, error)
}

// Config fixes the binary currency toggle. The base currency formats
// amounts as-is; the alternate multiplies by the cached rate.
type Config struct {
	BaseCurrency string // default USD
	AltCurrency  string // default INR
	FallbackRate float64
}

// Store is the preference store. Mutations persist immediately; Format is
// safe to call before (or without) a successful Refresh, using the
// fallback rate.
type Store struct {
	mu    sync.RWMutex
	local localstore.Store

	base     string
	alt      string
	mode     string
	currency string
	rate     RateResult

	printer *message.Printer
}

func New(local localstore.Store, cfg Config) *Store {
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
	}
	if cfg.AltCurrency == "" {
		cfg.AltCurrency = "INR"
	}
	if cfg.FallbackRate <= 0 {
		cfg.FallbackRate = 83.0
	}

	s := &Store{
		local:    local,
		base:     cfg.BaseCurrency,
		alt:      cfg.AltCurrency,
		mode:     ModeLight,
		currency: cfg.BaseCurrency,
		rate:     RateResult{Rate: cfg.FallbackRate, Source: RateFallback},
		printer:  message.NewPrinter(language.English),
	}

	// Re-hydrate persisted preferences; anything unrecognized degrades to
	// the defaults above.
	if v, ok := local.Get(localstore.KeyTheme); ok && (v == ModeLight || v == ModeDark) {
		s.mode = v
	}
	if v, ok := local.Get(localstore.KeyCurrency); ok && (v == s.base || v == s.alt) {
		s.currency = v
	}
	return s
}

// ColorMode returns the active mode, "light" or "dark".
func (s *Store) ColorMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// ToggleColorMode flips the mode and persists it immediately.
func (s *Store) ToggleColorMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeDark {
		s.mode = ModeLight
	} else {
		s.mode = ModeDark
	}
	if err := s.local.Set(localstore.KeyTheme, s.mode); err != nil {
		slog.Warn("Failed persisting color mode", "error", err)
	}
	return s.mode
}

// Currency returns the active currency code.
func (s *Store) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// ToggleCurrency flips between the two supported currencies and persists
// the choice. The Settings dropdown shows more codes; the store contract
// is this binary toggle.
func (s *Store) ToggleCurrency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currency == s.base {
		s.currency = s.alt
	} else {
		s.currency = s.base
	}
	if err := s.local.Set(localstore.KeyCurrency, s.currency); err != nil {
		slog.Warn("Failed persisting currency", "error", err)
	}
	return s.currency
}

// Rate returns the cached rate and its provenance.
func (s *Store) Rate() RateResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// Refresh fetches the current USD rate for the alternate currency once.
// On any failure the fallback stays in place; there is no retry.
func (s *Store) Refresh(ctx context.Context, f Fetcher) {
	rate, err := f.Rate(ctx, s.alt)
	if err != nil || rate <= 0 {
		slog.Warn("Exchange rate fetch failed, keeping fallback",
			"currency", s.alt, "error", err)
		return
	}
	s.mu.Lock()
	s.rate = RateResult{Rate: rate, Source: RateLive}
	s.mu.Unlock()
	slog.Info("Exchange rate refreshed", "currency", s.alt, "rate", rate)
}

// Format renders an amount in the active currency with two fraction
// digits: as-is in the base currency, converted through the cached rate
// otherwise. The zero Money renders as the zero amount, never "NaN".
func (s *Store) Format(m core.Money) string {
	s.mu.RLock()
	code := s.currency
	rate := s.rate.Rate
	s.mu.RUnlock()

	value := m.Float()
	if code != s.base {
		value *= rate
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	return s.printer.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}
