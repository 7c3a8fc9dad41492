package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

// dashboardView bundles the four report payloads one dashboard render
// needs. It is what the dashboard cache stores.
type dashboardView struct {
	Summary    core.DashboardSummary
	ByCategory []core.CategoryAmount
	Trend      []core.DailyPoint
	History    []core.BalancePoint
}

// getDashboard fetches the month's reports concurrently. One failing
// fetch fails the whole dashboard; partial numbers would be misleading.
func (s *Server) getDashboard(ctx context.Context, month core.Month) (dashboardView, error) {
	key := "dash:" + month.String()
	if v, ok := s.dashCache.Get(key); ok {
		slog.DebugContext(ctx, "Dashboard cache hit", "month", month.String())
		return v, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	var v dashboardView
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		var err error
		v.Summary, err = s.backend.DashboardReport(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		v.ByCategory, err = s.backend.ExpenseByCategory(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		v.Trend, err = s.backend.DailyTrend(gctx, month)
		return err
	})
	g.Go(func() error {
		var err error
		v.History, err = s.backend.NetWorthHistory(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dashboardView{}, fmt.Errorf("fetch dashboard (month=%s): %w", month.String(), err)
	}

	s.dashCache.Set(key, v)
	slog.DebugContext(ctx, "Dashboard cached", "month", month.String(),
		"categories", len(v.ByCategory), "history_points", len(v.History))
	return v, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month := ParseMonthParam(r.URL.Query())

	v, err := s.getDashboard(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard fetch failed", "error", err, "month", month.String())
		s.render(w, r, "dashboard.html", dashboardData{Month: month.String(), LoadError: true})
		return
	}

	data := dashboardData{
		Month:        month.String(),
		TotalBalance: s.prefs.Format(v.Summary.TotalBalance),
		Income:       s.prefs.Format(v.Summary.Income),
		Expense:      s.prefs.Format(v.Summary.Expense),
		SavingsRate:  fmt.Sprintf("%.1f%%", core.SavingsRate(v.Summary.Income, v.Summary.Expense)),
	}

	if top, ok := core.TopCategory(v.ByCategory); ok {
		data.TopCategory = top.Name
	}

	// Scale category bars against the largest slice.
	var maxCents int64
	for _, c := range v.ByCategory {
		if c.Value.Cents > maxCents {
			maxCents = c.Value.Cents
		}
	}
	for _, c := range v.ByCategory {
		width := 0
		if maxCents > 0 && c.Value.Cents > 0 {
			width = int((c.Value.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Categories = append(data.Categories, categoryRow{
			Name:   c.Name,
			Amount: s.prefs.Format(c.Value),
			Width:  width,
		})
	}

	for _, p := range v.Trend {
		data.Trend = append(data.Trend, trendRow{Day: p.Day, Amount: s.prefs.Format(p.Amount)})
	}
	for _, p := range v.History {
		data.History = append(data.History, historyRow{Month: p.Month, Balance: s.prefs.Format(p.Balance)})
	}

	for _, tx := range v.Summary.RecentTransactions {
		data.Recent = append(data.Recent, transactionRow{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Description: tx.Description,
			Category:    tx.Category,
			Type:        string(tx.Type),
			Amount:      s.prefs.Format(tx.Amount),
		})
	}

	s.render(w, r, "dashboard.html", data)
}

type dashboardData struct {
	Month        string
	LoadError    bool
	TotalBalance string
	Income       string
	Expense      string
	SavingsRate  string
	TopCategory  string
	Categories   []categoryRow
	Trend        []trendRow
	History      []historyRow
	Recent       []transactionRow
}

type categoryRow struct {
	Name   string
	Amount string
	Width  int
}

type trendRow struct {
	Day    int
	Amount string
}

type historyRow struct {
	Month   string
	Balance string
}
