package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

type budgetRow struct {
	ID       string
	Category string
	Limit    string
	Spent    string
	Progress int
	Over     bool
}

type budgetsData struct {
	Month   string
	Budgets []budgetRow
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderBudgets(w, r)
	case http.MethodPost:
		s.handleCreateBudget(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderBudgets(w http.ResponseWriter, r *http.Request) {
	month := ParseMonthParam(r.URL.Query())
	data := budgetsData{Month: month.String()}

	budgets, err := s.backend.ListBudgets(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list failed", "error", err, "month", month.String())
		s.render(w, r, "budgets.html", data)
		return
	}

	for _, b := range budgets {
		data.Budgets = append(data.Budgets, budgetRow{
			ID:       b.ID,
			Category: b.Category,
			Limit:    s.prefs.Format(b.Limit),
			Spent:    s.prefs.Format(b.Spent),
			Progress: b.Progress(),
			Over:     b.Over(),
		})
	}
	s.render(w, r, "budgets.html", data)
}

func (s *Server) handleBudgetForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "budget_form.html", struct {
		Month      string
		Categories []string
	}{
		Month:      ParseMonthParam(r.URL.Query()).String(),
		Categories: core.CategoriesFor(core.Expense),
	})
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	month := core.CurrentMonth()
	if v := sanitizeInput(r.Form.Get("month")); v != "" {
		m, err := core.ParseMonth(v)
		if err != nil {
			UnprocessableEntityError("Invalid month").Write(w)
			return
		}
		month = m
	}

	budget := core.Budget{
		Category: sanitizeInput(r.Form.Get("category")),
		Limit:    core.Money{Cents: cents},
		Month:    month.String(),
	}
	if err := budget.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	// The backend rejects a second budget for the same category and
	// month; its message is surfaced as-is.
	created, err := s.backend.CreateBudget(r.Context(), budget)
	if err != nil {
		slog.WarnContext(r.Context(), "Budget create rejected",
			"error", err, "category", budget.Category, "month", budget.Month)
		backendError(err, "Could not create budget").Write(w)
		return
	}

	s.dashCache.DeletePrefix("dash:")
	s.publishActivity(r.Context(), "budget", "created", created.ID, month)
	slog.InfoContext(r.Context(), "Budget created",
		"budget_id", created.ID, "category", created.Category, "month", created.Month)

	b := NewHTMXResponse().
		TriggerChanged("budget", "created", month.String()).
		TriggerSuccessNotification("Budget for " + created.Category + " created")
	redirectAfterMutation(w, r, "/budgets?month="+month.String(), b)
}

// handleBudgetByID dispatches /budgets/{id}/delete.
func (s *Server) handleBudgetByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathParts(r.URL.Path, "/budgets/")
	if id == "" || action != "delete" {
		NotFoundError("Unknown budget action").Write(w)
		return
	}

	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.backend.DeleteBudget(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Budget delete failed", "error", err, "budget_id", id)
		backendError(err, "Could not delete budget").Write(w)
		return
	}

	month := ParseMonthParam(r.URL.Query())
	s.dashCache.DeletePrefix("dash:")
	s.publishActivity(r.Context(), "budget", "deleted", id, month)
	slog.InfoContext(r.Context(), "Budget deleted", "budget_id", id)

	b := NewHTMXResponse().
		TriggerChanged("budget", "deleted", month.String()).
		TriggerSuccessNotification("Budget deleted")
	redirectAfterMutation(w, r, "/budgets?month="+month.String(), b)
}
