package http

import (
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
)

type transactionRow struct {
	ID          string
	Date        string
	Description string
	Category    string
	Type        string
	Amount      string
	Account     string
}

type transactionsData struct {
	Month        string
	Search       string
	Type         string
	Transactions []transactionRow
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderTransactions(w http.ResponseWriter, r *http.Request) {
	month := ParseMonthParam(r.URL.Query())
	filter := ParseFilterParams(r.URL.Query())

	data := transactionsData{
		Month:  month.String(),
		Search: filter.Search,
		Type:   string(filter.Type),
	}

	txs, err := s.getTransactions(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list failed", "error", err, "month", month.String())
		s.render(w, r, "transactions.html", data)
		return
	}
	accounts, err := s.getAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list failed", "error", err)
	}

	for _, tx := range filter.Apply(txs) {
		account := core.AccountName(accounts, tx.AccountID)
		if tx.Type == core.Transfer {
			account = core.AccountName(accounts, tx.FromAccountID) + " -> " + core.AccountName(accounts, tx.ToAccountID)
		}
		data.Transactions = append(data.Transactions, transactionRow{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Description: tx.Description,
			Category:    tx.Category,
			Type:        string(tx.Type),
			Amount:      s.prefs.Format(tx.Amount),
			Account:     account,
		})
	}
	s.render(w, r, "transactions.html", data)
}

type transactionFormData struct {
	Today             string
	Accounts          []core.Account
	ExpenseCategories []string
	IncomeCategories  []string
}

func (s *Server) handleTransactionForm(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.getAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list failed", "error", err)
	}
	s.render(w, r, "transaction_form.html", transactionFormData{
		Today:             time.Now().Format("2006-01-02"),
		Accounts:          accounts,
		ExpenseCategories: core.CategoriesFor(core.Expense),
		IncomeCategories:  core.CategoriesFor(core.Income),
	})
}

// handleCreateTransaction validates the submitted transaction entirely
// locally before touching the backend: an invalid form (including a
// transfer between the same account) never produces a network call.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	txType := core.TransactionType(sanitizeInput(r.Form.Get("type")))
	if !txType.Valid() {
		UnprocessableEntityError("Invalid transaction type").Write(w)
		return
	}

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	date := core.Date{Time: time.Now()}
	if v := sanitizeInput(r.Form.Get("date")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			date = d
		}
	}

	tx := core.Transaction{
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      core.Money{Cents: cents},
		Type:        txType,
		Date:        date,
	}
	// Only the fields belonging to the selected type survive, mirroring
	// the form's behavior when the user switches type.
	switch txType {
	case core.Transfer:
		tx.FromAccountID = sanitizeInput(r.Form.Get("fromAccountId"))
		tx.ToAccountID = sanitizeInput(r.Form.Get("toAccountId"))
	default:
		tx.Category = sanitizeInput(r.Form.Get("category"))
		tx.AccountID = sanitizeInput(r.Form.Get("accountId"))
	}

	if err := tx.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	// Overdraft is advisory only; the mutation still goes through.
	var warning string
	if txType != core.Income {
		if accounts, err := s.getAccounts(r.Context()); err == nil {
			warning = tx.OverdraftWarning(accounts)
		}
	}

	created, err := s.backend.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction create failed",
			"error", err, "type", string(tx.Type), "amount_cents", tx.Amount.Cents)
		backendError(err, "Could not save transaction").Write(w)
		return
	}

	month := core.Month{Year: date.Year(), Mon: date.Month()}
	s.invalidateMonth(month)
	s.invalidateAccounts()
	s.publishActivity(r.Context(), "transaction", "created", created.ID, month)

	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", created.ID,
		"type", string(created.Type),
		"amount_cents", created.Amount.Cents,
		"month", month.String())

	b := NewHTMXResponse().
		TriggerChanged("transaction", "created", month.String()).
		TriggerFormReset().
		TriggerSuccessNotification("Transaction saved")
	if warning != "" {
		b.TriggerWarningNotification(warning)
	}
	redirectAfterMutation(w, r, "/transactions?month="+month.String(), b)
}

// handleTransactionByID dispatches /transactions/{id}/update and
// /transactions/{id}/delete.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathParts(r.URL.Path, "/transactions/")
	if id == "" {
		NotFoundError("Transaction not found").Write(w)
		return
	}

	switch action {
	case "delete":
		s.handleDeleteTransaction(w, r, id)
	default:
		NotFoundError("Unknown transaction action").Write(w)
	}
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.backend.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "transaction_id", id)
		backendError(err, "Could not delete transaction").Write(w)
		return
	}

	month := ParseMonthParam(r.URL.Query())
	s.invalidateMonth(month)
	s.invalidateAccounts()
	s.publishActivity(r.Context(), "transaction", "deleted", id, month)
	slog.InfoContext(r.Context(), "Transaction deleted", "transaction_id", id, "month", month.String())

	b := NewHTMXResponse().
		TriggerChanged("transaction", "deleted", month.String()).
		TriggerSuccessNotification("Transaction deleted")
	redirectAfterMutation(w, r, "/transactions?month="+month.String(), b)
}

// handleTransactionExport streams the month's (filtered) transactions as
// a CSV download.
func (s *Server) handleTransactionExport(w http.ResponseWriter, r *http.Request) {
	month := ParseMonthParam(r.URL.Query())
	filter := ParseFilterParams(r.URL.Query())

	txs, err := s.getTransactions(r.Context(), month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export fetch failed", "error", err, "month", month.String())
		backendError(err, "Could not export transactions").Write(w)
		return
	}
	accounts, err := s.getAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list failed", "error", err)
	}

	body := core.ExportCSV(filter.Apply(txs), accounts)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFilename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
