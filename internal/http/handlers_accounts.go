package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

type accountRow struct {
	ID       string
	Name     string
	Type     string
	Balance  string
	LastFour string
}

type accountsData struct {
	Accounts []accountRow
	Total    string
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAccounts(w, r)
	case http.MethodPost:
		s.handleCreateAccount(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) renderAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.getAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list failed", "error", err)
		s.render(w, r, "accounts.html", accountsData{})
		return
	}

	data := accountsData{Total: s.prefs.Format(core.TotalBalance(accounts))}
	for _, a := range accounts {
		data.Accounts = append(data.Accounts, accountRow{
			ID:       a.ID,
			Name:     a.Name,
			Type:     string(a.Type),
			Balance:  s.prefs.Format(a.Balance),
			LastFour: a.LastFour,
		})
	}
	s.render(w, r, "accounts.html", data)
}

type accountFormData struct {
	Title     string
	Action    string
	Types     []string
	TypeValue string
	Balance   string
	Account   core.Account
}

var accountTypes = []string{"bank", "savings", "cash", "credit"}

func (s *Server) handleAccountForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "account_form.html", accountFormData{
		Title:     "Add account",
		Action:    "/accounts",
		Types:     accountTypes,
		TypeValue: "bank",
		Balance:   "0",
	})
}

func (s *Server) handleEditAccountForm(w http.ResponseWriter, r *http.Request, id string) {
	accounts, err := s.getAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list failed", "error", err, "account_id", id)
		backendError(err, "Could not load account").Write(w)
		return
	}
	for _, a := range accounts {
		if a.ID == id {
			s.render(w, r, "account_form.html", accountFormData{
				Title:     "Edit account",
				Action:    "/accounts/" + a.ID + "/update",
				Types:     accountTypes,
				TypeValue: string(a.Type),
				Balance:   a.Balance.String(),
				Account:   a,
			})
			return
		}
	}
	NotFoundError("Account not found").Write(w)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	account, resp := accountFromForm(r)
	if resp != nil {
		resp.Write(w)
		return
	}

	created, err := s.backend.CreateAccount(r.Context(), account)
	if err != nil {
		slog.ErrorContext(r.Context(), "Account create failed", "error", err, "name", account.Name)
		backendError(err, "Could not create account").Write(w)
		return
	}

	s.invalidateAccounts()
	s.publishActivity(r.Context(), "account", "created", created.ID, core.CurrentMonth())
	slog.InfoContext(r.Context(), "Account created", "account_id", created.ID, "type", created.Type)

	b := NewHTMXResponse().
		TriggerChanged("account", "created", core.CurrentMonth().String()).
		TriggerSuccessNotification("Account " + created.Name + " created")
	redirectAfterMutation(w, r, "/accounts", b)
}

// handleAccountByID dispatches /accounts/{id}/update and
// /accounts/{id}/delete.
func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathParts(r.URL.Path, "/accounts/")
	if id == "" {
		NotFoundError("Account not found").Write(w)
		return
	}

	switch action {
	case "edit":
		s.handleEditAccountForm(w, r, id)
	case "update":
		s.handleUpdateAccount(w, r, id)
	case "delete":
		s.handleDeleteAccount(w, r, id)
	default:
		NotFoundError("Unknown account action").Write(w)
	}
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, id string) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	account, resp := accountFromForm(r)
	if resp != nil {
		resp.Write(w)
		return
	}
	account.ID = id

	updated, err := s.backend.UpdateAccount(r.Context(), account)
	if err != nil {
		slog.ErrorContext(r.Context(), "Account update failed", "error", err, "account_id", id)
		backendError(err, "Could not update account").Write(w)
		return
	}

	s.invalidateAccounts()
	s.publishActivity(r.Context(), "account", "updated", updated.ID, core.CurrentMonth())

	b := NewHTMXResponse().
		TriggerChanged("account", "updated", core.CurrentMonth().String()).
		TriggerSuccessNotification("Account updated")
	redirectAfterMutation(w, r, "/accounts", b)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.backend.DeleteAccount(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Account delete failed", "error", err, "account_id", id)
		backendError(err, "Could not delete account").Write(w)
		return
	}

	s.invalidateAccounts()
	s.publishActivity(r.Context(), "account", "deleted", id, core.CurrentMonth())
	slog.InfoContext(r.Context(), "Account deleted", "account_id", id)

	b := NewHTMXResponse().
		TriggerChanged("account", "deleted", core.CurrentMonth().String()).
		TriggerSuccessNotification("Account deleted")
	redirectAfterMutation(w, r, "/accounts", b)
}

// accountFromForm builds and validates an account from form values.
// The balance field accepts a signed decimal; credit accounts routinely
// start below zero.
func accountFromForm(r *http.Request) (core.Account, *HTMXResponseBuilder) {
	name := sanitizeInput(r.Form.Get("name"))
	acctType := core.AccountType(sanitizeInput(r.Form.Get("type")))
	lastFour := sanitizeInput(r.Form.Get("lastFour"))

	cents, err := core.ParseBalanceToCents(r.Form.Get("balance"))
	if err != nil {
		return core.Account{}, UnprocessableEntityError("Invalid balance")
	}

	account := core.Account{
		Name:     name,
		Type:     acctType,
		Balance:  core.Money{Cents: cents},
		Currency: "USD",
		LastFour: lastFour,
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, UnprocessableEntityError(err.Error())
	}
	return account, nil
}
