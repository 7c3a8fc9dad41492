package api

import (
	"context"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/session"
)

// Auth

func (c *Client) Login(ctx context.Context, email, password string) (session.Credentials, error) {
	var creds session.Credentials
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &creds)
	return creds, err
}

func (c *Client) Register(ctx context.Context, name, email, password string) (session.Credentials, error) {
	var creds session.Credentials
	body := map[string]string{"name": name, "email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &creds)
	return creds, err
}

func (c *Client) UpdateProfile(ctx context.Context, name, email string) (core.User, error) {
	var user core.User
	body := map[string]string{"name": name, "email": email}
	err := c.do(ctx, http.MethodPut, "/auth/update-profile", nil, body, &user)
	return user, err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/auth/change-password", nil, body, nil)
}

// Accounts

func (c *Client) ListAccounts(ctx context.Context) ([]core.Account, error) {
	var accounts []core.Account
	err := c.do(ctx, http.MethodGet, "/accounts", nil, nil, &accounts)
	return accounts, err
}

func (c *Client) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	var created core.Account
	err := c.do(ctx, http.MethodPost, "/accounts", nil, a, &created)
	return created, err
}

func (c *Client) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	var updated core.Account
	err := c.do(ctx, http.MethodPut, "/accounts/"+a.ID, nil, a, &updated)
	return updated, err
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+id, nil, nil, nil)
}

// Transactions

func (c *Client) ListTransactions(ctx context.Context, month core.Month) ([]core.Transaction, error) {
	var txs []core.Transaction
	err := c.do(ctx, http.MethodGet, "/transactions", monthQuery(month), nil, &txs)
	return txs, err
}

func (c *Client) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var created core.Transaction
	err := c.do(ctx, http.MethodPost, "/transactions", nil, tx, &created)
	return created, err
}

func (c *Client) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	var updated core.Transaction
	err := c.do(ctx, http.MethodPut, "/transactions/"+tx.ID, nil, tx, &updated)
	return updated, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+id, nil, nil, nil)
}

// Budgets

func (c *Client) ListBudgets(ctx context.Context, month core.Month) ([]core.Budget, error) {
	var budgets []core.Budget
	err := c.do(ctx, http.MethodGet, "/budgets", monthQuery(month), nil, &budgets)
	return budgets, err
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var created core.Budget
	err := c.do(ctx, http.MethodPost, "/budgets", nil, b, &created)
	return created, err
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/budgets/"+id, nil, nil, nil)
}

// Reports

func (c *Client) DashboardReport(ctx context.Context, month core.Month) (core.DashboardSummary, error) {
	var summary core.DashboardSummary
	err := c.do(ctx, http.MethodGet, "/reports/dashboard", monthQuery(month), nil, &summary)
	return summary, err
}

func (c *Client) ExpenseByCategory(ctx context.Context, month core.Month) ([]core.CategoryAmount, error) {
	var breakdown []core.CategoryAmount
	err := c.do(ctx, http.MethodGet, "/reports/expense-category", monthQuery(month), nil, &breakdown)
	return breakdown, err
}

func (c *Client) DailyTrend(ctx context.Context, month core.Month) ([]core.DailyPoint, error) {
	var points []core.DailyPoint
	err := c.do(ctx, http.MethodGet, "/reports/daily-trend", monthQuery(month), nil, &points)
	return points, err
}

func (c *Client) NetWorthHistory(ctx context.Context) ([]core.BalancePoint, error) {
	var points []core.BalancePoint
	err := c.do(ctx, http.MethodGet, "/reports/net-worth-history", nil, nil, &points)
	return points, err
}
