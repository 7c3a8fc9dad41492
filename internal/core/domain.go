package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Bank    AccountType = "bank"
	Savings AccountType = "savings"
	Cash    AccountType = "cash"
	Credit  AccountType = "credit"
)

type (
	TransactionType string

	AccountType string

	Date struct {
		time.Time
	}

	// Month identifies a calendar month, serialized as YYYY-MM.
	Month struct {
		Year int
		Mon  time.Month
	}

	User struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	Account struct {
		ID       string      `json:"_id"`
		Name     string      `json:"name"`
		Type     AccountType `json:"type"`
		Balance  Money       `json:"balance"`
		Currency string      `json:"currency"`
		LastFour string      `json:"lastFour,omitempty"`
	}

	Transaction struct {
		ID          string          `json:"_id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		// AccountID is set for income/expense; the From/To pair for transfers.
		AccountID     string `json:"accountId,omitempty"`
		FromAccountID string `json:"fromAccountId,omitempty"`
		ToAccountID   string `json:"toAccountId,omitempty"`
	}

	Budget struct {
		ID       string `json:"_id"`
		Category string `json:"category"`
		Limit    Money  `json:"amount"`
		Spent    Money  `json:"spent"`
		Month    string `json:"month"`
	}
)

// Category taxonomies are fixed per transaction type; switching type
// invalidates the previous selection (see NormalizeForType).
var (
	ExpenseCategories = []string{"Food", "Rent", "Transport", "Shopping", "Entertainment", "Bills", "Others"}
	IncomeCategories  = []string{"Salary", "Business", "Investment", "Gift", "Others"}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyAccount     = errors.New("account is required")
	ErrSameAccount      = errors.New("source and destination accounts must differ")
	ErrUnknownCategory  = errors.New("category not valid for transaction type")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidAcctType  = errors.New("invalid account type")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD form value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	// Backends send either a bare date or a full RFC 3339 timestamp.
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// ParseMonth parses a YYYY-MM value.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// CurrentMonth returns the month containing now.
func CurrentMonth() Month {
	now := time.Now()
	return Month{Year: now.Year(), Mon: now.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (t AccountType) Valid() bool {
	switch t {
	case Bank, Savings, Cash, Credit:
		return true
	}
	return false
}

// CategoriesFor returns the selectable categories for a transaction type.
// Transfers carry no category.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Expense:
		return ExpenseCategories
	case Income:
		return IncomeCategories
	}
	return nil
}

func validCategory(t TransactionType, category string) bool {
	for _, c := range CategoriesFor(t) {
		if c == category {
			return true
		}
	}
	return false
}

// NormalizeForType clears the fields that do not survive a type switch:
// the category and every account selection. Valid categories and account
// roles differ per type, so a stale selection must not leak through.
func (tx *Transaction) NormalizeForType(t TransactionType) {
	if tx.Type == t {
		return
	}
	tx.Type = t
	tx.Category = ""
	tx.AccountID = ""
	tx.FromAccountID = ""
	tx.ToAccountID = ""
}

// Validate checks the transaction at form-submit time. It never reaches
// the network: a failure here means no request is issued.
func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.Description) == "" {
		return ErrEmptyDescription
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return errors.New("date is required")
	}
	if tx.Type == Transfer {
		if tx.FromAccountID == "" || tx.ToAccountID == "" {
			return ErrEmptyAccount
		}
		if tx.FromAccountID == tx.ToAccountID {
			return ErrSameAccount
		}
		return nil
	}
	if tx.AccountID == "" {
		return ErrEmptyAccount
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if !validCategory(tx.Type, tx.Category) {
		return ErrUnknownCategory
	}
	return nil
}

// SourceAccountID returns the account the money leaves, if any.
func (tx Transaction) SourceAccountID() string {
	if tx.Type == Transfer {
		return tx.FromAccountID
	}
	if tx.Type == Expense {
		return tx.AccountID
	}
	return ""
}

// OverdraftWarning reports an advisory message when an expense or transfer
// exceeds the source account's current balance. The balance check stays
// server-authoritative; this only warns.
func (tx Transaction) OverdraftWarning(accounts []Account) string {
	src := tx.SourceAccountID()
	if src == "" {
		return ""
	}
	for _, a := range accounts {
		if a.ID == src && tx.Amount.Cents > a.Balance.Cents {
			return fmt.Sprintf("Amount exceeds the balance of %s (%s available)", a.Name, a.Balance)
		}
	}
	return ""
}

// Validate checks an account form submission.
func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return ErrInvalidAcctType
	}
	if strings.TrimSpace(a.Currency) == "" {
		return errors.New("currency is required")
	}
	return nil
}

// Validate checks a budget form submission.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseMonth(b.Month); err != nil {
		return err
	}
	return nil
}

// Progress returns spent/limit as a 0-100 percentage, capped for display.
func (b Budget) Progress() int {
	if b.Limit.Cents <= 0 {
		return 0
	}
	p := int((b.Spent.Cents*100 + b.Limit.Cents/2) / b.Limit.Cents)
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// Over reports whether spending already crossed the ceiling.
func (b Budget) Over() bool {
	return b.Spent.Cents > b.Limit.Cents
}

// AccountName resolves an account ID to its display name, falling back to
// the raw ID when the account list does not contain it (deleted accounts).
func AccountName(accounts []Account, id string) string {
	for _, a := range accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}
