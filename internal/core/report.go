package core

// Report payloads mirror what the backend's /reports endpoints return.
// They arrive pre-aggregated; the client only derives display values
// (savings rate, top category, totals) from them.
type (
	// DashboardSummary is the response of /reports/dashboard.
	DashboardSummary struct {
		TotalBalance       Money         `json:"totalBalance"`
		Income             Money         `json:"income"`
		Expense            Money         `json:"expense"`
		RecentTransactions []Transaction `json:"recentTransactions"`
	}

	// CategoryAmount is one slice of /reports/expense-category.
	CategoryAmount struct {
		Name  string `json:"name"`
		Value Money  `json:"value"`
	}

	// DailyPoint is one point of /reports/daily-trend.
	DailyPoint struct {
		Day    int   `json:"day"`
		Amount Money `json:"amount"`
	}

	// BalancePoint is one point of /reports/net-worth-history.
	BalancePoint struct {
		Month   string `json:"month"`
		Balance Money  `json:"balance"`
	}
)

// SavingsRate returns (income-expense)/income as a percentage. Income of
// zero (or less) yields 0, never a division by zero. Overspending yields
// a negative rate.
func SavingsRate(income, expense Money) float64 {
	if income.Cents <= 0 {
		return 0
	}
	return float64(income.Cents-expense.Cents) / float64(income.Cents) * 100
}

// TopCategory returns the category with the largest value, or false when
// the breakdown is empty.
func TopCategory(breakdown []CategoryAmount) (CategoryAmount, bool) {
	if len(breakdown) == 0 {
		return CategoryAmount{}, false
	}
	top := breakdown[0]
	for _, c := range breakdown[1:] {
		if c.Value.Cents > top.Value.Cents {
			top = c
		}
	}
	return top, true
}

// TotalBalance sums account balances for the aggregate display row.
func TotalBalance(accounts []Account) Money {
	var sum int64
	for _, a := range accounts {
		sum += a.Balance.Cents
	}
	return Money{Cents: sum}
}
