package core

import (
	"strings"
	"time"
)

var csvHeader = []string{"Date", "Description", "Category", "Type", "Amount", "Account"}

// ExportCSV serializes transactions to comma-separated rows: date,
// description, category, type, amount, account name(s). Literal commas in
// the description are stripped so a free-text field cannot shift columns.
func ExportCSV(txs []Transaction, accounts []Account) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')
	for _, tx := range txs {
		row := []string{
			tx.Date.String(),
			csvField(tx.Description),
			csvField(tx.Category),
			string(tx.Type),
			tx.Amount.String(),
			csvField(exportAccountNames(tx, accounts)),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// ExportFilename builds the download name with the export date baked in,
// e.g. "transactions_2026-01-15.csv".
func ExportFilename(now time.Time) string {
	return "transactions_" + now.Format("2006-01-02") + ".csv"
}

func exportAccountNames(tx Transaction, accounts []Account) string {
	if tx.Type == Transfer {
		return AccountName(accounts, tx.FromAccountID) + " -> " + AccountName(accounts, tx.ToAccountID)
	}
	return AccountName(accounts, tx.AccountID)
}

func csvField(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
