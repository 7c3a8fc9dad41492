package core

import (
	"strings"
	"testing"
	"time"
)

func TestExportCSVSanitizesCommas(t *testing.T) {
	accounts := []Account{{ID: "a1", Name: "Checking"}}
	txs := []Transaction{{
		Description: "Rent, March",
		Category:    "Rent",
		Type:        Expense,
		Amount:      Money{Cents: 90000},
		Date:        NewDate(2026, 3, 1),
		AccountID:   "a1",
	}}

	out := ExportCSV(txs, accounts)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d", len(lines))
	}
	header := strings.Split(lines[0], ",")
	row := strings.Split(lines[1], ",")
	if len(row) != len(header) {
		t.Fatalf("embedded comma altered column count: %d vs %d", len(row), len(header))
	}
	if row[1] != "Rent March" {
		t.Fatalf("description=%q", row[1])
	}
	if row[4] != "900.00" {
		t.Fatalf("amount=%q", row[4])
	}
}

func TestExportCSVTransferNamesBothAccounts(t *testing.T) {
	accounts := []Account{{ID: "a1", Name: "Checking"}, {ID: "a2", Name: "Vault"}}
	txs := []Transaction{{
		Description:   "Stash",
		Type:          Transfer,
		Amount:        Money{Cents: 100},
		Date:          NewDate(2026, 1, 2),
		FromAccountID: "a1",
		ToAccountID:   "a2",
	}}

	out := ExportCSV(txs, accounts)
	if !strings.Contains(out, "Checking -> Vault") {
		t.Fatalf("missing transfer endpoints: %s", out)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	if got := ExportFilename(now); got != "transactions_2026-01-15.csv" {
		t.Fatalf("got %q", got)
	}
}
