package core

import "strings"

// TransactionFilter narrows a fetched transaction list for display. Both
// predicates apply at once: a row must match the search text AND the type.
type TransactionFilter struct {
	// Search matches case-insensitively against description or category.
	Search string
	// Type, when set, must match exactly.
	Type TransactionType
}

func (f TransactionFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Type == ""
}

func (f TransactionFilter) matches(tx Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tx.Description), q) ||
		strings.Contains(strings.ToLower(tx.Category), q)
}

// Apply returns the transactions satisfying the filter, preserving order.
// The input slice is never mutated.
func (f TransactionFilter) Apply(txs []Transaction) []Transaction {
	if f.IsZero() {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}
