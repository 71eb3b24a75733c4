// Package sheets mirrors the ledger into a spreadsheet for read-only sharing.
// The record store stays the source of truth.
package sheets

import (
	"context"

	"ledger/internal/core"
)

// Mirror is an outbound copy of the transaction table.
type Mirror interface {
	// AppendTransaction adds one row for t.
	AppendTransaction(ctx context.Context, t core.Transaction) error
	// RemoveTransaction deletes the row for id; an absent row is not an error.
	RemoveTransaction(ctx context.Context, id int64) error
	// Clear empties the mirror.
	Clear(ctx context.Context) error
	// ReplaceAll rewrites the mirror to hold exactly txs, in order.
	ReplaceAll(ctx context.Context, txs []core.Transaction) error
}

// Header is the first row written to a mirror sheet.
var Header = []string{"ID", "Date", "Month", "Category", "Amount", "Description"}

// Row renders t in Header column order.
func Row(t core.Transaction) []string {
	month := ""
	if m, ok := t.Month(); ok {
		month = m.String()
	}
	return []string{
		formatID(t.ID),
		t.Date,
		month,
		string(t.Category),
		t.Amount.StringFixed(2),
		t.Description,
	}
}
