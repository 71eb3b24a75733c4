package storage

import (
	"context"
	"errors"

	"ledger/internal/core"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("not found")

type (
	TransactionWriter interface {
		// AppendTransaction stores t and returns the id it was assigned.
		// Ids are never reused.
		AppendTransaction(ctx context.Context, t core.NewTransaction) (int64, error)
		// DeleteTransaction removes one row. Other ids are unchanged and an
		// unknown id is not an error.
		DeleteTransaction(ctx context.Context, id int64) error
	}

	TransactionReader interface {
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		// ListTransactions returns every row ordered by date, then id.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	BudgetWriter interface {
		// UpsertBudget sets the budget of a month, replacing any previous one.
		UpsertBudget(ctx context.Context, b core.BudgetEntry) error
	}

	BudgetReader interface {
		// ListBudgets returns every budget ordered by month.
		ListBudgets(ctx context.Context) ([]core.BudgetEntry, error)
	}

	Wiper interface {
		// ClearAll deletes every transaction and budget.
		ClearAll(ctx context.Context) error
	}

	// RecordStore is the full persistence surface of the ledger.
	RecordStore interface {
		TransactionWriter
		TransactionReader
		BudgetWriter
		BudgetReader
		Wiper
		Close() error
	}
)
