package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
	"ledger/internal/storage"
)

func TestStoreOrderingAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	add := func(date string) int64 {
		id, err := s.AppendTransaction(ctx, core.NewTransaction{Date: date, Category: core.Food, Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)
		return id
	}
	a := add("2026-02-01")
	b := add("2026-01-01")
	c := add("2026-02-01")

	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{b, a, c}, []int64{txs[0].ID, txs[1].ID, txs[2].ID})

	require.NoError(t, s.DeleteTransaction(ctx, a))
	assert.NoError(t, s.DeleteTransaction(ctx, a))
	_, err = s.GetTransaction(ctx, a)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Greater(t, add("2026-03-01"), c)
}

func TestStoreBudgetsAndClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	m := core.NewMonth(2026, time.June)

	require.NoError(t, s.UpsertBudget(ctx, core.BudgetEntry{Month: m, Amount: decimal.NewFromInt(1)}))
	require.NoError(t, s.UpsertBudget(ctx, core.BudgetEntry{Month: m, Amount: decimal.NewFromInt(2)}))
	require.NoError(t, s.UpsertBudget(ctx, core.BudgetEntry{Month: m.AddDate(0, -2), Amount: decimal.NewFromInt(3)}))

	budgets, err := s.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	assert.Equal(t, "2026-04", budgets[0].Month.String())
	assert.True(t, budgets[1].Amount.Equal(decimal.NewFromInt(2)))

	require.NoError(t, s.ClearAll(ctx))
	budgets, _ = s.ListBudgets(ctx)
	txs, _ := s.ListTransactions(ctx)
	assert.Empty(t, budgets)
	assert.Empty(t, txs)
}
