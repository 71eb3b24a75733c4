package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestMirrorLifecycle(t *testing.T) {
	ctx := context.Background()
	m := New()

	for i, date := range []string{"2026-01-02", "2026-01-03", "bad"} {
		require.NoError(t, m.AppendTransaction(ctx, core.Transaction{
			ID:       int64(i + 1),
			Date:     date,
			Category: core.Food,
			Amount:   decimal.RequireFromString("9.5"),
		}))
	}
	assert.Equal(t, []int64{1, 2, 3}, m.IDs())

	rows := m.Rows()
	assert.Equal(t, []string{"1", "2026-01-02", "2026-01", "Food", "9.50", ""}, rows[0])
	assert.Equal(t, "", rows[2][2], "unparseable dates have no month")

	require.NoError(t, m.RemoveTransaction(ctx, 2))
	require.NoError(t, m.RemoveTransaction(ctx, 99))
	assert.Equal(t, []int64{1, 3}, m.IDs())

	require.NoError(t, m.ReplaceAll(ctx, []core.Transaction{{ID: 7, Date: "2026-02-01", Category: core.Income, Amount: decimal.NewFromInt(1)}}))
	assert.Equal(t, []int64{7}, m.IDs())

	require.NoError(t, m.Clear(ctx))
	assert.Empty(t, m.Rows())
}
