package core

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(id int64, date string, c Category, amount string) Transaction {
	return Transaction{ID: id, Date: date, Category: c, Amount: d(amount)}
}

func sampleLedger() []Transaction {
	return []Transaction{
		tx(1, "2026-01-01", Income, "50000"),
		tx(2, "2026-01-03", Groceries, "1200.50"),
		tx(3, "2026-01-10", FastFood, "300"),
		tx(4, "2026-02-01", Income, "48000"),
		tx(5, "2026-02-02", Bills, "4000"),
		tx(6, "garbage", Travel, "999"),
		tx(7, "2026-02-15", Groceries, "800"),
	}
}

func TestSplitIncomeExpense(t *testing.T) {
	income, expense := SplitIncomeExpense(sampleLedger())
	assert.True(t, income.Equal(d("98000")), income.String())
	assert.True(t, expense.Equal(d("7300.50")), expense.String())

	total := decimal.Zero
	for _, t := range sampleLedger() {
		total = total.Add(t.Amount)
	}
	assert.True(t, income.Add(expense).Equal(total))

	income, expense = SplitIncomeExpense(nil)
	assert.True(t, income.IsZero())
	assert.True(t, expense.IsZero())
}

func TestBalance(t *testing.T) {
	assert.True(t, Balance(d("100"), d("30")).Equal(d("70")))
	assert.True(t, Balance(d("100"), d("130.5")).Equal(d("-30.5")))

	s := Summarize(sampleLedger())
	assert.True(t, s.Balance.Equal(s.Income.Sub(s.Expense)))
	assert.Equal(t, 7, s.Count)
}

func TestGroupByMonthDropsUnparseableDates(t *testing.T) {
	groups := GroupByMonth(sampleLedger())
	require.Len(t, groups, 2)

	jan := groups[NewMonth(2026, time.January)]
	feb := groups[NewMonth(2026, time.February)]
	assert.Len(t, jan, 3)
	assert.Len(t, feb, 3)

	for _, txs := range groups {
		for _, tx := range txs {
			assert.NotEqual(t, int64(6), tx.ID)
		}
	}

	assert.Equal(t, []Month{NewMonth(2026, time.February), NewMonth(2026, time.January)}, Months(sampleLedger()))
	assert.Len(t, FilterMonth(sampleLedger(), NewMonth(2026, time.January)), 3)
	assert.Empty(t, FilterMonth(sampleLedger(), NewMonth(2025, time.January)))
}

func TestBudgetForMonth(t *testing.T) {
	budgets := []BudgetEntry{
		{Month: NewMonth(2026, time.January), Amount: d("10000")},
		{Month: NewMonth(2026, time.February), Amount: d("12000")},
	}
	assert.True(t, BudgetForMonth(budgets, NewMonth(2026, time.February)).Equal(d("12000")))
	assert.True(t, BudgetForMonth(budgets, NewMonth(2026, time.March)).IsZero())
	assert.True(t, BudgetForMonth(nil, NewMonth(2026, time.March)).IsZero())
}

func TestComputeBudgetUsage(t *testing.T) {
	_, ok := ComputeBudgetUsage(d("500"), decimal.Zero)
	assert.False(t, ok, "zero budget must skip usage reporting")

	u, ok := ComputeBudgetUsage(d("250"), d("1000"))
	require.True(t, ok)
	assert.True(t, u.PercentUsed.Equal(d("25")))
	assert.True(t, u.Remaining.Equal(d("750")))
	assert.Equal(t, BandOnTrack, u.Band)
	assert.True(t, u.Overspend().IsZero())

	u, ok = ComputeBudgetUsage(d("1200"), d("1000"))
	require.True(t, ok)
	assert.Equal(t, BandExceeded, u.Band)
	assert.True(t, u.Remaining.Equal(d("-200")))
	assert.True(t, u.Overspend().Equal(d("200")))
}

func TestBudgetBandBoundaries(t *testing.T) {
	cases := []struct {
		spent string
		want  BudgetBand
	}{
		{"1000", BandExceeded},
		{"999.99", BandWarning},
		{"800", BandWarning},
		{"799.99", BandHalfUsed},
		{"500", BandHalfUsed},
		{"499.99", BandOnTrack},
		{"0", BandOnTrack},
		{"5000", BandExceeded},
	}
	for _, tc := range cases {
		u, ok := ComputeBudgetUsage(d(tc.spent), d("1000"))
		require.True(t, ok)
		assert.Equal(t, tc.want, u.Band, "spent %s of 1000", tc.spent)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	rows := CategoryBreakdown(sampleLedger())
	_, expense := SplitIncomeExpense(sampleLedger())

	sum := decimal.Zero
	seen := map[Category]bool{}
	for _, r := range rows {
		assert.NotEqual(t, Income, r.Category)
		assert.False(t, seen[r.Category], "duplicate %s", r.Category)
		seen[r.Category] = true
		sum = sum.Add(r.Amount)
	}
	assert.True(t, sum.Equal(expense))

	require.Len(t, rows, 4)
	assert.Equal(t, Bills, rows[0].Category)
	assert.Equal(t, Groceries, rows[1].Category)
	assert.True(t, rows[1].Amount.Equal(d("2000.50")))
	assert.False(t, seen[Shopping], "categories without rows are omitted")

	assert.Empty(t, CategoryBreakdown([]Transaction{tx(1, "2026-01-01", Income, "10")}))
}

func TestBreakdownShares(t *testing.T) {
	rows := BreakdownShares([]CategoryAmount{
		{Category: Groceries, Amount: d("75")},
		{Category: Travel, Amount: d("25")},
	})
	assert.True(t, rows[0].Share.Equal(d("75")))
	assert.True(t, rows[1].Share.Equal(d("25")))

	zero := BreakdownShares([]CategoryAmount{{Category: Travel, Amount: decimal.Zero}})
	assert.True(t, zero[0].Share.IsZero())
}

func TestRecentAndExpenses(t *testing.T) {
	txs := sampleLedger()
	recent := RecentTransactions(txs, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(6), recent[0].ID)
	assert.Equal(t, int64(7), recent[1].ID)
	assert.Len(t, RecentTransactions(txs, 100), len(txs))
	assert.Nil(t, RecentTransactions(txs, 0))

	for _, e := range Expenses(txs) {
		assert.False(t, e.IsIncome())
	}
	assert.Len(t, Expenses(txs), 5)
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, int64(67), Percent(d("66.6667")))
	assert.Equal(t, int64(15), Percent(d("15")))
	assert.Equal(t, int64(2), Percent(d("2.5")))
	assert.Equal(t, int64(4), Percent(d("3.5")))
	assert.Equal(t, int64(3), Percent(d("2.51")))
}

func TestPercentSaturates(t *testing.T) {
	huge := d("1000000000000").Div(d("0.01")).Mul(d("1000000000"))
	assert.Equal(t, int64(math.MaxInt64), Percent(huge))
	assert.Equal(t, int64(math.MinInt64), Percent(huge.Neg()))
	assert.Equal(t, int64(9223372036854775807), Percent(d("9223372036854775807")))
}
