package core

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Budget band thresholds, in percent of the budget used.
var (
	exceededThreshold = decimal.NewFromInt(100)
	warningThreshold  = decimal.NewFromInt(80)
	halfUsedThreshold = decimal.NewFromInt(50)
)

// BudgetBand classifies how much of a monthly budget has been spent.
type BudgetBand string

const (
	BandExceeded BudgetBand = "exceeded"
	BandWarning  BudgetBand = "warning"
	BandHalfUsed BudgetBand = "half_used"
	BandOnTrack  BudgetBand = "on_track"
)

type (
	// Summary holds the income/expense split of a set of transactions.
	Summary struct {
		Income  decimal.Decimal
		Expense decimal.Decimal
		Balance decimal.Decimal
		Count   int
	}

	// CategoryAmount is an amount aggregated by category.
	CategoryAmount struct {
		Category Category
		Amount   decimal.Decimal
		// Share is the percentage of the breakdown total, set by BreakdownShares.
		Share decimal.Decimal
	}

	// BudgetUsage describes spending against a positive budget.
	BudgetUsage struct {
		Budget      decimal.Decimal
		Spent       decimal.Decimal
		PercentUsed decimal.Decimal
		Remaining   decimal.Decimal
		Band        BudgetBand
	}
)

// SplitIncomeExpense sums income and expense amounts separately.
func SplitIncomeExpense(txs []Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.IsIncome() {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

// Balance is income minus expense and may be negative.
func Balance(income, expense decimal.Decimal) decimal.Decimal {
	return income.Sub(expense)
}

// Summarize computes totals and balance for txs.
func Summarize(txs []Transaction) Summary {
	income, expense := SplitIncomeExpense(txs)
	return Summary{
		Income:  income,
		Expense: expense,
		Balance: Balance(income, expense),
		Count:   len(txs),
	}
}

// GroupByMonth groups transactions by month. Transactions with an
// unparseable date belong to no month.
func GroupByMonth(txs []Transaction) map[Month][]Transaction {
	groups := make(map[Month][]Transaction)
	for _, t := range txs {
		m, ok := t.Month()
		if !ok {
			continue
		}
		groups[m] = append(groups[m], t)
	}
	return groups
}

// FilterMonth returns the transactions dated in m, preserving order.
func FilterMonth(txs []Transaction, m Month) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if tm, ok := t.Month(); ok && tm.Equal(m) {
			out = append(out, t)
		}
	}
	return out
}

// Months returns the distinct months present in txs, newest first.
func Months(txs []Transaction) []Month {
	groups := GroupByMonth(txs)
	months := make([]Month, 0, len(groups))
	for m := range groups {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].After(months[j])
	})
	return months
}

// Expenses returns the expense transactions, preserving order.
func Expenses(txs []Transaction) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if !t.IsIncome() {
			out = append(out, t)
		}
	}
	return out
}

// RecentTransactions returns the last n transactions of an ordered snapshot.
func RecentTransactions(txs []Transaction, n int) []Transaction {
	if n <= 0 {
		return nil
	}
	if len(txs) <= n {
		return append([]Transaction(nil), txs...)
	}
	return append([]Transaction(nil), txs[len(txs)-n:]...)
}

// BudgetForMonth returns the budget set for exactly m, or zero.
func BudgetForMonth(budgets []BudgetEntry, m Month) decimal.Decimal {
	for _, b := range budgets {
		if b.Month.Equal(m) {
			return b.Amount
		}
	}
	return decimal.Zero
}

// ComputeBudgetUsage reports spending against budget. It returns false when
// the budget is not positive; budget reporting is skipped entirely then.
func ComputeBudgetUsage(expense, budget decimal.Decimal) (BudgetUsage, bool) {
	if !budget.IsPositive() {
		return BudgetUsage{}, false
	}
	pct := expense.Div(budget).Mul(hundred)
	return BudgetUsage{
		Budget:      budget,
		Spent:       expense,
		PercentUsed: pct,
		Remaining:   budget.Sub(expense),
		Band:        BandFor(pct),
	}, true
}

// BandFor maps a percentage of budget used to its band. Thresholds are
// inclusive: exactly 80 is a warning, exactly 100 is exceeded.
func BandFor(percentUsed decimal.Decimal) BudgetBand {
	switch {
	case percentUsed.GreaterThanOrEqual(exceededThreshold):
		return BandExceeded
	case percentUsed.GreaterThanOrEqual(warningThreshold):
		return BandWarning
	case percentUsed.GreaterThanOrEqual(halfUsedThreshold):
		return BandHalfUsed
	default:
		return BandOnTrack
	}
}

// Overspend is the amount spent beyond the budget, zero unless exceeded.
func (u BudgetUsage) Overspend() decimal.Decimal {
	if u.Band != BandExceeded {
		return decimal.Zero
	}
	return u.Remaining.Abs()
}

// CategoryBreakdown sums expenses per category. Income is never included and
// categories without transactions are absent. Rows are ordered by amount,
// largest first, then by name.
func CategoryBreakdown(txs []Transaction) []CategoryAmount {
	sums := make(map[Category]decimal.Decimal)
	for _, t := range txs {
		if t.IsIncome() {
			continue
		}
		if cur, ok := sums[t.Category]; ok {
			sums[t.Category] = cur.Add(t.Amount)
		} else {
			sums[t.Category] = t.Amount
		}
	}

	out := make([]CategoryAmount, 0, len(sums))
	for c, amt := range sums {
		out = append(out, CategoryAmount{Category: c, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Amount.Cmp(out[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// BreakdownShares fills in each row's share of the total, for proportional
// charts. A zero total leaves every share at zero.
func BreakdownShares(rows []CategoryAmount) []CategoryAmount {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	out := make([]CategoryAmount, len(rows))
	for i, r := range rows {
		r.Share = decimal.Zero
		if total.IsPositive() {
			r.Share = r.Amount.Div(total).Mul(hundred)
		}
		out[i] = r
	}
	return out
}

var (
	maxPercent = decimal.NewFromInt(math.MaxInt64)
	minPercent = decimal.NewFromInt(math.MinInt64)
)

// Percent rounds a percentage to the nearest whole number for display,
// halves to even. Values outside the int64 range saturate.
func Percent(d decimal.Decimal) int64 {
	r := d.RoundBank(0)
	switch {
	case r.GreaterThan(maxPercent):
		return math.MaxInt64
	case r.LessThan(minPercent):
		return math.MinInt64
	}
	return r.IntPart()
}
