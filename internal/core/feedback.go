package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeedbackKind identifies which canned feedback message applies.
type FeedbackKind string

const (
	HealthNoData    FeedbackKind = "health_no_data"
	HealthUnhealthy FeedbackKind = "health_unhealthy"
	HealthHealthy   FeedbackKind = "health_healthy"
	HealthMixed     FeedbackKind = "health_mixed"

	IncomeNoActivity   FeedbackKind = "income_no_activity"
	IncomeExpensesOnly FeedbackKind = "income_expenses_only"
	IncomeIncomeOnly   FeedbackKind = "income_income_only"
	IncomeOverspend    FeedbackKind = "income_overspend"
	IncomeLowSavings   FeedbackKind = "income_low_savings"
	IncomeGoodSavings  FeedbackKind = "income_good_savings"
)

// Feedback thresholds.
var (
	majorityShare    = decimal.NewFromInt(50)
	lowSavingsRate   = decimal.NewFromInt(10)
	targetSavingsPct = 20
)

// Feedback is the outcome of a feedback rule: which message applies and the
// figures it cites. Percent is already rounded to a whole number.
type Feedback struct {
	Kind    FeedbackKind
	Percent int64
	Amount  decimal.Decimal
}

// MoneyFormatter renders an amount for display.
type MoneyFormatter func(decimal.Decimal) string

// HealthFeedback classifies a month's spending by lifestyle tag.
func HealthFeedback(monthTxs []Transaction) Feedback {
	expenses := Expenses(monthTxs)
	if len(expenses) == 0 {
		return Feedback{Kind: HealthNoData}
	}

	total, healthy, unhealthy := decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range expenses {
		total = total.Add(t.Amount)
		switch t.Category.HealthTag() {
		case Healthy:
			healthy = healthy.Add(t.Amount)
		case Unhealthy:
			unhealthy = unhealthy.Add(t.Amount)
		}
	}

	healthyPct, unhealthyPct := decimal.Zero, decimal.Zero
	if total.IsPositive() {
		healthyPct = healthy.Div(total).Mul(hundred)
		unhealthyPct = unhealthy.Div(total).Mul(hundred)
	}

	switch {
	case unhealthyPct.GreaterThanOrEqual(majorityShare):
		return Feedback{Kind: HealthUnhealthy, Percent: Percent(unhealthyPct)}
	case healthyPct.GreaterThanOrEqual(majorityShare):
		return Feedback{Kind: HealthHealthy, Percent: Percent(healthyPct)}
	default:
		return Feedback{Kind: HealthMixed}
	}
}

// IncomeFeedback classifies a month's savings behaviour.
func IncomeFeedback(monthTxs []Transaction) Feedback {
	income, expense := SplitIncomeExpense(monthTxs)

	switch {
	case income.IsZero() && expense.IsZero():
		return Feedback{Kind: IncomeNoActivity}
	case income.IsZero():
		return Feedback{Kind: IncomeExpensesOnly}
	case expense.IsZero():
		return Feedback{Kind: IncomeIncomeOnly}
	}

	savings := income.Sub(expense)
	if savings.IsNegative() {
		return Feedback{Kind: IncomeOverspend, Amount: savings.Abs()}
	}
	savingsPct := savings.Div(income).Mul(hundred)
	// A rate of exactly 10% still counts as low.
	if savingsPct.LessThanOrEqual(lowSavingsRate) {
		return Feedback{Kind: IncomeLowSavings, Percent: Percent(savingsPct)}
	}
	return Feedback{Kind: IncomeGoodSavings, Percent: Percent(savingsPct)}
}

// Message renders the feedback as text. money formats cited amounts.
func (f Feedback) Message(money MoneyFormatter) string {
	switch f.Kind {
	case HealthNoData:
		return "No expenses recorded this month, so no lifestyle feedback yet."
	case HealthUnhealthy:
		return fmt.Sprintf("You spent about %d%% of your expenses on unhealthy items. "+
			"Consider reducing fast food, alcohol, or junk purchases and think about "+
			"taking or reviewing a health insurance plan.", f.Percent)
	case HealthHealthy:
		return fmt.Sprintf("Great job! Around %d%% of your expenses are on healthy areas "+
			"like groceries, healthcare, or fitness. Your spending pattern looks "+
			"supportive of a healthy lifestyle.", f.Percent)
	case HealthMixed:
		return "Your spending is mixed between healthy and other categories. Try to shift " +
			"more expenses towards healthcare, groceries, and fitness, and reduce " +
			"unhealthy categories over time."
	case IncomeNoActivity:
		return "No income or expenses recorded for this month."
	case IncomeExpensesOnly:
		return "You recorded expenses but no income this month. Make sure to log your income or review your earning sources."
	case IncomeIncomeOnly:
		return "You recorded income but no expenses this month. Log your real-life spending to get accurate tracking."
	case IncomeOverspend:
		amount := f.Amount.StringFixedBank(0)
		if money != nil {
			amount = money(f.Amount)
		}
		return fmt.Sprintf("Your expenses exceeded your income by %s. "+
			"Try to cut down non-essential spending or find ways to increase income.", amount)
	case IncomeLowSavings:
		return fmt.Sprintf("You saved only about %d%% of your income. "+
			"Aim to save at least %d%% of your monthly income if possible.", f.Percent, targetSavingsPct)
	case IncomeGoodSavings:
		return fmt.Sprintf("Good job! You saved about %d%% of your income this month. "+
			"Keep building this habit and consider investing or building an emergency fund.", f.Percent)
	default:
		return ""
	}
}
