package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestDoneNotice(t *testing.T) {
	tests := []struct {
		query url.Values
		want  string
	}{
		{url.Values{"done": {"income"}}, "Income added successfully!"},
		{url.Values{"done": {"expense"}}, "Expense added successfully!"},
		{url.Values{"done": {"budget"}, "month": {"2026-02"}}, "Budget for 2026-02 saved successfully!"},
		{url.Values{"done": {"budget"}, "month": {"<b>"}}, "Budget saved successfully!"},
		{url.Values{"done": {"delete"}, "id": {"7"}}, "Expense with ID 7 deleted successfully!"},
		{url.Values{"done": {"clear"}}, "All data cleared!"},
	}
	for _, tt := range tests {
		n, ok := doneNotice(tt.query)
		require.True(t, ok)
		assert.Equal(t, NoticeSuccess, n.Kind)
		assert.Equal(t, tt.want, n.Text)
	}

	_, ok := doneNotice(url.Values{"done": {"nope"}})
	assert.False(t, ok)
}

func TestBudgetNotice(t *testing.T) {
	money := NewMoneyFormatter("₹")
	usage := func(spent int64) core.BudgetUsage {
		u, ok := core.ComputeBudgetUsage(decimal.NewFromInt(spent), decimal.NewFromInt(1000))
		require.True(t, ok)
		return u
	}

	n := budgetNotice(usage(1250), money)
	assert.Equal(t, NoticeError, n.Kind)
	assert.Equal(t, "BUDGET EXCEEDED! Overspent by ₹250", n.Text)

	n = budgetNotice(usage(900), money)
	assert.Equal(t, NoticeWarning, n.Kind)
	assert.Equal(t, "90% budget used! Only ₹100 left", n.Text)

	n = budgetNotice(usage(500), money)
	assert.Equal(t, NoticeInfo, n.Kind)
	assert.Equal(t, "Half budget used. ₹500 remaining", n.Text)

	assert.Equal(t, NoticeSuccess, budgetNotice(usage(100), money).Kind)
}

func TestRedirectDone(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/budget", nil)
	redirectDone(rr, r, "/budget", "budget", url.Values{"month": {"2026-03"}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/budget?done=budget&month=2026-03", rr.Header().Get("Location"))
}
