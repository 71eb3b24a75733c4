package http

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyFormatter(t *testing.T) {
	m := NewMoneyFormatter("₹")
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"999.49", "₹999"},
		{"999.5", "₹1,000"},
		{"1234567.89", "₹1,234,568"},
		{"-2500", "-₹2,500"},
		{"2.5", "₹2"},
		{"9223372036854775807", "₹9,223,372,036,854,775,807"},
		{"9223372036854775808", "₹9,223,372,036,854,775,808"},
		{"100000000000000000000", "₹100,000,000,000,000,000,000"},
		{"-123456789012345678901", "-₹123,456,789,012,345,678,901"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Format(decimal.RequireFromString(tt.in)))
		})
	}

	assert.Equal(t, "$12", NewMoneyFormatter("$").Func()(decimal.NewFromInt(12)))
	assert.Equal(t, "€1,000", MoneyFormatter{symbol: "€"}.Format(decimal.NewFromInt(1000)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "67%", formatPercent(decimal.RequireFromString("66.666")))
	assert.Equal(t, "2%", formatPercent(decimal.RequireFromString("2.5")))
	assert.Equal(t, "9223372036854775807%", formatPercent(decimal.RequireFromString("1e30")))
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1", groupThousands("1"))
	assert.Equal(t, "100", groupThousands("100"))
	assert.Equal(t, "1,000", groupThousands("1000"))
	assert.Equal(t, "12,345,678", groupThousands("12345678"))
}
