package http

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ledger/internal/core"
)

// MoneyFormatter renders amounts as whole currency units with grouped
// thousands, e.g. "₹1,234,567".
type MoneyFormatter struct {
	symbol  string
	printer *message.Printer
}

func NewMoneyFormatter(symbol string) MoneyFormatter {
	return MoneyFormatter{symbol: symbol, printer: message.NewPrinter(language.English)}
}

var maxPrintable = decimal.NewFromInt(math.MaxInt64)

// Format rounds half to even, matching Percent.
func (m MoneyFormatter) Format(d decimal.Decimal) string {
	if m.printer == nil {
		m = NewMoneyFormatter(m.symbol)
	}
	r := d.RoundBank(0)
	var s string
	if abs := r.Abs(); abs.GreaterThan(maxPrintable) {
		s = groupThousands(abs.String())
	} else {
		s = m.printer.Sprintf("%d", abs.IntPart())
	}
	if r.IsNegative() {
		return "-" + m.symbol + s
	}
	return m.symbol + s
}

// groupThousands inserts commas into a string of digits.
func groupThousands(digits string) string {
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Func adapts the formatter to core.MoneyFormatter.
func (m MoneyFormatter) Func() core.MoneyFormatter {
	return m.Format
}

func formatPercent(d decimal.Decimal) string {
	return fmt.Sprintf("%d%%", core.Percent(d))
}
