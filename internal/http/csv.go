package http

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"ledger/internal/core"
)

var csvHeader = []string{"ID", "Date", "Type", "Category", "Amount", "Description"}

// renderCSV writes transactions as CSV with amounts at two decimals.
func renderCSV(txs []core.Transaction) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		kind := "expense"
		if t.IsIncome() {
			kind = "income"
		}
		row := []string{
			fmt.Sprint(t.ID),
			t.Date,
			kind,
			string(t.Category),
			t.Amount.StringFixed(2),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", t.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return b.Bytes(), nil
}
