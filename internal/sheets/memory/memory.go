// Package memory is an in-process sheets.Mirror, used by tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	"ledger/internal/sheets"
)

type Mirror struct {
	mu   sync.Mutex
	rows [][]string
}

var _ sheets.Mirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) AppendTransaction(_ context.Context, t core.Transaction) error {
	m.mu.Lock()
	m.rows = append(m.rows, sheets.Row(t))
	m.mu.Unlock()
	return nil
}

func (m *Mirror) RemoveTransaction(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, r := range m.rows {
		if rid, ok := sheets.ParseID(r[0]); ok && rid == id {
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return nil
}

func (m *Mirror) Clear(_ context.Context) error {
	m.mu.Lock()
	m.rows = nil
	m.mu.Unlock()
	return nil
}

func (m *Mirror) ReplaceAll(_ context.Context, txs []core.Transaction) error {
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, sheets.Row(t))
	}
	m.mu.Lock()
	m.rows = rows
	m.mu.Unlock()
	return nil
}

// Rows returns a copy of the mirrored rows, without the header.
func (m *Mirror) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// IDs returns the transaction ids currently mirrored, in row order.
func (m *Mirror) IDs() []int64 {
	var ids []int64
	for _, r := range m.Rows() {
		if id, ok := sheets.ParseID(r[0]); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
