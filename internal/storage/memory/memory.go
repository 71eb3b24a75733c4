// Package memory provides an in-process record store, used by tests and by
// the memory data backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ledger/internal/core"
	"ledger/internal/storage"
)

type Store struct {
	mu      sync.RWMutex
	nextID  int64
	txs     map[int64]core.Transaction
	budgets map[core.Month]core.BudgetEntry
}

var _ storage.RecordStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		nextID:  1,
		txs:     make(map[int64]core.Transaction),
		budgets: make(map[core.Month]core.BudgetEntry),
	}
}

func (s *Store) AppendTransaction(_ context.Context, t core.NewTransaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.txs[id] = core.Transaction{
		ID:          id,
		Date:        t.Date,
		Category:    t.Category,
		Amount:      core.NonNegative(t.Amount),
		Description: t.Description,
	}
	return id, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	delete(s.txs, id)
	s.mu.Unlock()
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, storage.ErrNotFound)
	}
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		out = append(out, t)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.BudgetEntry) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.budgets[b.Month] = b
	s.mu.Unlock()
	return nil
}

func (s *Store) ListBudgets(_ context.Context) ([]core.BudgetEntry, error) {
	s.mu.RLock()
	out := make([]core.BudgetEntry, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	s.txs = make(map[int64]core.Transaction)
	s.budgets = make(map[core.Month]core.BudgetEntry)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
