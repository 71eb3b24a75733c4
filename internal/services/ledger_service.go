package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// RecentCount is how many transactions the dashboard lists.
const RecentCount = 10

// Publisher announces committed ledger changes.
type Publisher interface {
	Publish(ctx context.Context, e amqp.LedgerEvent) error
}

type (
	// IncomeInput is an income entry as typed by the user.
	IncomeInput struct {
		Date   string
		Amount string
		// Source is stored as the transaction description.
		Source string
	}

	// ExpenseInput is an expense entry as typed by the user.
	ExpenseInput struct {
		Date        string
		Category    string
		Amount      string
		Description string
	}

	// Dashboard is the landing view: lifetime totals, this month's budget
	// measured against the lifetime expense total, and the latest rows.
	Dashboard struct {
		Month     core.Month
		Summary   core.Summary
		Budget    decimal.Decimal
		Usage     core.BudgetUsage
		HasBudget bool
		Recent    []core.Transaction
		Breakdown []core.CategoryAmount
	}

	// MonthReport is the statistics view of one month.
	MonthReport struct {
		Month        core.Month
		Summary      core.Summary
		Breakdown    []core.CategoryAmount
		Budget       decimal.Decimal
		Usage        core.BudgetUsage
		HasBudget    bool
		Transactions []core.Transaction
	}

	// Insights pairs a month's report with both feedback verdicts.
	Insights struct {
		Report MonthReport
		Health core.Feedback
		Income core.Feedback
	}
)

// Empty reports whether nothing has been recorded yet.
func (d Dashboard) Empty() bool {
	return d.Summary.Count == 0
}

// LedgerService is the single entry point for reads and writes on the
// ledger. It owns the store, the report cache and the event publisher.
type LedgerService struct {
	store     storage.RecordStore
	publisher Publisher
	reports   cache.Cache[string, MonthReport]
	logger    *log.Logger

	// generation counts invalidations. A report is cached only if no write
	// landed while it was being computed.
	cacheMu    sync.Mutex
	generation uint64
}

// NewLedgerService wires the service. publisher and reports may be nil.
func NewLedgerService(store storage.RecordStore, publisher Publisher, reports cache.Cache[string, MonthReport]) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		reports:   reports,
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
	}
}

// WithLogger replaces the service logger.
func (s *LedgerService) WithLogger(l *log.Logger) *LedgerService {
	s.logger = l.WithComponent(log.ComponentLedger)
	return s
}

func (s *LedgerService) AddIncome(ctx context.Context, in IncomeInput) (core.Transaction, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: enter a number such as 1200 or 1200.50", err)
	}
	return s.add(ctx, core.NewTransaction{
		Date:        strings.TrimSpace(in.Date),
		Category:    core.Income,
		Amount:      amount,
		Description: strings.TrimSpace(in.Source),
	})
}

func (s *LedgerService) AddExpense(ctx context.Context, in ExpenseInput) (core.Transaction, error) {
	category, err := core.ParseExpenseCategory(in.Category)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: enter a number such as 250 or 250.75", err)
	}
	return s.add(ctx, core.NewTransaction{
		Date:        strings.TrimSpace(in.Date),
		Category:    category,
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
	})
}

func (s *LedgerService) add(ctx context.Context, n core.NewTransaction) (core.Transaction, error) {
	if err := n.Validate(); err != nil {
		return core.Transaction{}, err
	}
	id, err := s.store.AppendTransaction(ctx, n)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	t := core.Transaction{ID: id, Date: n.Date, Category: n.Category, Amount: n.Amount, Description: n.Description}
	s.invalidate()

	month := ""
	if m, ok := t.Month(); ok {
		month = m.String()
	}
	s.logger.InfoContext(ctx, "Transaction recorded",
		log.NewFields().WithTransaction(t.ID, t.Date, string(t.Category), t.Amount.String()).WithOperation(log.OpCreate).Args()...)
	s.publish(ctx, amqp.NewTransactionCreated(id, month))
	return t, nil
}

// DeleteTransaction removes a transaction. Unknown ids are ignored.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidate()
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTransactionID, id, log.FieldOperation, log.OpDelete)
	s.publish(ctx, amqp.NewTransactionDeleted(id))
	return nil
}

// SetBudget records the budget for a "YYYY-MM" month, replacing any earlier
// value. On error nothing is written.
func (s *LedgerService) SetBudget(ctx context.Context, monthText, amountText string) (core.BudgetEntry, error) {
	m, err := core.ParseMonth(monthText)
	if err != nil {
		return core.BudgetEntry{}, err
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		return core.BudgetEntry{}, fmt.Errorf("%w: budget must be a number of zero or more", err)
	}
	b := core.BudgetEntry{Month: m, Amount: amount}
	if err := b.Validate(); err != nil {
		return core.BudgetEntry{}, err
	}
	if err := s.store.UpsertBudget(ctx, b); err != nil {
		return core.BudgetEntry{}, fmt.Errorf("save budget: %w", err)
	}
	s.invalidate()
	s.logger.InfoContext(ctx, "Budget saved", log.FieldMonth, m.String(), log.FieldAmount, amount.String(), log.FieldOperation, log.OpBudget)
	return b, nil
}

// ClearAll deletes every transaction and budget. It cannot be undone.
func (s *LedgerService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	s.invalidate()
	s.logger.WarnContext(ctx, "All ledger data cleared", log.FieldOperation, log.OpClear)
	s.publish(ctx, amqp.NewLedgerCleared())
	return nil
}

// Dashboard builds the landing view for the given current month.
func (s *LedgerService) Dashboard(ctx context.Context, month core.Month) (Dashboard, error) {
	txs, budgets, err := s.snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{
		Month:     month,
		Summary:   core.Summarize(txs),
		Budget:    core.BudgetForMonth(budgets, month),
		Recent:    core.RecentTransactions(txs, RecentCount),
		Breakdown: core.BreakdownShares(core.CategoryBreakdown(txs)),
	}
	d.Usage, d.HasBudget = core.ComputeBudgetUsage(d.Summary.Expense, d.Budget)
	return d, nil
}

// MonthReport returns the statistics for one month. Reports are cached until
// the next write.
func (s *LedgerService) MonthReport(ctx context.Context, month core.Month) (MonthReport, error) {
	key := month.String()
	if s.reports != nil {
		if r, ok := s.reports.Get(key); ok {
			return r, nil
		}
	}
	gen := s.currentGeneration()

	txs, budgets, err := s.snapshot(ctx)
	if err != nil {
		return MonthReport{}, err
	}
	monthTxs := core.FilterMonth(txs, month)
	r := MonthReport{
		Month:        month,
		Summary:      core.Summarize(monthTxs),
		Breakdown:    core.BreakdownShares(core.CategoryBreakdown(monthTxs)),
		Budget:       core.BudgetForMonth(budgets, month),
		Transactions: monthTxs,
	}
	r.Usage, r.HasBudget = core.ComputeBudgetUsage(r.Summary.Expense, r.Budget)

	s.cacheReport(key, r, gen)
	s.logger.DebugContext(ctx, "Month report computed", log.FieldMonth, key, log.FieldOperation, log.OpReport)
	return r, nil
}

func (s *LedgerService) Insights(ctx context.Context, month core.Month) (Insights, error) {
	r, err := s.MonthReport(ctx, month)
	if err != nil {
		return Insights{}, err
	}
	return Insights{
		Report: r,
		Health: core.HealthFeedback(r.Transactions),
		Income: core.IncomeFeedback(r.Transactions),
	}, nil
}

// History lists every expense, newest first.
func (s *LedgerService) History(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	expenses := core.Expenses(txs)
	for i, j := 0, len(expenses)-1; i < j; i, j = i+1, j-1 {
		expenses[i], expenses[j] = expenses[j], expenses[i]
	}
	return expenses, nil
}

// AvailableMonths lists the months that have at least one dated
// transaction, newest first.
func (s *LedgerService) AvailableMonths(ctx context.Context) ([]core.Month, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.Months(txs), nil
}

// Transactions returns the full ordered snapshot.
func (s *LedgerService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *LedgerService) snapshot(ctx context.Context) ([]core.Transaction, []core.BudgetEntry, error) {
	var (
		txs     []core.Transaction
		budgets []core.BudgetEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return txs, budgets, nil
}

// invalidate drops every cached report; any write can change any month.
func (s *LedgerService) invalidate() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if s.reports != nil {
		s.reports.Purge()
	}
}

func (s *LedgerService) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// cacheReport caches r unless a write has happened since gen was read.
func (s *LedgerService) cacheReport(key string, r MonthReport, gen uint64) {
	if s.reports == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return
	}
	s.reports.Set(key, r)
}

// publish sends e best effort. The write it describes is already committed.
func (s *LedgerService) publish(ctx context.Context, e amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldEventType, string(e.Type),
			log.FieldTransactionID, e.TransactionID,
			log.FieldError, err.Error())
	}
}

// Close releases the store and, when it holds resources, the publisher.
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("Ledger service closed with errors", "error", err)
		return fmt.Errorf("close ledger service: %w", err)
	}
	return nil
}
