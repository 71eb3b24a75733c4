// Package worker keeps the spreadsheet mirror in step with the record store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/log"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

// EventSource delivers ledger events to a handler until ctx is done.
type EventSource interface {
	Consume(ctx context.Context, h amqp.Handler) error
}

// SyncWorker applies ledger events to a mirror and periodically rewrites the
// mirror from the store, which repairs anything a lost event left behind.
type SyncWorker struct {
	store    storage.TransactionReader
	mirror   sheets.Mirror
	source   EventSource
	interval time.Duration
}

// NewSyncWorker builds a worker. source may be nil, in which case only the
// periodic resync runs.
func NewSyncWorker(store storage.TransactionReader, mirror sheets.Mirror, source EventSource, interval time.Duration) *SyncWorker {
	return &SyncWorker{store: store, mirror: mirror, source: source, interval: interval}
}

// HandleEvent applies one event. Returning an error requeues it.
func (w *SyncWorker) HandleEvent(ctx context.Context, e amqp.LedgerEvent) error {
	switch e.Type {
	case amqp.TransactionCreated:
		t, err := w.store.GetTransaction(ctx, e.TransactionID)
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted before we got here; the delete event will follow.
			slog.InfoContext(ctx, "Skipping mirror of vanished transaction", log.FieldTransactionID, e.TransactionID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load transaction %d: %w", e.TransactionID, err)
		}
		if err := w.mirror.AppendTransaction(ctx, t); err != nil {
			return fmt.Errorf("mirror transaction %d: %w", t.ID, err)
		}
	case amqp.TransactionDeleted:
		if err := w.mirror.RemoveTransaction(ctx, e.TransactionID); err != nil {
			return fmt.Errorf("unmirror transaction %d: %w", e.TransactionID, err)
		}
	case amqp.LedgerCleared:
		if err := w.mirror.Clear(ctx); err != nil {
			return fmt.Errorf("clear mirror: %w", err)
		}
	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event", log.FieldEventType, string(e.Type))
		return nil
	}

	slog.InfoContext(ctx, "Mirror updated",
		log.FieldEventType, string(e.Type),
		log.FieldTransactionID, e.TransactionID)
	return nil
}

// Resync rewrites the whole mirror from the store.
func (w *SyncWorker) Resync(ctx context.Context) error {
	txs, err := w.store.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if err := w.mirror.ReplaceAll(ctx, txs); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	slog.InfoContext(ctx, "Mirror resynced", "rows", len(txs), log.FieldOperation, log.OpSync)
	return nil
}

// Run consumes events and resyncs on every interval until ctx is done.
func (w *SyncWorker) Run(ctx context.Context) error {
	if err := w.Resync(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup resync failed", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	if w.source != nil {
		g.Go(func() error {
			return w.source.Consume(gctx, w.HandleEvent)
		})
	}
	if w.interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(w.interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-ticker.C:
					if err := w.Resync(gctx); err != nil {
						slog.ErrorContext(gctx, "Periodic resync failed", log.FieldError, err.Error())
					}
				}
			}
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
