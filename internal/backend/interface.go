package backend

import (
	"context"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cache"
	"ledger/internal/services"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

// CleanupFunc releases what a factory opened.
type CleanupFunc func() error

// BackendResult is a ready ledger service plus the parts callers may need
// directly, such as the worker reading the store or the server registering
// the report cache for expiry.
type BackendResult struct {
	Service *services.LedgerService
	Store   storage.RecordStore
	// Events is nil when no broker is configured or it was unreachable.
	Events  *amqp.Client
	Reports *cache.LRU[string, services.MonthReport]
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateMirror(ctx context.Context, config MirrorConfig) (sheets.Mirror, error)
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type BackendType

	SQLiteDBPath string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

// MirrorConfig selects the spreadsheet mirror. An empty SpreadsheetID gives
// the in-memory mirror.
type MirrorConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// BackendType represents the type of record store.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
