package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a change to the ledger.
type EventType string

const (
	TransactionCreated EventType = "transaction.created"
	TransactionDeleted EventType = "transaction.deleted"
	LedgerCleared      EventType = "ledger.cleared"
)

// LedgerEvent announces a committed change. It carries ids only; consumers
// read the current row from the store.
type LedgerEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Month         string    `json:"month,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func newEvent(t EventType) LedgerEvent {
	return LedgerEvent{ID: uuid.New(), Type: t, Timestamp: time.Now().UTC()}
}

// NewTransactionCreated builds the event for a stored transaction. month may
// be empty when the row's date does not parse.
func NewTransactionCreated(id int64, month string) LedgerEvent {
	e := newEvent(TransactionCreated)
	e.TransactionID = id
	e.Month = month
	return e
}

func NewTransactionDeleted(id int64) LedgerEvent {
	e := newEvent(TransactionDeleted)
	e.TransactionID = id
	return e
}

func NewLedgerCleared() LedgerEvent {
	return newEvent(LedgerCleared)
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and sanity-checks a message body.
func EventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, fmt.Errorf("decode ledger event: %w", err)
	}
	switch e.Type {
	case TransactionCreated, TransactionDeleted:
		if e.TransactionID <= 0 {
			return LedgerEvent{}, fmt.Errorf("ledger event %s: missing transaction id", e.Type)
		}
	case LedgerCleared:
	default:
		return LedgerEvent{}, fmt.Errorf("ledger event: unknown type %q", e.Type)
	}
	return e, nil
}
