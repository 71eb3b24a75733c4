package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical storage format of a transaction date.
const DateLayout = "2006-01-02"

// MaxDescriptionLength bounds the free-text description of a transaction.
const MaxDescriptionLength = 200

type (
	// Transaction is a single dated income or expense entry.
	// Date holds the stored text; rows written before validation existed may
	// carry text that does not parse, see Day.
	Transaction struct {
		ID          int64
		Date        string
		Category    Category
		Amount      decimal.Decimal
		Description string
	}

	// NewTransaction is a transaction that has not been stored yet.
	NewTransaction struct {
		Date        string
		Category    Category
		Amount      decimal.Decimal
		Description string
	}

	// BudgetEntry is the spending ceiling for one month.
	BudgetEntry struct {
		Month  Month
		Amount decimal.Decimal
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrIncomeCategory     = errors.New("income is not an expense category")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
)

// IsIncome reports whether the transaction records income.
func (t Transaction) IsIncome() bool {
	return t.Category == Income
}

// Day parses the stored date. The second result is false for rows whose date
// cannot be parsed; such rows are left out of every date-based view.
func (t Transaction) Day() (time.Time, bool) {
	d, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Month returns the month the transaction belongs to.
func (t Transaction) Month() (Month, bool) {
	d, ok := t.Day()
	if !ok {
		return Month{}, false
	}
	return MonthOf(d), true
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders a date in the storage format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Validate checks a transaction before it is written.
func (n NewTransaction) Validate() error {
	if _, err := ParseDate(n.Date); err != nil {
		return err
	}
	if !n.Amount.IsPositive() {
		return fmt.Errorf("%w: amount should be greater than 0", ErrInvalidAmount)
	}
	if !n.Category.IsKnown() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(n.Category))
	}
	if utf8.RuneCountInString(n.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// Validate checks a budget entry before it is written. Zero is a valid budget.
func (b BudgetEntry) Validate() error {
	if b.Month.IsZero() {
		return ErrInvalidMonth
	}
	if b.Amount.IsNegative() {
		return fmt.Errorf("%w: budget cannot be negative", ErrInvalidAmount)
	}
	return nil
}

// IsValidation reports whether err was caused by rejected user input rather
// than a storage or transport failure.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidDate, ErrInvalidMonth, ErrInvalidAmount,
		ErrUnknownCategory, ErrIncomeCategory, ErrDescriptionTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
