package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Month is a calendar month in a specific year. The zero value is "no month".
type Month struct {
	t time.Time
}

var monthPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)

// NewMonth returns the month starting on the first day of year/month in UTC.
func NewMonth(year int, month time.Month) Month {
	return Month{t: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

// MonthOf returns the month in which t occurs.
func MonthOf(t time.Time) Month {
	return NewMonth(t.Year(), t.Month())
}

// ParseMonth parses a strict "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if !monthPattern.MatchString(s) {
		return Month{}, fmt.Errorf("%w: %q, expected YYYY-MM", ErrInvalidMonth, s)
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q, expected YYYY-MM", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.t.Year(), m.t.Month())
}

// Year returns the year of the month.
func (m Month) Year() int {
	return m.t.Year()
}

// Number returns the month of the year, 1-12.
func (m Month) Number() time.Month {
	return m.t.Month()
}

// Start returns the first instant of the month.
func (m Month) Start() time.Time {
	return m.t
}

func (m Month) IsZero() bool {
	return m.t.IsZero()
}

// AddDate adds years and months.
func (m Month) AddDate(years, months int) Month {
	return Month{t: m.t.AddDate(years, months, 0)}
}

func (m Month) Before(n Month) bool {
	return m.t.Before(n.t)
}

func (m Month) After(n Month) bool {
	return m.t.After(n.t)
}

func (m Month) Equal(n Month) bool {
	return m.t.Equal(n.t)
}

// Contains reports whether t falls in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.t.Year() && t.Month() == m.t.Month()
}
