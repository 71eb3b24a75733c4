package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// sanitizeInput trims s and drops control characters other than tab and
// newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// selectMonth picks the month named by the "month" query parameter when it is
// one of available, else the newest available month. ok is false when there
// are no months at all.
func selectMonth(query url.Values, available []core.Month) (core.Month, bool) {
	if len(available) == 0 {
		return core.Month{}, false
	}
	if m, err := core.ParseMonth(query.Get("month")); err == nil {
		for _, a := range available {
			if a.Equal(m) {
				return m, true
			}
		}
	}
	return available[0], true
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return id, nil
}
