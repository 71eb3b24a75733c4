package http

import (
	"time"

	"ledger/internal/core"
	"ledger/internal/middleware/ratelimit"
)

func fixedMonth() core.Month {
	return core.MonthOf(fixedNow)
}

func rateLimitOf(n int) ratelimit.Config {
	return ratelimit.Config{RequestsPerWindow: n, Window: time.Minute, CleanupInterval: time.Hour}
}
