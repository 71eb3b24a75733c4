package http

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "salary\tjune", sanitizeInput("  salary\tjune\x00\x07 "))
	assert.Equal(t, "", sanitizeInput("   "))
}

func TestSelectMonth(t *testing.T) {
	jan := core.NewMonth(2026, time.January)
	feb := core.NewMonth(2026, time.February)
	available := []core.Month{feb, jan}

	tests := []struct {
		name  string
		query url.Values
		want  core.Month
	}{
		{"no parameter picks newest", url.Values{}, feb},
		{"known month", url.Values{"month": {"2026-01"}}, jan},
		{"unknown month picks newest", url.Values{"month": {"2025-12"}}, feb},
		{"malformed month picks newest", url.Values{"month": {"jan"}}, feb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := selectMonth(tt.query, available)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := selectMonth(url.Values{"month": {"2026-01"}}, nil)
	assert.False(t, ok)
}

func TestParseID(t *testing.T) {
	id, err := parseID(" 42 ")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-3", "x"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}
