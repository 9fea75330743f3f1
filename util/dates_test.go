package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLifecycleDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"full date", "2025-04-30", "2025-04-30"},
		{"year month", "2026-09", "2026-09-01"},
		{"year only", "2030", "2030-01-01"},
		{"year in prose", "supported until 2027 at least", "2027-01-01"},
		{"padded", "  2024-10-01 ", "2024-10-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLifecycleDate(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestParseLifecycleDateNoDate(t *testing.T) {
	for _, raw := range []string{"", "rolling", "true", "not specified", "lts"} {
		_, ok := ParseLifecycleDate(raw)
		assert.False(t, ok, "raw %q", raw)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysUntil(now.AddDate(0, 0, 30), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Negative(t, DaysUntil(now.AddDate(0, 0, -10), now))
}
