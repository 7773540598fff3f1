package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"timesheet.reports/internal/core/model"
)

func entriesWithHours(hours ...string) []model.WorkEntry {
	entries := make([]model.WorkEntry, 0, len(hours))
	for i, h := range hours {
		entries = append(entries, model.WorkEntry{ID: int64(i + 1), Hours: decimal.RequireFromString(h)})
	}
	return entries
}

func TestAggregateHours(t *testing.T) {
	tests := []struct {
		name      string
		hours     []string
		wantTotal string
		wantCount int
	}{
		{name: "two entries", hours: []string{"5.5", "3.0"}, wantTotal: "8.5", wantCount: 2},
		{name: "no entries", hours: nil, wantTotal: "0", wantCount: 0},
		{name: "fractions sum exactly", hours: []string{"0.1", "0.2", "0.3"}, wantTotal: "0.6", wantCount: 3},
		{name: "quarter hours", hours: []string{"0.25", "0.25", "7.75"}, wantTotal: "8.25", wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateHours(entriesWithHours(tt.hours...))
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(got.TotalHours), "total %s", got.TotalHours)
			assert.Equal(t, tt.wantCount, got.EntryCount)
		})
	}
}
