package core

import (
	"github.com/shopspring/decimal"
	"timesheet.reports/internal/core/model"
)

// HoursTotal is the reduction of a client's entries.
type HoursTotal struct {
	TotalHours decimal.Decimal
	EntryCount int
}

// AggregateHours sums the hours of entries exactly. Entries are taken as given;
// range validation happens when they are created.
func AggregateHours(entries []model.WorkEntry) HoursTotal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return HoursTotal{TotalHours: total, EntryCount: len(entries)}
}
