package render

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timesheet.reports/internal/core/model"
)

func strPtr(s string) *string { return &s }

func sampleEntries() []model.WorkEntry {
	created := time.Date(2026, 1, 5, 17, 4, 5, 0, time.UTC)
	return []model.WorkEntry{
		{
			ID: 1, ClientID: 7, ClientName: "Acme, Inc.",
			Hours:       decimal.RequireFromString("5.5"),
			Description: strPtr(`Design "review", part 1`),
			Date:        time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Billable:    true,
			CreatedAt:   created,
		},
		{
			ID: 2, ClientID: 7, ClientName: "Acme, Inc.",
			Hours:     decimal.RequireFromString("3"),
			Date:      time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			CreatedAt: created,
		},
	}
}

func TestWriteClientCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClientCSV(&buf, sampleEntries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3, "header plus one row per entry")
	assert.Equal(t, ClientReportHeader, records[0])
	assert.Equal(t, []string{"2026-01-05", "5.5", `Design "review", part 1`, "2026-01-05T17:04:05Z"}, records[1])
	assert.Equal(t, "", records[2][2])
}

func TestWriteClientCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClientCSV(&buf, nil))

	assert.Equal(t, "Date,Hours,Description,Created At\n", buf.String())
}

func TestWriteBulkCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBulkCSV(&buf, sampleEntries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, BulkHeader, records[0])
	assert.Equal(t, []string{"2026-01-05", "Acme, Inc.", "5.5", `Design "review", part 1`, "true"}, records[1])
	assert.Equal(t, []string{"2026-01-06", "Acme, Inc.", "3", "", "false"}, records[2])
}
