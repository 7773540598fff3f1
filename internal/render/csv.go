package render

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"timesheet.reports/internal/core/model"
)

var (
	// ClientReportHeader is the fixed column set of the per-client export.
	ClientReportHeader = []string{"Date", "Hours", "Description", "Created At"}
	// BulkHeader is the fixed column set of the all-clients export.
	BulkHeader = []string{"Date", "Client", "Hours", "Description", "Billable"}
)

// WriteClientCSV writes one client's entries in the order given.
func WriteClientCSV(w io.Writer, entries []model.WorkEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ClientReportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Date.Format(model.DateLayout),
			e.Hours.String(),
			description(e),
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBulkCSV writes entries across clients. Missing descriptions are empty fields.
func WriteBulkCSV(w io.Writer, entries []model.WorkEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(BulkHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Date.Format(model.DateLayout),
			e.ClientName,
			e.Hours.String(),
			description(e),
			strconv.FormatBool(e.Billable),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func description(e model.WorkEntry) string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}
