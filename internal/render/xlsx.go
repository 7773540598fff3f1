package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"timesheet.reports/internal/core/model"
)

const xlsxSheet = "Report"

// WriteClientXLSX writes a single sheet workbook with a summary block and one row per entry.
func WriteClientXLSX(w io.Writer, report *model.AggregateReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(xlsxSheet); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	if f.GetSheetName(0) != xlsxSheet {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("error deleting default sheet: %w", err)
		}
	}
	index, err := f.GetSheetIndex(xlsxSheet)
	if err != nil {
		return fmt.Errorf("error locating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("error creating style: %w", err)
	}

	rows := [][]interface{}{
		{"Time Report for " + report.Client.Name},
		{"Total Hours", report.TotalHours.InexactFloat64()},
		{"Total Entries", report.EntryCount},
		{},
		{"Date", "Hours", "Description", "Created At"},
	}
	for _, e := range report.WorkEntries {
		rows = append(rows, []interface{}{
			e.Date.Format(model.DateLayout),
			e.Hours.InexactFloat64(),
			description(e),
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	if err := f.SetCellStyle(xlsxSheet, "A1", "A3", bold); err != nil {
		return err
	}
	if err := f.SetRowStyle(xlsxSheet, 5, 5, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "A", "B", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "C", "C", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(xlsxSheet, "D", "D", 20); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}
