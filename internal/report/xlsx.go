package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// WriteXLSX writes a workbook with a summary sheet followed by one sheet
// per chart.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]interface{}{
		{"Objective", fmt.Sprintf("%d: %s", r.Objective, r.Title)},
		{"Source", r.Source},
		{},
		{"KPI", "Value"},
	}
	for _, k := range r.KPIs {
		summary = append(summary, []interface{}{k.Label, numberValue(num(k.Value))})
	}
	for _, s := range r.Skipped {
		summary = append(summary, []interface{}{"Skipped " + s.Chart, s.Reason})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}
	_ = f.SetRowStyle(summarySheet, 4, 4, bold)
	_ = f.SetColWidth(summarySheet, "A", "B", 28)

	for _, c := range r.Charts {
		if _, err := f.NewSheet(c.ID); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", c.ID, err)
		}
		header, rows := c.grid()
		data := make([][]interface{}, 0, len(rows)+1)
		hrow := make([]interface{}, len(header))
		for i, h := range header {
			hrow[i] = h
		}
		data = append(data, hrow)
		for _, row := range rows {
			vals := make([]interface{}, len(row))
			for i, v := range row {
				vals[i] = numberValue(v)
			}
			data = append(data, vals)
		}
		if err := writeRows(f, c.ID, data); err != nil {
			return err
		}
		_ = f.SetRowStyle(c.ID, 1, 1, bold)
		_ = f.SetColWidth(c.ID, "A", "A", 20)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// numberValue returns a float for present numbers so spreadsheets can
// compute with them, and an empty cell for missing ones.
func numberValue(c cell) interface{} {
	if !c.isNum {
		return c.text
	}
	if v, ok := c.number.Float(); ok {
		return v
	}
	return nil
}
