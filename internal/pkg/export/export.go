// Package export renders report tables as CSV or XLSX downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerFill = "#4472C4"
	maxWidth   = 60
)

// Table is a rectangular report. RowFills, when set, holds one hex colour
// (or "") per row of Rows.
type Table struct {
	Sheet    string
	Headers  []string
	Rows     [][]string
	RowFills []string
}

// CSV writes the header followed by every row.
func CSV(t Table) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}

	return buf.Bytes(), nil
}

// XLSX renders a single-sheet workbook with a styled header row.
func XLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Report"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(t.Headers))
	for col, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		widths[col] = len(h)
	}
	if len(t.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	fillStyles := map[string]int{}
	for i, row := range t.Rows {
		rowNum := i + 2
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowNum, err)
			}
			if col < len(widths) && len(value) > widths[col] {
				widths[col] = len(value)
			}
		}

		if i >= len(t.RowFills) || t.RowFills[i] == "" || len(row) == 0 {
			continue
		}
		color := t.RowFills[i]
		style, ok := fillStyles[color]
		if !ok {
			style, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create fill style: %w", err)
			}
			fillStyles[color] = style
		}
		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		last, _ := excelize.CoordinatesToCellName(len(row), rowNum)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			return nil, fmt.Errorf("failed to style row %d: %w", rowNum, err)
		}
	}

	for col, w := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, name, name, float64(min(w+2, maxWidth))); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
