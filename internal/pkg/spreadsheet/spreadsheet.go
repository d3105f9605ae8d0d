// Package spreadsheet reads employee rosters from .xlsx, .xls or .csv uploads.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxXLSRows = 100000

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrEmpty             = errors.New("spreadsheet has no data rows")
	ErrMissingName       = errors.New("spreadsheet has no name column")
)

// Row is one roster line. Line is the 1-based row number in the sheet.
type Row struct {
	Line     int
	Name     string
	Email    string
	Phone    string
	JobClass string
	HireDate string
}

// Header aliases, compared after normalizeHeader.
var columnAliases = map[string][]string{
	"name":      {"name", "full name", "employee", "employee name"},
	"email":     {"email", "e-mail", "email address"},
	"phone":     {"phone", "phone number", "mobile", "telephone"},
	"job_class": {"job_class", "job class", "job title", "class", "position", "role"},
	"hire_date": {"hire_date", "hire date", "hired", "start date", "joined"},
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ReadRoster parses the first worksheet of the upload. The format is chosen by extension.
func ReadRoster(r io.Reader, filename string) ([]Row, error) {
	raw, err := readRows(r, filename)
	if err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, ErrEmpty
	}

	columns := mapColumns(raw[0])
	if _, ok := columns["name"]; !ok {
		return nil, ErrMissingName
	}

	rows := make([]Row, 0, len(raw)-1)
	for i, rec := range raw[1:] {
		row := Row{
			Line:     i + 2,
			Name:     cell(rec, columns, "name"),
			Email:    cell(rec, columns, "email"),
			Phone:    cell(rec, columns, "phone"),
			JobClass: cell(rec, columns, "job_class"),
			HireDate: normalizeDate(cell(rec, columns, "hire_date")),
		}
		if row == (Row{Line: row.Line}) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	return rows, nil
}

func readRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("failed to open xls: %w", err)
		}
		if workbook.NumSheets() == 0 {
			return nil, ErrEmpty
		}
		return workbook.ReadAllCells(maxXLSRows), nil
	case ".xlsx":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open xlsx: %w", err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, ErrEmpty
		}
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read worksheet: %w", err)
		}
		return rows, nil
	case ".csv":
		reader := csv.NewReader(bytes.NewReader(data))
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		return rows, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
}

func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for idx, h := range header {
		h = normalizeHeader(h)
		for field, aliases := range columnAliases {
			if _, taken := columns[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if h == alias {
					columns[field] = idx
				}
			}
		}
	}
	return columns
}

func cell(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeDate turns Excel serials and common layouts into YYYY-MM-DD.
// Unrecognised values are returned unchanged so validation can report them.
func normalizeDate(value string) string {
	if value == "" {
		return ""
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return value
}
