// Package ingest parses uploaded spreadsheets into header-keyed row maps.
// Supported formats: CSV, XLSX, and legacy XLS, detected by file extension
// with the declared content type as fallback. Only the first sheet is read.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("invalid file type, only CSV, XLSX and XLS files are allowed")

// Row is a single data row keyed by lowercased, trimmed column header.
type Row map[string]string

// Has reports whether the row's source sheet carried the given column.
func (r Row) Has(header string) bool {
	_, ok := r[header]
	return ok
}

// Get returns the cell value for the given column, or "" when absent.
func (r Row) Get(header string) string {
	return r[header]
}

type format int

const (
	formatCSV format = iota
	formatXLSX
	formatXLS
)

// Parse reads the first sheet of the uploaded file into ordered rows. The
// first record is treated as the header; completely blank rows are skipped.
// An empty (but well-formed) file yields zero rows, not an error.
func Parse(filename, contentType string, data []byte) ([]Row, error) {
	f, err := detectFormat(filename, contentType)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch f {
	case formatCSV:
		records, err = readCSV(data)
	case formatXLSX:
		records, err = readXLSX(data)
	case formatXLS:
		records, err = readXLS(data)
	}
	if err != nil {
		return nil, err
	}

	return rowsFromRecords(records), nil
}

func detectFormat(filename, contentType string) (format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return formatCSV, nil
	case ".xlsx":
		return formatXLSX, nil
	case ".xls":
		return formatXLS, nil
	}

	// No recognised extension: fall back to the declared content type.
	mime := contentType
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	switch strings.TrimSpace(mime) {
	case "text/csv":
		return formatCSV, nil
	case "application/vnd.ms-excel":
		return formatXLS, nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return formatXLSX, nil
	}

	return 0, ErrUnsupportedFormat
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // ragged rows are tolerated, blank cells stay ""

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			rec[j] = row.Col(j)
		}
		records = append(records, rec)
	}
	return records, nil
}

// rowsFromRecords turns raw records into header-keyed rows. Header cells are
// trimmed and lowercased; empty header cells are ignored.
func rowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			var val string
			if i < len(rec) {
				val = strings.TrimSpace(rec[i])
			}
			row[h] = val
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
