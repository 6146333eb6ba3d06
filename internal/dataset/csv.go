package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSV structure errors.
var (
	ErrNoHeader   = errors.New("no header row")
	ErrFieldCount = errors.New("wrong number of fields")
)

// Table is a parsed CSV resource before normalization.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex maps column names to their position.
func (t *Table) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, col := range t.Header {
		idx[col] = i
	}
	return idx
}

// HasColumn checks if the header contains a column.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.ColumnIndex()[col]
	return ok
}

// ReadTable reads a comma-separated resource with a header row.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &Table{Header: normalizeHeader(header)}

	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) > len(t.Header) {
			return nil, fmt.Errorf("row %d: %w: expected %d, saw %d", lineNum, ErrFieldCount, len(t.Header), len(record))
		}
		// Short rows are padded with missing cells
		row := make([]string, len(t.Header))
		copy(row, record)
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// normalizeHeader trims column names, strips a UTF-8 byte order mark, names
// blank columns and disambiguates duplicates with a numeric suffix.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		col = strings.TrimSpace(col)
		if col == "" {
			col = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[col]; ok {
			seen[col] = n + 1
			col = fmt.Sprintf("%s.%d", col, n+1)
		} else {
			seen[col] = 0
		}
		out[i] = col
	}
	return out
}

// WriteCSV writes the dataset, derived columns included, to a CSV writer.
// Missing numbers are written as empty cells.
func (d *Dataset) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(d.columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(d.columns))
	for i, r := range d.records {
		for j, col := range d.columns {
			row[j] = r.Value(col)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
