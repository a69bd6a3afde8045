package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a parsed CSV document. Cells stay strings; numeric coercion
// happens at read time the way the charts need it.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// ParseTable reads CSV with the first row as header. Short rows are padded
// with empty cells.
func ParseTable(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header row")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}
	t := &Table{Columns: header, index: make(map[string]int, len(header))}
	for i, c := range header {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if len(rec) < len(header) {
			rec = append(rec, make([]string, len(header)-len(rec))...)
		}
		t.Rows = append(t.Rows, rec[:len(header)])
	}
	return t, nil
}

// Len is the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// String returns the raw cell, or "" when the column is unknown.
func (t *Table) String(row int, col string) string {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// Float parses the cell as a number. Empty cells are zero.
func (t *Table) Float(row int, col string) (float64, error) {
	if !t.Has(col) {
		return 0, fmt.Errorf("unknown column %q", col)
	}
	s := strings.TrimSpace(t.String(row, col))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d column %q: %w", row, col, err)
	}
	return v, nil
}

// NumericColumns returns the columns whose every non-empty cell parses as a
// number, in header order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		numeric := t.Len() > 0
		for r := range t.Rows {
			if _, err := t.Float(r, c); err != nil {
				numeric = false
				break
			}
		}
		if numeric {
			out = append(out, c)
		}
	}
	return out
}
