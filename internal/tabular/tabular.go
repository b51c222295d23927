// Package tabular loads CSV tables into header-keyed rows and provides the
// lenient value parsing the proxy exports need (thousand separators, percent
// suffixes, UTF-8 BOMs, inconsistent header aliases).
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Table is an ordered list of rows plus the headers they were read with.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the table was read with the given header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ReadFile loads a CSV file into a Table. A leading BOM is stripped and
// short records are padded so every row exposes every header.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return t, nil
}

// Read loads CSV data from r into a Table.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// First returns the first non-empty value among the candidate columns.
func (r Row) First(candidates ...string) string {
	for _, c := range candidates {
		if v, ok := r[c]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Float parses the first present candidate column as an optional float.
func (r Row) Float(candidates ...string) *float64 {
	for _, c := range candidates {
		if v, ok := r[c]; ok {
			return ParseFloat(v)
		}
	}
	return nil
}

// ParseFloat parses a metric cell into an optional float. Thousand
// separators are dropped and a trailing percent sign is ignored; anything
// unparseable is absent rather than an error.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseCompetition maps a planner competition cell to a 0-100 value.
// Textual levels map to fixed points; numeric values at most 1 are treated
// as a 0-1 ratio, larger values are clamped directly.
func ParseCompetition(s string) *float64 {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return nil
	}
	var v float64
	switch t {
	case "low":
		v = 33
	case "medium", "med":
		v = 66
	case "high":
		v = 100
	default:
		p := ParseFloat(t)
		if p == nil {
			return nil
		}
		if *p <= 1 {
			v = clamp(*p * 100)
		} else {
			v = clamp(*p)
		}
	}
	return &v
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
