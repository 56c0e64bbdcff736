package model

import "fmt"

// Frame is an ordered tabular result: a destination table name, a
// column list, and rows of values positionally matching the columns.
type Frame struct {
	Table   string
	Columns []string
	Rows    [][]any
}

// NewFrame creates an empty frame for table with the given columns.
func NewFrame(table string, columns ...string) *Frame {
	return &Frame{
		Table:   table,
		Columns: columns,
	}
}

// Append adds a row. The value count must match the column count.
func (f *Frame) Append(values ...any) error {
	if len(values) != len(f.Columns) {
		return fmt.Errorf("frame %s: row has %d values, want %d", f.Table, len(values), len(f.Columns))
	}
	f.Rows = append(f.Rows, values)
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}
