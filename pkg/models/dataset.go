package models

import "fmt"

// Row holds one Value per Dataset column, in column order.
type Row []Value

// Dataset is an ordered, immutable table of raw or normalized values.
// Every row has exactly one value per column.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewDataset builds a Dataset. Short rows are padded with missing values and
// long rows are truncated so every row matches the header.
func NewDataset(columns []string, rows []Row) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, len(cols))
		copy(row, r)
		out[i] = row
	}
	return &Dataset{columns: cols, index: index, rows: out}
}

// Columns returns a copy of the column names.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Has reports whether the column exists.
func (d *Dataset) Has(column string) bool {
	_, ok := d.index[column]
	return ok
}

// ColumnIndex returns the position of a column.
func (d *Dataset) ColumnIndex(column string) (int, bool) {
	i, ok := d.index[column]
	return i, ok
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) Row {
	out := make(Row, len(d.rows[i]))
	copy(out, d.rows[i])
	return out
}

// Value returns the value of column in row i, or missing when the column is unknown.
func (d *Dataset) Value(i int, column string) Value {
	c, ok := d.index[column]
	if !ok || i < 0 || i >= len(d.rows) {
		return MissingValue()
	}
	return d.rows[i][c]
}

// Column returns a copy of every value of a column.
func (d *Dataset) Column(column string) ([]Value, error) {
	c, ok := d.index[column]
	if !ok {
		return nil, &ColumnNotFoundError{Column: column}
	}
	out := make([]Value, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[c]
	}
	return out, nil
}

// MapColumn returns a new Dataset where every value of column is replaced by fn(value).
func (d *Dataset) MapColumn(column string, fn func(Value) Value) (*Dataset, error) {
	c, ok := d.index[column]
	if !ok {
		return nil, &ColumnNotFoundError{Column: column}
	}
	rows := make([]Row, len(d.rows))
	for i, r := range d.rows {
		row := make(Row, len(r))
		copy(row, r)
		row[c] = fn(r[c])
		rows[i] = row
	}
	return &Dataset{columns: d.columns, index: d.index, rows: rows}, nil
}

// WithColumn returns a new Dataset with values set as column. An existing column
// of the same name is replaced in place; otherwise the column is appended.
func (d *Dataset) WithColumn(column string, values []Value) (*Dataset, error) {
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", column, len(values), len(d.rows))
	}

	cols := d.columns
	pos, exists := d.index[column]
	if !exists {
		cols = append(d.Columns(), column)
		pos = len(cols) - 1
	}

	rows := make([]Row, len(d.rows))
	for i, r := range d.rows {
		row := make(Row, len(cols))
		copy(row, r)
		row[pos] = values[i]
		rows[i] = row
	}
	return NewDataset(cols, rows), nil
}

// Select returns a new Dataset holding the rows at the given indices, in order.
func (d *Dataset) Select(indices []int) *Dataset {
	rows := make([]Row, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, d.rows[i])
	}
	return &Dataset{columns: d.columns, index: d.index, rows: rows}
}
