package pipeline

// Record represents a single row keyed by column name.
type Record map[string]any

// Table is an in-memory logical table: an ordered column list and the rows
// that share it. Query results are streamed into a Table chunk by chunk, the
// transformer rewrites it in place, and storage serializes it to parquet.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the column list if not already present.
// Row values for the new column are set by the caller.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Append adds rows to the table.
func (t *Table) Append(rows ...Record) {
	t.Rows = append(t.Rows, rows...)
}

// AppendTable concatenates another table's rows onto this one. Columns
// present in the other table but not in this one are appended to the
// column list, preserving first-seen order.
func (t *Table) AppendTable(other *Table) {
	if other == nil {
		return
	}
	for _, c := range other.Columns {
		t.AddColumn(c)
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// Rename renames columns according to the given old→new mapping. Columns
// absent from the mapping are left untouched.
func (t *Table) Rename(mapping map[string]string) {
	for i, c := range t.Columns {
		if renamed, ok := mapping[c]; ok {
			t.Columns[i] = renamed
		}
	}
	for _, row := range t.Rows {
		for old, renamed := range mapping {
			if v, ok := row[old]; ok {
				row[renamed] = v
				delete(row, old)
			}
		}
	}
}

// Drop removes the given columns and their row values.
func (t *Table) Drop(columns ...string) {
	drop := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		drop[c] = struct{}{}
	}
	kept := t.Columns[:0]
	for _, c := range t.Columns {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	t.Columns = kept
	for _, row := range t.Rows {
		for c := range drop {
			delete(row, c)
		}
	}
}
