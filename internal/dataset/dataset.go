// Package dataset provides the row and table primitives the pipeline moves
// data through, plus the CSV and ratings-JSON readers and the CSV writer.
//
// A Row is a loose column-to-scalar mapping; a Table pairs rows with the
// column order observed in the source so downstream stages can keep stable,
// deterministic output. Rows are read once and never mutated by this
// package.
package dataset

// Row maps a column name to a raw scalar as read from one input source.
// Values are strings for CSV sources and decoded JSON scalars for the
// ratings source.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the column exists with a non-nil value.
func (r Row) Has(column string) bool {
	v, ok := r[column]
	return ok && v != nil
}

// Table is an ordered collection of rows sharing a column universe.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column name if not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}
