package domain

import "fmt"

// Table is an ordered set of named columns over string rows. Climate records
// come back with whatever properties the caller asked for, so the column set
// is decided at request time rather than compile time.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table holds no rows.
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// AppendRow adds a row, which must match the column count.
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Columns) {
		return &OpError{
			Op:   "table.append",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns)),
		}
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Value returns the cell at the given row for the named column. Missing
// columns yield the empty string.
func (t *Table) Value(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}

// Column returns all values of the named column, or nil if absent.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// UniqueValues returns the distinct values of the named column in first-seen
// order.
func (t *Table) UniqueValues(column string) []string {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(t.Rows))
	var out []string
	for _, row := range t.Rows {
		v := row[idx]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Concat appends the rows of other, aligning columns by name. Columns absent
// from the receiver are added; rows missing a value for a column get the
// empty string.
func (t *Table) Concat(other *Table) {
	if other == nil || len(other.Rows) == 0 {
		if other != nil && len(t.Columns) == 0 {
			t.Columns = append([]string(nil), other.Columns...)
		}
		return
	}
	if len(t.Columns) == 0 && len(t.Rows) == 0 {
		t.Columns = append([]string(nil), other.Columns...)
		for _, row := range other.Rows {
			t.Rows = append(t.Rows, append([]string(nil), row...))
		}
		return
	}

	for _, c := range other.Columns {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
			for i := range t.Rows {
				t.Rows[i] = append(t.Rows[i], "")
			}
		}
	}

	srcIdx := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		srcIdx[i] = other.ColumnIndex(c)
	}

	for _, row := range other.Rows {
		dst := make([]string, len(t.Columns))
		for i, si := range srcIdx {
			if si >= 0 && si < len(row) {
				dst[i] = row[si]
			}
		}
		t.Rows = append(t.Rows, dst)
	}
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// ReorderColumns rearranges columns so that any column not listed in
// properties comes first, followed by the listed properties in their given
// order. Listed properties missing from the table appear as empty columns.
// A nil properties slice leaves the table untouched.
func (t *Table) ReorderColumns(properties []string) {
	if properties == nil {
		return
	}

	inProps := make(map[string]struct{}, len(properties))
	for _, p := range properties {
		inProps[p] = struct{}{}
	}

	var newCols []string
	for _, c := range t.Columns {
		if _, ok := inProps[c]; !ok {
			newCols = append(newCols, c)
		}
	}
	newCols = append(newCols, properties...)

	srcIdx := make([]int, len(newCols))
	for i, c := range newCols {
		srcIdx[i] = t.ColumnIndex(c)
	}

	for i, row := range t.Rows {
		dst := make([]string, len(newCols))
		for j, si := range srcIdx {
			if si >= 0 {
				dst[j] = row[si]
			}
		}
		t.Rows[i] = dst
	}
	t.Columns = newCols
}
