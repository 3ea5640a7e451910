package domain

import (
	"reflect"
	"testing"
)

func TestTableReorderColumns(t *testing.T) {
	tb := &Table{
		Columns: []string{"id", "geometry", "STN_ID", "STATION_NAME"},
		Rows: [][]string{
			{"1", "POINT", "2263", "LETHBRIDGE A"},
		},
	}

	tb.ReorderColumns([]string{"STATION_NAME", "STN_ID"})

	wantCols := []string{"id", "geometry", "STATION_NAME", "STN_ID"}
	if !reflect.DeepEqual(tb.Columns, wantCols) {
		t.Fatalf("columns = %v, want %v", tb.Columns, wantCols)
	}
	wantRow := []string{"1", "POINT", "LETHBRIDGE A", "2263"}
	if !reflect.DeepEqual(tb.Rows[0], wantRow) {
		t.Fatalf("row = %v, want %v", tb.Rows[0], wantRow)
	}
}

func TestTableReorderColumns_NilLeavesUntouched(t *testing.T) {
	tb := &Table{Columns: []string{"b", "a"}, Rows: [][]string{{"1", "2"}}}
	tb.ReorderColumns(nil)
	if !reflect.DeepEqual(tb.Columns, []string{"b", "a"}) {
		t.Fatalf("nil properties should not reorder, got %v", tb.Columns)
	}
}

func TestTableReorderColumns_MissingPropertyBecomesEmpty(t *testing.T) {
	tb := &Table{Columns: []string{"a"}, Rows: [][]string{{"x"}}}
	tb.ReorderColumns([]string{"a", "missing"})
	if got := tb.Value(0, "missing"); got != "" {
		t.Fatalf("missing column value = %q, want empty", got)
	}
	if got := tb.Value(0, "a"); got != "x" {
		t.Fatalf("column a = %q, want x", got)
	}
}

func TestTableConcat_AlignsByName(t *testing.T) {
	a := &Table{Columns: []string{"x", "y"}, Rows: [][]string{{"1", "2"}}}
	b := &Table{Columns: []string{"y", "z"}, Rows: [][]string{{"3", "4"}}}

	a.Concat(b)

	if !reflect.DeepEqual(a.Columns, []string{"x", "y", "z"}) {
		t.Fatalf("columns = %v", a.Columns)
	}
	if a.Len() != 2 {
		t.Fatalf("rows = %d, want 2", a.Len())
	}
	if !reflect.DeepEqual(a.Rows[0], []string{"1", "2", ""}) {
		t.Fatalf("row0 = %v", a.Rows[0])
	}
	if !reflect.DeepEqual(a.Rows[1], []string{"", "3", "4"}) {
		t.Fatalf("row1 = %v", a.Rows[1])
	}
}

func TestTableConcat_IntoEmptyAdoptsColumns(t *testing.T) {
	a := &Table{}
	b := &Table{Columns: []string{"p", "q"}, Rows: [][]string{{"1", "2"}}}
	a.Concat(b)
	if !reflect.DeepEqual(a.Columns, []string{"p", "q"}) || a.Len() != 1 {
		t.Fatalf("unexpected table after concat: %+v", a)
	}
}

func TestTableUniqueValues(t *testing.T) {
	tb := &Table{
		Columns: []string{"CLIMATE_IDENTIFIER"},
		Rows:    [][]string{{"3033880"}, {"3033880"}, {"303A0Q6"}},
	}
	got := tb.UniqueValues("CLIMATE_IDENTIFIER")
	if !reflect.DeepEqual(got, []string{"3033880", "303A0Q6"}) {
		t.Fatalf("unique values = %v", got)
	}
}

func TestTableAppendRow_WrongWidth(t *testing.T) {
	tb := NewTable("a", "b")
	if err := tb.AppendRow([]string{"only"}); err == nil {
		t.Fatalf("expected error for mismatched row width")
	}
}
