// Package integrity inspects and repairs gaps in daily climate tables.
// Coverage is always judged against the calendar span of the data, so a
// day with no row at all penalizes a column the same way an empty cell
// does.
package integrity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
)

// DefaultDateColumn is the date column carried by GeoMet daily records.
const DefaultDateColumn = "LOCAL_DATE"

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// RowFunc computes a cell value from a full row. Columns and row are
// aligned by index.
type RowFunc func(columns []string, row []string) string

// FillPlan describes how to populate one column on rows being filled.
// Build one with Constant, Method, or ByRow.
type FillPlan struct {
	constant string
	method   string
	fn       RowFunc
}

// Constant fills every targeted cell with the same value.
func Constant(v string) FillPlan { return FillPlan{constant: v} }

// Method fills targeted cells from neighbouring rows. Supported names
// are "ffill" (copy the nearest earlier value) and "bfill" (copy the
// nearest later value). Unknown names surface as an error when the plan
// is applied.
func Method(name string) FillPlan { return FillPlan{method: strings.TrimSpace(name)} }

// ByRow derives each targeted cell from its own row.
func ByRow(fn RowFunc) FillPlan { return FillPlan{fn: fn} }

// MissingDays lists the calendar days absent between the first and last
// date present in the table's date column.
func MissingDays(t *domain.Table, dateColumn string) ([]time.Time, error) {
	days, _, err := parseDays(t, dateColumn)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	present := make(map[time.Time]bool, len(days))
	first, last := days[0], days[0]
	for _, d := range days {
		present[d] = true
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	var missing []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if !present[d] {
			missing = append(missing, d)
		}
	}
	return missing, nil
}

// AddMissingDays returns a copy of the table sorted by date ascending,
// with one new row inserted for every day absent from the original date
// range. New rows carry the date in the date column and are otherwise
// empty unless fill plans populate them. Plans only touch the inserted
// rows; original rows keep their values.
func AddMissingDays(t *domain.Table, dateColumn string, plans map[string]FillPlan) (*domain.Table, error) {
	days, layout, err := parseDays(t, dateColumn)
	if err != nil {
		return nil, err
	}
	if err := checkPlanColumns(t, plans); err != nil {
		return nil, err
	}

	dateIdx := t.ColumnIndex(dateColumn)

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return days[order[a]].Before(days[order[b]]) })

	out := &domain.Table{Columns: append([]string(nil), t.Columns...)}

	present := make(map[time.Time]bool, len(days))
	for _, d := range days {
		present[d] = true
	}

	var added []int
	if len(order) > 0 {
		first := days[order[0]]
		last := days[order[len(order)-1]]
		next := 0
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if present[d] {
				for next < len(order) && sameDay(days[order[next]], d) {
					out.AppendRow(append([]string(nil), t.Rows[order[next]]...))
					next++
				}
				continue
			}
			row := make([]string, len(out.Columns))
			row[dateIdx] = d.Format(layout)
			added = append(added, out.Len())
			out.AppendRow(row)
		}
	}

	if err := applyPlans(out, plans, added); err != nil {
		return nil, err
	}
	return out, nil
}

// FillByPlans applies the fill plans to the given row indices of a copy
// of the table. A nil rows slice targets every row.
func FillByPlans(t *domain.Table, plans map[string]FillPlan, rows []int) (*domain.Table, error) {
	if err := checkPlanColumns(t, plans); err != nil {
		return nil, err
	}
	out := &domain.Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		out.AppendRow(append([]string(nil), r...))
	}
	if rows == nil {
		rows = make([]int, out.Len())
		for i := range rows {
			rows[i] = i
		}
	}
	if err := applyPlans(out, plans, rows); err != nil {
		return nil, err
	}
	return out, nil
}

// CoveragePercentages reports, per column, the share of days in the
// table's date range that carry a value. Keys in the result are the
// column names with "_COVERAGE" appended.
func CoveragePercentages(t *domain.Table, columns []string, dateColumn string) (map[string]float64, error) {
	numDays, err := spanDays(t, dateColumn)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(t, columns); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(columns))
	for _, col := range columns {
		n := 0
		for _, v := range t.Column(col) {
			if strings.TrimSpace(v) != "" {
				n++
			}
		}
		out[col+"_COVERAGE"] = float64(n) / float64(numDays)
	}
	return out, nil
}

// PercentRowsFullyCovered reports the share of days in the table's date
// range whose row carries a value in every listed column.
func PercentRowsFullyCovered(t *domain.Table, columns []string, dateColumn string) (float64, error) {
	numDays, err := spanDays(t, dateColumn)
	if err != nil {
		return 0, err
	}
	if err := checkColumns(t, columns); err != nil {
		return 0, err
	}

	idx := make([]int, len(columns))
	for i, col := range columns {
		idx[i] = t.ColumnIndex(col)
	}

	covered := 0
	for _, row := range t.Rows {
		full := true
		for _, i := range idx {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				full = false
				break
			}
		}
		if full {
			covered++
		}
	}
	return float64(covered) / float64(numDays), nil
}

func applyPlans(t *domain.Table, plans map[string]FillPlan, rows []int) error {
	if len(plans) == 0 || len(rows) == 0 {
		return nil
	}

	target := make(map[int]bool, len(rows))
	for _, r := range rows {
		target[r] = true
	}

	// Apply in column order so results are deterministic.
	for _, col := range t.Columns {
		plan, ok := plans[col]
		if !ok {
			continue
		}
		ci := t.ColumnIndex(col)
		switch {
		case plan.fn != nil:
			for _, r := range rows {
				t.Rows[r][ci] = plan.fn(t.Columns, t.Rows[r])
			}
		case plan.method == "ffill":
			last := ""
			for r := range t.Rows {
				if target[r] && t.Rows[r][ci] == "" {
					t.Rows[r][ci] = last
				}
				if t.Rows[r][ci] != "" {
					last = t.Rows[r][ci]
				}
			}
		case plan.method == "bfill":
			next := ""
			for r := len(t.Rows) - 1; r >= 0; r-- {
				if target[r] && t.Rows[r][ci] == "" {
					t.Rows[r][ci] = next
				}
				if t.Rows[r][ci] != "" {
					next = t.Rows[r][ci]
				}
			}
		case plan.method != "":
			return &domain.OpError{
				Op:   "integrity.fill",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("unknown fill method %q, supported methods are ffill and bfill", plan.method),
			}
		default:
			for _, r := range rows {
				t.Rows[r][ci] = plan.constant
			}
		}
	}
	return nil
}

func checkPlanColumns(t *domain.Table, plans map[string]FillPlan) error {
	var bad []string
	for col := range plans {
		if !t.HasColumn(col) {
			bad = append(bad, col)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &domain.OpError{
			Op:   "integrity.fill",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("fill plan columns %v not found, available: %v", bad, t.Columns),
		}
	}
	return nil
}

func checkColumns(t *domain.Table, columns []string) error {
	var bad []string
	for _, col := range columns {
		if !t.HasColumn(col) {
			bad = append(bad, col)
		}
	}
	if len(bad) > 0 {
		return &domain.OpError{
			Op:   "integrity.coverage",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("columns %v not found, available: %v", bad, t.Columns),
		}
	}
	return nil
}

// spanDays counts the calendar days from the earliest to the latest date
// in the table, inclusive.
func spanDays(t *domain.Table, dateColumn string) (int, error) {
	days, _, err := parseDays(t, dateColumn)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, &domain.OpError{
			Op:   "integrity.coverage",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("no rows to measure coverage over: %w", domain.ErrNoData),
		}
	}
	first, last := days[0], days[0]
	for _, d := range days {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return int(last.Sub(first).Hours()/24) + 1, nil
}

// parseDays parses every value of the date column, truncated to the day,
// and reports the layout that matched the first value so inserted rows
// can be formatted the same way.
func parseDays(t *domain.Table, dateColumn string) ([]time.Time, string, error) {
	if !t.HasColumn(dateColumn) {
		return nil, "", &domain.OpError{
			Op:   "integrity.dates",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("date column %q not found, available: %v", dateColumn, t.Columns),
		}
	}

	layout := dateLayouts[0]
	days := make([]time.Time, 0, t.Len())
	for i, v := range t.Column(dateColumn) {
		parsed, l, ok := parseDate(v)
		if !ok {
			return nil, "", &domain.OpError{
				Op:   "integrity.dates",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("row %d: cannot parse %q in column %q as a date", i, v, dateColumn),
			}
		}
		if i == 0 {
			layout = l
		}
		days = append(days, day(parsed))
	}
	return days, layout, nil
}

func parseDate(v string) (time.Time, string, bool) {
	v = strings.TrimSpace(v)
	for _, l := range dateLayouts {
		if parsed, err := time.Parse(l, v); err == nil {
			return parsed, l, true
		}
	}
	return time.Time{}, "", false
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool { return a.Equal(b) }
