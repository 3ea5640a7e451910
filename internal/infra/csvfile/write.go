// Package csvfile reads and writes the CSV artifacts the download and join
// workflows produce. File naming mirrors the layout the station archives use,
// so files sort naturally by station and date range.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
)

// localDateLayouts covers the date shapes the LOCAL_DATE column shows up in.
var localDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Writer adapts the package functions to the ports.DailyWriter interface.
type Writer struct{}

func (Writer) WriteDaily(t *domain.Table, stationName, prefix, dir string) (string, error) {
	return WriteDaily(t, stationName, prefix, dir)
}

// WriteDaily writes a daily-data table to
// <dir>/<prefix>_<station>_<ids>_<firstDate>_<lastDate>.csv and returns the
// path written. The table must carry LOCAL_DATE and CLIMATE_IDENTIFIER
// columns; spaces in the station name become underscores.
func WriteDaily(t *domain.Table, stationName, prefix, dir string) (string, error) {
	for _, required := range []string{"LOCAL_DATE", "CLIMATE_IDENTIFIER"} {
		if !t.HasColumn(required) {
			return "", &domain.OpError{
				Op:   "csvfile.write_daily",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("column %s is needed to name the file: %w", required, domain.ErrInvalidInput),
			}
		}
	}
	if t.IsEmpty() {
		return "", &domain.OpError{
			Op:   "csvfile.write_daily",
			Kind: domain.KindInvalidInput,
			Err:  fmt.Errorf("no rows to write: %w", domain.ErrNoData),
		}
	}

	if dir == "" {
		dir = "."
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", &domain.OpError{
			Op:   "csvfile.write_daily",
			Kind: domain.KindInvalidInput,
			Path: dir,
			Err:  fmt.Errorf("output directory is not a directory"),
		}
	}

	ids := strings.Join(t.UniqueValues("CLIMATE_IDENTIFIER"), "_")

	firstDate, lastDate := dateRange(t.Column("LOCAL_DATE"))

	name := fmt.Sprintf("%s_%s_%s_%s.csv",
		strings.ReplaceAll(stationName, " ", "_"), ids, firstDate, lastDate)
	if prefix != "" {
		name = prefix + "_" + name
	}

	path := filepath.Join(dir, name)
	if err := WriteTable(t, path); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTable writes a table as UTF-8 CSV with a header row.
func WriteTable(t *domain.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.OpError{
			Op:   "csvfile.create",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	w := csv.NewWriter(f)
	werr := w.Write(t.Columns)
	for _, row := range t.Rows {
		if werr != nil {
			break
		}
		werr = w.Write(row)
	}
	if werr == nil {
		w.Flush()
		werr = w.Error()
	}

	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		return &domain.OpError{Op: "csvfile.write", Kind: domain.KindExecution, Path: path, Err: werr}
	}
	return nil
}

// dateRange extracts the minimum and maximum calendar days from LOCAL_DATE
// values. Unparseable values are ignored.
func dateRange(values []string) (first, last string) {
	var minT, maxT time.Time
	for _, v := range values {
		t, ok := parseLocalDate(v)
		if !ok {
			continue
		}
		if minT.IsZero() || t.Before(minT) {
			minT = t
		}
		if maxT.IsZero() || t.After(maxT) {
			maxT = t
		}
	}
	if minT.IsZero() {
		return "", ""
	}
	return minT.Format("2006-01-02"), maxT.Format("2006-01-02")
}

func parseLocalDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range localDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
