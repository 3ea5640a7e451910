package csvfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/CChelak/dan-lab/internal/domain"
)

// climateIDPattern matches the 7-character climate identifier embedded in
// archive file names, e.g. climate_daily_AB_303A0Q6_2001_P1D.csv.
var climateIDPattern = regexp.MustCompile(`_(\w{7})_`)

// JoinByClimateID groups the CSV files under inDir by the climate ID in
// their names and concatenates each group into one file per station under
// outDir, sorted by Date/Time descending. Output files are named
// <basename>_<station>_<climateID>_<startYear>-<endYear>.csv.
//
// The upstream bulk archives are Latin-1 encoded; files are transcoded on
// read and written back out the same way. Files whose names carry no climate
// ID are logged and skipped.
func JoinByClimateID(inDir, outDir, basename string, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.Default()
	}

	pattern := filepath.Join(inDir, "*.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "csvfile.join",
			Kind: domain.KindInvalidInput,
			Path: inDir,
			Err:  err,
		}
	}

	// Most-recent years first, assuming year-stamped names.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	grouped := map[string][]string{}
	var order []string
	for _, f := range files {
		m := climateIDPattern.FindStringSubmatch(filepath.Base(f))
		if m == nil {
			log.Error("csvfile.no_climate_id_in_name", "file", f)
			continue
		}
		id := m[1]
		if _, ok := grouped[id]; !ok {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], f)
	}

	var written []string
	for _, id := range order {
		path, err := joinGroup(grouped[id], id, outDir, basename, log)
		if err != nil {
			return written, err
		}
		if path != "" {
			written = append(written, path)
		}
	}
	return written, nil
}

// joinGroup concatenates one climate ID's files. An empty group result is
// logged and skipped rather than failing the whole join.
func joinGroup(files []string, climateID, outDir, basename string, log *slog.Logger) (string, error) {
	joined := &domain.Table{}
	for _, f := range files {
		t, err := ReadTableLatin1(f)
		if err != nil {
			return "", err
		}
		joined.Concat(t)
	}

	if joined.IsEmpty() {
		log.Error("csvfile.no_rows_for_climate_id", "climate_id", climateID)
		return "", nil
	}

	sortByColumnDesc(joined, "Date/Time")

	station := strings.ReplaceAll(joined.Value(0, "Station Name"), " ", "_")
	endYear := joined.Value(0, "Year")
	startYear := joined.Value(joined.Len()-1, "Year")

	name := fmt.Sprintf("%s_%s_%s_%s-%s.csv", basename, station, climateID, startYear, endYear)
	outPath := filepath.Join(outDir, name)

	if err := writeTableLatin1(joined, outPath); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(outPath)
	if err != nil {
		return outPath, nil
	}
	return abs, nil
}

// ReadTableLatin1 reads a Latin-1 encoded CSV file into a table.
func ReadTableLatin1(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "csvfile.read",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, &domain.OpError{
			Op:   "csvfile.read",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	if len(records) == 0 {
		return &domain.Table{}, nil
	}

	t := domain.NewTable(records[0]...)
	for _, row := range records[1:] {
		// Pad or trim ragged rows to the header width.
		if len(row) < len(t.Columns) {
			row = append(row, make([]string, len(t.Columns)-len(row))...)
		} else if len(row) > len(t.Columns) {
			row = row[:len(t.Columns)]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func writeTableLatin1(t *domain.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.OpError{
			Op:   "csvfile.create",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	w := csv.NewWriter(charmap.ISO8859_1.NewEncoder().Writer(f))
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

// sortByColumnDesc orders rows by the named column, descending. Rows keep
// their relative order when the column is missing.
func sortByColumnDesc(t *domain.Table, column string) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i][idx] > t.Rows[j][idx]
	})
}
