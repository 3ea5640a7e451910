package csvfile

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/CChelak/dan-lab/internal/domain"
)

func dailyTable() *domain.Table {
	return &domain.Table{
		Columns: []string{"LOCAL_DATE", "CLIMATE_IDENTIFIER", "MEAN_TEMPERATURE"},
		Rows: [][]string{
			{"2020-06-02 00:00:00", "3033880", "15.1"},
			{"2020-06-01 00:00:00", "3033880", "14.0"},
			{"2020-06-03 00:00:00", "3033880", "16.7"},
		},
	}
}

func TestWriteDaily_FileNaming(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDaily(dailyTable(), "LETHBRIDGE A", "", dir)
	if err != nil {
		t.Fatalf("WriteDaily error: %v", err)
	}

	want := filepath.Join(dir, "LETHBRIDGE_A_3033880_2020-06-01_2020-06-03.csv")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("written file missing: %v", err)
	}
}

func TestWriteDaily_Prefix(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDaily(dailyTable(), "LETHBRIDGE A", "daily", dir)
	if err != nil {
		t.Fatalf("WriteDaily error: %v", err)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "daily_") {
		t.Fatalf("file name %q should carry the prefix", base)
	}
}

func TestWriteDaily_MissingRequiredColumn(t *testing.T) {
	bad := &domain.Table{
		Columns: []string{"MEAN_TEMPERATURE"},
		Rows:    [][]string{{"10.0"}},
	}
	if _, err := WriteDaily(bad, "X", "", t.TempDir()); err == nil {
		t.Fatalf("expected error when naming columns are absent")
	}
}

func TestWriteDaily_BadDirectory(t *testing.T) {
	if _, err := WriteDaily(dailyTable(), "X", "", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for non-existent output directory")
	}
}

// writeArchiveCSV writes a Latin-1 test fixture in the bulk-archive shape.
func writeArchiveCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(charmap.ISO8859_1.NewEncoder().Writer(f))
	header := []string{"Station Name", "Climate ID", "Date/Time", "Year"}
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush fixture: %v", err)
	}
}

func TestJoinByClimateID(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writeArchiveCSV(t, filepath.Join(inDir, "climate_daily_AB_303A0Q6_2001_P1D.csv"), [][]string{
		{"LETHBRIDGE CDA", "303A0Q6", "2001-05-01", "2001"},
		{"LETHBRIDGE CDA", "303A0Q6", "2001-05-02", "2001"},
	})
	writeArchiveCSV(t, filepath.Join(inDir, "climate_daily_AB_303A0Q6_2002_P1D.csv"), [][]string{
		{"LETHBRIDGE CDA", "303A0Q6", "2002-05-01", "2002"},
	})
	writeArchiveCSV(t, filepath.Join(inDir, "climate_daily_AB_3033880_2001_P1D.csv"), [][]string{
		{"LETHBRIDGE A", "3033880", "2001-05-01", "2001"},
	})
	// A file with no recognizable climate ID in its name is skipped.
	writeArchiveCSV(t, filepath.Join(inDir, "notes.csv"), [][]string{
		{"N/A", "", "", ""},
	})

	written, err := JoinByClimateID(inDir, outDir, "joined", nil)
	if err != nil {
		t.Fatalf("JoinByClimateID error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("wrote %d files, want 2: %v", len(written), written)
	}

	var cdaPath string
	for _, p := range written {
		if strings.Contains(p, "303A0Q6") {
			cdaPath = p
		}
	}
	if cdaPath == "" {
		t.Fatalf("no joined file for 303A0Q6 in %v", written)
	}
	if base := filepath.Base(cdaPath); base != "joined_LETHBRIDGE_CDA_303A0Q6_2001-2002.csv" {
		t.Fatalf("unexpected joined name %q", base)
	}

	joined, err := ReadTableLatin1(cdaPath)
	if err != nil {
		t.Fatalf("read joined file: %v", err)
	}
	if joined.Len() != 3 {
		t.Fatalf("joined rows = %d, want 3", joined.Len())
	}
	// Sorted by Date/Time descending.
	if got := joined.Value(0, "Date/Time"); got != "2002-05-01" {
		t.Fatalf("first row date = %q, want newest", got)
	}
}

func TestReadTableLatin1_RoundTripsAccents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "climate_daily_QC_7016294_1994_P1D.csv")
	writeArchiveCSV(t, path, [][]string{
		{"RIVIÈRE-DU-LOUP", "7016294", "1994-01-01", "1994"},
	})

	got, err := ReadTableLatin1(path)
	if err != nil {
		t.Fatalf("ReadTableLatin1 error: %v", err)
	}
	if name := got.Value(0, "Station Name"); name != "RIVIÈRE-DU-LOUP" {
		t.Fatalf("station name = %q, accents lost in transcoding", name)
	}
}
