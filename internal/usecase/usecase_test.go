package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
)

type fakeStationSource struct {
	table    *domain.Table
	stations []domain.Station
	err      error
	gotQuery domain.StationQuery
}

func (f *fakeStationSource) Stations(ctx context.Context, q domain.StationQuery) (*domain.Table, []domain.Station, error) {
	f.gotQuery = q
	if f.err != nil {
		return nil, nil, f.err
	}
	if f.table == nil {
		f.table = &domain.Table{}
	}
	return f.table, f.stations, nil
}

func (f *fakeStationSource) Queryables(ctx context.Context, collection string) ([]string, error) {
	return nil, nil
}

type fakeStationStore struct {
	saved []domain.Station
}

func (f *fakeStationStore) SaveStations(ctx context.Context, stations []domain.Station) error {
	f.saved = append(f.saved, stations...)
	return nil
}

func (f *fakeStationStore) ListStations(ctx context.Context) ([]domain.Station, error) {
	return f.saved, nil
}

func (f *fakeStationStore) StationByClimateID(ctx context.Context, climateID string) (domain.Station, error) {
	for _, st := range f.saved {
		if st.ClimateID == climateID {
			return st, nil
		}
	}
	return domain.Station{}, domain.ErrNotFound
}

func (f *fakeStationStore) StationsByProvince(ctx context.Context, prov domain.ProvinceCode) ([]domain.Station, error) {
	return f.saved, nil
}

type fakeClimateSource struct {
	dailyByStation map[int]*domain.Table
	hourly         *domain.Table
	pages          []*domain.Table
	gotQuery       domain.ClimateQuery
}

func (f *fakeClimateSource) Daily(ctx context.Context, q domain.ClimateQuery) (*domain.Table, error) {
	f.gotQuery = q
	if len(q.StationIDs) > 0 {
		if t, ok := f.dailyByStation[q.StationIDs[0]]; ok {
			return t, nil
		}
	}
	return &domain.Table{}, nil
}

func (f *fakeClimateSource) Hourly(ctx context.Context, q domain.ClimateQuery) (*domain.Table, error) {
	f.gotQuery = q
	if f.hourly == nil {
		return &domain.Table{}, nil
	}
	return f.hourly, nil
}

func (f *fakeClimateSource) DailyPages(ctx context.Context, q domain.ClimateQuery, onPage func(*domain.Table) error) error {
	f.gotQuery = q
	for _, p := range f.pages {
		if err := onPage(p); err != nil {
			return err
		}
	}
	return nil
}

type fakeCountySource struct {
	counties map[string]domain.County
}

func (f *fakeCountySource) AllCounties(ctx context.Context) ([]domain.County, error) {
	var out []domain.County
	for _, c := range f.counties {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCountySource) County(ctx context.Context, name string) (domain.County, error) {
	c, ok := f.counties[name]
	if !ok {
		return domain.County{}, domain.ErrNotFound
	}
	return c, nil
}

type writeCall struct {
	station string
	prefix  string
	dir     string
	rows    int
}

type fakeWriter struct {
	writes []writeCall
}

func (f *fakeWriter) WriteDaily(t *domain.Table, stationName, prefix, dir string) (string, error) {
	f.writes = append(f.writes, writeCall{station: stationName, prefix: prefix, dir: dir, rows: t.Len()})
	return filepath.Join(dir, fmt.Sprintf("%s_%d.csv", stationName, len(f.writes))), nil
}

type fakeManifests struct {
	saved []domain.DownloadManifest
}

func (f *fakeManifests) SaveManifest(m domain.DownloadManifest) (string, error) {
	f.saved = append(f.saved, m)
	return fmt.Sprintf("manifest-%d", len(f.saved)), nil
}

func (f *fakeManifests) ListManifests() ([]domain.DownloadManifest, error) {
	return f.saved, nil
}

func dailyRows(climateID, station string, dates ...string) *domain.Table {
	t := &domain.Table{Columns: []string{"LOCAL_DATE", "STATION_NAME", "CLIMATE_IDENTIFIER", "MEAN_TEMPERATURE"}}
	for i, d := range dates {
		t.AppendRow([]string{d, station, climateID, fmt.Sprintf("%d.0", 10+i)})
	}
	return t
}

func TestFetchStations_SavesToStore(t *testing.T) {
	stations := []domain.Station{{ClimateID: "3033880", Name: "LETHBRIDGE A"}}
	src := &fakeStationSource{stations: stations, table: &domain.Table{}}
	store := &fakeStationStore{}

	uc := NewFetchStations(src, store)
	_, got, err := uc.Execute(context.Background(), domain.StationQuery{Province: domain.ProvinceAB})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(got) != 1 || got[0].ClimateID != "3033880" {
		t.Fatalf("stations = %v", got)
	}
	if len(store.saved) != 1 {
		t.Fatalf("store has %d stations, want 1", len(store.saved))
	}
	if src.gotQuery.Province != domain.ProvinceAB {
		t.Fatalf("province filter not passed through")
	}
}

func TestFetchStations_NilStore(t *testing.T) {
	src := &fakeStationSource{stations: []domain.Station{{ClimateID: "x"}}}
	uc := NewFetchStations(src, nil)
	if _, _, err := uc.Execute(context.Background(), domain.StationQuery{}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
}

func TestDownloadDaily_WritesAndRecordsManifest(t *testing.T) {
	climate := &fakeClimateSource{dailyByStation: map[int]*domain.Table{
		2263: dailyRows("3033880", "LETHBRIDGE A", "2020-06-01 00:00:00", "2020-06-02 00:00:00"),
	}}
	writer := &fakeWriter{}
	manifests := &fakeManifests{}

	uc := NewDownloadDaily(climate, writer, manifests)
	res, err := uc.Execute(context.Background(), DownloadRequest{
		Query:     domain.ClimateQuery{StationIDs: []int{2263}},
		OutputDir: "out",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Rows != 2 {
		t.Fatalf("rows = %d, want 2", res.Rows)
	}
	if res.ManifestID == "" {
		t.Fatalf("no manifest recorded")
	}
	if len(writer.writes) != 1 || writer.writes[0].station != "LETHBRIDGE A" {
		t.Fatalf("writes = %+v", writer.writes)
	}

	m := manifests.saved[0]
	if m.Collection != "climate-daily" {
		t.Fatalf("manifest collection = %q", m.Collection)
	}
	if len(m.ClimateIDs) != 1 || m.ClimateIDs[0] != "3033880" {
		t.Fatalf("manifest climate ids = %v", m.ClimateIDs)
	}
}

func TestDownloadDaily_EmptyResultWritesNothing(t *testing.T) {
	climate := &fakeClimateSource{}
	writer := &fakeWriter{}
	manifests := &fakeManifests{}

	uc := NewDownloadDaily(climate, writer, manifests)
	res, err := uc.Execute(context.Background(), DownloadRequest{
		Query: domain.ClimateQuery{StationIDs: []int{999}},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Path != "" || len(writer.writes) != 0 || len(manifests.saved) != 0 {
		t.Fatalf("empty result should not write or record, got %+v", res)
	}
}

func TestDownloadHourly_UsesHourlyCollection(t *testing.T) {
	climate := &fakeClimateSource{hourly: dailyRows("3033880", "LETHBRIDGE A", "2020-06-01 00:00:00")}
	manifests := &fakeManifests{}

	uc := NewDownloadHourly(climate, &fakeWriter{}, manifests)
	if _, err := uc.Execute(context.Background(), DownloadRequest{
		Query: domain.ClimateQuery{StationIDs: []int{2263}},
	}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if manifests.saved[0].Collection != "climate-hourly" {
		t.Fatalf("manifest collection = %q", manifests.saved[0].Collection)
	}
}

func TestDownloadAllDaily_FlushesCompletedStations(t *testing.T) {
	// Page 1 ends mid-station for climate ID B; only A may be flushed there.
	pageOne := dailyRows("AAAAAAA", "ALPHA", "2020-01-01 00:00:00", "2020-01-02 00:00:00")
	pageOne.Concat(dailyRows("BBBBBBB", "BRAVO", "2020-01-01 00:00:00"))
	pageTwo := dailyRows("BBBBBBB", "BRAVO", "2020-01-02 00:00:00")
	pageTwo.Concat(dailyRows("CCCCCCC", "CHARLIE", "2020-01-01 00:00:00"))

	climate := &fakeClimateSource{pages: []*domain.Table{pageOne, pageTwo}}
	writer := &fakeWriter{}
	manifests := &fakeManifests{}

	uc := NewDownloadAllDaily(climate, writer, manifests)
	res, err := uc.Execute(context.Background(), domain.ClimateQuery{
		Properties: []string{"LOCAL_DATE", "STATION_NAME", "CLIMATE_IDENTIFIER", "MEAN_TEMPERATURE"},
	}, "out", "")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if len(writer.writes) != 3 {
		t.Fatalf("writes = %d, want one per station", len(writer.writes))
	}
	// ALPHA flushed after page one, BRAVO only after page two completed it.
	if writer.writes[0].station != "ALPHA" {
		t.Fatalf("first write = %q, want ALPHA", writer.writes[0].station)
	}
	if writer.writes[1].station != "BRAVO" || writer.writes[1].rows != 2 {
		t.Fatalf("second write = %+v, want both BRAVO rows together", writer.writes[1])
	}
	if res.Rows != 5 {
		t.Fatalf("rows = %d, want 5", res.Rows)
	}
	if climate.gotQuery.SortBy != "+CLIMATE_IDENTIFIER,+LOCAL_DATE" {
		t.Fatalf("sortby = %q", climate.gotQuery.SortBy)
	}
	if len(manifests.saved) != 1 || len(manifests.saved[0].Files) != 3 {
		t.Fatalf("manifest = %+v", manifests.saved)
	}
}

func TestDownloadAllDaily_RequiresNamingProperties(t *testing.T) {
	uc := NewDownloadAllDaily(&fakeClimateSource{}, &fakeWriter{}, nil)
	_, err := uc.Execute(context.Background(), domain.ClimateQuery{
		Properties: []string{"LOCAL_DATE", "MEAN_TEMPERATURE"},
	}, "out", "")
	if !domain.IsKind(err, domain.KindInvalidInput) {
		t.Fatalf("err = %v, want invalid_input", err)
	}
}

func TestNearestStations_RanksAndLimits(t *testing.T) {
	src := &fakeStationSource{stations: []domain.Station{
		{Name: "FAR", Coord: domain.Coordinate{Lon: -113.0, Lat: 52.0}},
		{Name: "NEAR", Coord: domain.Coordinate{Lon: -112.8, Lat: 49.7}},
		{Name: "MID", Coord: domain.Coordinate{Lon: -113.5, Lat: 50.5}},
	}}

	uc := NewNearestStations(src)
	ref := domain.Coordinate{Lon: -112.8, Lat: 49.7}

	got, err := uc.Execute(context.Background(), domain.StationQuery{}, ref, 0, 2)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].Station.Name != "NEAR" || got[1].Station.Name != "MID" {
		t.Fatalf("order = %q, %q", got[0].Station.Name, got[1].Station.Name)
	}
	if got[0].Meters != 0 {
		t.Fatalf("distance to self = %v", got[0].Meters)
	}
}

func TestNearestStations_MaxDistanceCutoff(t *testing.T) {
	src := &fakeStationSource{stations: []domain.Station{
		{Name: "NEAR", Coord: domain.Coordinate{Lon: -112.8, Lat: 49.7}},
		{Name: "FAR", Coord: domain.Coordinate{Lon: -113.0, Lat: 52.0}},
	}}

	uc := NewNearestStations(src)
	ref := domain.Coordinate{Lon: -112.8, Lat: 49.7}

	got, err := uc.Execute(context.Background(), domain.StationQuery{}, ref, 1000, 0)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(got) != 1 || got[0].Station.Name != "NEAR" {
		t.Fatalf("results = %+v, want only the near station", got)
	}
}

func TestCountyStations_SurveysAndFilters(t *testing.T) {
	// Square county around Lethbridge.
	county := domain.County{
		Name: "Lethbridge",
		Geometry: domain.MultiPolygon{{domain.Ring{
			{Lon: -113.2, Lat: 49.4},
			{Lon: -112.4, Lat: 49.4},
			{Lon: -112.4, Lat: 50.0},
			{Lon: -113.2, Lat: 50.0},
		}}},
	}

	inGood := domain.Station{StationID: 1, ClimateID: "AAAAAAA", Name: "GOOD",
		Coord:     domain.Coordinate{Lon: -112.8, Lat: 49.7},
		FirstDate: time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	inPoor := domain.Station{StationID: 2, ClimateID: "BBBBBBB", Name: "POOR",
		Coord:     domain.Coordinate{Lon: -112.9, Lat: 49.8},
		FirstDate: inGood.FirstDate, LastDate: inGood.LastDate}
	outside := domain.Station{StationID: 3, ClimateID: "CCCCCCC", Name: "OUTSIDE",
		Coord:     domain.Coordinate{Lon: -110.0, Lat: 53.0},
		FirstDate: inGood.FirstDate, LastDate: inGood.LastDate}

	goodDaily := &domain.Table{
		Columns: []string{"LOCAL_DATE", "STATION_NAME", "CLIMATE_IDENTIFIER", "MEAN_TEMPERATURE"},
		Rows: [][]string{
			{"2020-06-01 00:00:00", "GOOD", "AAAAAAA", "14.0"},
			{"2020-06-02 00:00:00", "GOOD", "AAAAAAA", "15.1"},
		},
	}
	// One value over a five day span: 20% full coverage.
	poorDaily := &domain.Table{
		Columns: []string{"LOCAL_DATE", "STATION_NAME", "CLIMATE_IDENTIFIER", "MEAN_TEMPERATURE"},
		Rows: [][]string{
			{"2020-06-01 00:00:00", "POOR", "BBBBBBB", "14.0"},
			{"2020-06-05 00:00:00", "POOR", "BBBBBBB", ""},
		},
	}

	stations := &fakeStationSource{stations: []domain.Station{inGood, inPoor, outside}}
	counties := &fakeCountySource{counties: map[string]domain.County{"Lethbridge": county}}
	climate := &fakeClimateSource{dailyByStation: map[int]*domain.Table{1: goodDaily, 2: poorDaily}}
	writer := &fakeWriter{}

	uc := NewCountyStations(stations, counties, climate, writer, nil)
	reports, err := uc.Execute(context.Background(), CountyStationsRequest{
		CountyNames:        []string{"Lethbridge"},
		ObservationColumns: []string{"MEAN_TEMPERATURE"},
		MinFullCoverage:    0.5,
		OutputDir:          t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}

	rep := reports[0]
	if len(rep.Stations) != 2 {
		t.Fatalf("surveyed %d stations, want the 2 inside the county", len(rep.Stations))
	}

	byName := map[string]StationCoverage{}
	for _, sc := range rep.Stations {
		byName[sc.Station.Name] = sc
	}
	if !byName["GOOD"].Kept {
		t.Fatalf("good station dropped: %+v", byName["GOOD"])
	}
	if byName["POOR"].Kept {
		t.Fatalf("poor-coverage station kept: %+v", byName["POOR"])
	}
	if len(writer.writes) != 1 || writer.writes[0].station != "GOOD" {
		t.Fatalf("writes = %+v, want only the good station", writer.writes)
	}
}

func TestCountyStations_ActiveRangeFilter(t *testing.T) {
	young := domain.Station{StationID: 1, ClimateID: "AAAAAAA", Name: "YOUNG",
		Coord:     domain.Coordinate{Lon: -112.8, Lat: 49.7},
		FirstDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	got := filterActive([]domain.Station{young},
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if len(got) != 0 {
		t.Fatalf("station opened in 2000 should not pass a 1970 cutoff")
	}
}

func TestCoverage_ReportsCoverageAndGaps(t *testing.T) {
	climate := &fakeClimateSource{dailyByStation: map[int]*domain.Table{
		2263: {
			Columns: []string{"LOCAL_DATE", "MEAN_TEMPERATURE"},
			Rows: [][]string{
				{"2020-06-01 00:00:00", "14.0"},
				{"2020-06-02 00:00:00", ""},
				{"2020-06-05 00:00:00", "16.7"},
			},
		},
	}}

	uc := NewCoverage(climate)
	res, err := uc.Execute(context.Background(), CoverageRequest{
		Query:   domain.ClimateQuery{StationIDs: []int{2263}},
		Columns: []string{"MEAN_TEMPERATURE"},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Rows != 3 {
		t.Fatalf("rows = %d", res.Rows)
	}
	if res.MissingDays != 2 {
		t.Fatalf("missing days = %d, want 2", res.MissingDays)
	}
	if want := 2.0 / 5.0; res.Coverage["MEAN_TEMPERATURE_COVERAGE"] != want {
		t.Fatalf("coverage = %v, want %v", res.Coverage["MEAN_TEMPERATURE_COVERAGE"], want)
	}
	if want := 2.0 / 5.0; res.FullCoverage != want {
		t.Fatalf("full coverage = %v, want %v", res.FullCoverage, want)
	}
}

func TestCoverage_NoDataIsError(t *testing.T) {
	uc := NewCoverage(&fakeClimateSource{})
	_, err := uc.Execute(context.Background(), CoverageRequest{
		Query: domain.ClimateQuery{StationIDs: []int{999}},
	})
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestSummary_CountsHourlyAndEarlyStations(t *testing.T) {
	cutoff := time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC)
	stations := []domain.Station{
		{StationID: 1, Name: "OLD HOURLY", HasHourlyData: true,
			FirstDate: time.Date(1902, 5, 1, 0, 0, 0, 0, time.UTC)},
		{StationID: 2, Name: "OLD DAILY",
			FirstDate: time.Date(1910, 1, 1, 0, 0, 0, 0, time.UTC)},
		{StationID: 3, Name: "NEW HOURLY", HasHourlyData: true,
			FirstDate: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)},
		{StationID: 4, Name: "NO DATES", HasHourlyData: true},
	}

	uc := NewSummary(&fakeStationSource{stations: stations})
	res, err := uc.Execute(context.Background(), SummaryRequest{
		Province: domain.ProvinceAB,
		Cutoff:   cutoff,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("total = %d, want 4", res.Total)
	}
	if res.WithHourly != 3 {
		t.Fatalf("hourly = %d, want 3", res.WithHourly)
	}
	if res.EarlyTotal != 2 {
		t.Fatalf("early = %d, want 2", res.EarlyTotal)
	}
	if res.EarlyHourly != 1 || len(res.EarlyHourlyStations) != 1 {
		t.Fatalf("early hourly = %d (%d listed), want 1",
			res.EarlyHourly, len(res.EarlyHourlyStations))
	}
	if res.EarlyHourlyStations[0].Name != "OLD HOURLY" {
		t.Fatalf("listed %q, want OLD HOURLY", res.EarlyHourlyStations[0].Name)
	}
}

func TestSummary_ZeroCutoffSkipsEarlyBreakdown(t *testing.T) {
	uc := NewSummary(&fakeStationSource{stations: []domain.Station{
		{StationID: 1, FirstDate: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
	}})
	res, err := uc.Execute(context.Background(), SummaryRequest{Province: domain.ProvinceAB})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.EarlyTotal != 0 {
		t.Fatalf("early = %d, want 0 with zero cutoff", res.EarlyTotal)
	}
}
