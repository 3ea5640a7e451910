package usecase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/geo"
	"github.com/CChelak/dan-lab/internal/integrity"
	"github.com/CChelak/dan-lab/internal/ports"
)

// CountyStationsRequest selects which counties to survey and which
// observation columns quality is judged on.
type CountyStationsRequest struct {
	CountyNames []string

	// ActiveSince and ActiveThrough bound the station records considered.
	// Stations opened after ActiveSince or closed before ActiveThrough are
	// skipped. Zero values disable the check.
	ActiveSince   time.Time
	ActiveThrough time.Time

	// ObservationColumns are the measurements coverage is computed over.
	ObservationColumns []string

	// MinFullCoverage drops stations whose share of fully populated days
	// falls below it. Zero keeps every station.
	MinFullCoverage float64

	// OutputDir receives one subdirectory per county with a CSV per
	// surviving station. Empty disables writing.
	OutputDir string
}

// StationCoverage is the per-station outcome of a county survey.
type StationCoverage struct {
	Station      domain.Station
	Coverage     map[string]float64
	FullCoverage float64
	Kept         bool
	File         string
}

// CountyReport collects the surveyed stations of one county.
type CountyReport struct {
	County   string
	Stations []StationCoverage
}

// CountyStations finds the stations inside each named county, downloads
// their daily records, measures data coverage, and writes the survivors to
// per-county CSVs with missing days filled in.
type CountyStations struct {
	stations ports.StationSource
	counties ports.CountySource
	climate  ports.ClimateSource
	writer   ports.DailyWriter
	log      *slog.Logger
}

func NewCountyStations(ss ports.StationSource, cs ports.CountySource, cl ports.ClimateSource, w ports.DailyWriter, log *slog.Logger) *CountyStations {
	if log == nil {
		log = slog.Default()
	}
	return &CountyStations{stations: ss, counties: cs, climate: cl, writer: w, log: log}
}

func (uc *CountyStations) Execute(ctx context.Context, req CountyStationsRequest) ([]CountyReport, error) {
	_, stations, err := uc.stations.Stations(ctx, domain.StationQuery{
		Province: domain.ProvinceAB,
		Properties: []string{
			"STATION_NAME", "CLIMATE_IDENTIFIER", "STN_ID",
			"FIRST_DATE", "LAST_DATE", "PROV_STATE_TERR_CODE",
			"STATION_TYPE", "HAS_HOURLY_DATA",
		},
	})
	if err != nil {
		return nil, err
	}

	stations = filterActive(stations, req.ActiveSince, req.ActiveThrough)

	points := make([]domain.Coordinate, len(stations))
	for i, st := range stations {
		points[i] = st.Coord
	}

	var reports []CountyReport
	for _, name := range req.CountyNames {
		county, err := uc.counties.County(ctx, name)
		if err != nil {
			return nil, err
		}

		report := CountyReport{County: county.Name}
		for _, idx := range geo.WithinDistanceOfRegion(county.Geometry, points, 0) {
			sc, err := uc.surveyStation(ctx, stations[idx], county.Name, req)
			if err != nil {
				return nil, err
			}
			report.Stations = append(report.Stations, sc)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (uc *CountyStations) surveyStation(ctx context.Context, st domain.Station, countyName string, req CountyStationsRequest) (StationCoverage, error) {
	props := append([]string{"LOCAL_DATE", "STATION_NAME", "CLIMATE_IDENTIFIER"}, req.ObservationColumns...)

	daily, err := uc.climate.Daily(ctx, domain.ClimateQuery{
		StationIDs: []int{st.StationID},
		Properties: props,
		SortBy:     "+LOCAL_DATE",
	})
	if err != nil {
		return StationCoverage{}, err
	}

	sc := StationCoverage{Station: st}
	if daily.IsEmpty() {
		uc.log.Info("county_stations.no_data",
			"station", st.Name, "climate_id", st.ClimateID)
		return sc, nil
	}

	sc.Coverage, err = integrity.CoveragePercentages(daily, req.ObservationColumns, integrity.DefaultDateColumn)
	if err != nil {
		return StationCoverage{}, err
	}
	sc.FullCoverage, err = integrity.PercentRowsFullyCovered(daily, req.ObservationColumns, integrity.DefaultDateColumn)
	if err != nil {
		return StationCoverage{}, err
	}

	if sc.FullCoverage < req.MinFullCoverage {
		uc.log.Info("county_stations.insufficient_coverage",
			"station", st.Name, "climate_id", st.ClimateID, "full_coverage", sc.FullCoverage)
		return sc, nil
	}
	sc.Kept = true

	if req.OutputDir == "" {
		return sc, nil
	}

	filled, err := integrity.AddMissingDays(daily, integrity.DefaultDateColumn, map[string]integrity.FillPlan{
		"STATION_NAME":       integrity.Method("ffill"),
		"CLIMATE_IDENTIFIER": integrity.Method("ffill"),
	})
	if err != nil {
		return StationCoverage{}, err
	}

	countyDir := filepath.Join(req.OutputDir, countyName)
	if err := os.MkdirAll(countyDir, 0o755); err != nil {
		return StationCoverage{}, &domain.OpError{
			Op:   "usecase.county_stations",
			Kind: domain.KindExecution,
			Path: countyDir,
			Err:  err,
		}
	}

	sc.File, err = uc.writer.WriteDaily(filled, st.Name, "", countyDir)
	if err != nil {
		return StationCoverage{}, err
	}
	return sc, nil
}

// filterActive keeps stations whose record span covers the requested
// interval.
func filterActive(stations []domain.Station, since, through time.Time) []domain.Station {
	if since.IsZero() && through.IsZero() {
		return stations
	}
	var out []domain.Station
	for _, st := range stations {
		if !since.IsZero() && (st.FirstDate.IsZero() || st.FirstDate.After(since)) {
			continue
		}
		if !through.IsZero() && (st.LastDate.IsZero() || st.LastDate.Before(through)) {
			continue
		}
		out = append(out, st)
	}
	return out
}
