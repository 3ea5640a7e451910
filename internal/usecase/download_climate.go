package usecase

import (
	"context"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/ports"
)

const (
	collectionDaily  = "climate-daily"
	collectionHourly = "climate-hourly"
)

// DownloadRequest describes one daily or hourly pull.
type DownloadRequest struct {
	Query domain.ClimateQuery

	// StationName names the output file. When empty it is taken from the
	// STATION_NAME column of the first row.
	StationName string

	OutputDir string
	Prefix    string
}

// DownloadResult reports what a download wrote.
type DownloadResult struct {
	ManifestID string
	Path       string
	Rows       int
}

// DownloadDaily pulls climate-daily records for a station set and writes
// them to a CSV, recording a manifest of the pull.
type DownloadDaily struct {
	climate   ports.ClimateSource
	writer    ports.DailyWriter
	manifests ports.ManifestStore
	now       func() time.Time
}

// NewDownloadDaily constructs the usecase. The manifest store may be nil.
func NewDownloadDaily(cs ports.ClimateSource, w ports.DailyWriter, ms ports.ManifestStore) *DownloadDaily {
	return &DownloadDaily{climate: cs, writer: w, manifests: ms, now: time.Now}
}

func (uc *DownloadDaily) Execute(ctx context.Context, req DownloadRequest) (DownloadResult, error) {
	return runDownload(ctx, collectionDaily, uc.climate.Daily, uc.writer, uc.manifests, uc.now, req)
}

// DownloadHourly is the hourly counterpart of DownloadDaily. The upstream
// collection accepts a single station per query.
type DownloadHourly struct {
	climate   ports.ClimateSource
	writer    ports.DailyWriter
	manifests ports.ManifestStore
	now       func() time.Time
}

// NewDownloadHourly constructs the usecase. The manifest store may be nil.
func NewDownloadHourly(cs ports.ClimateSource, w ports.DailyWriter, ms ports.ManifestStore) *DownloadHourly {
	return &DownloadHourly{climate: cs, writer: w, manifests: ms, now: time.Now}
}

func (uc *DownloadHourly) Execute(ctx context.Context, req DownloadRequest) (DownloadResult, error) {
	return runDownload(ctx, collectionHourly, uc.climate.Hourly, uc.writer, uc.manifests, uc.now, req)
}

type fetchFunc func(context.Context, domain.ClimateQuery) (*domain.Table, error)

func runDownload(ctx context.Context, collection string, fetch fetchFunc,
	writer ports.DailyWriter, manifests ports.ManifestStore,
	now func() time.Time, req DownloadRequest) (DownloadResult, error) {

	started := now()

	table, err := fetch(ctx, req.Query)
	if err != nil {
		return DownloadResult{}, err
	}
	if table.IsEmpty() {
		return DownloadResult{}, nil
	}

	name := req.StationName
	if name == "" && table.HasColumn("STATION_NAME") {
		name = table.Value(0, "STATION_NAME")
	}

	path, err := writer.WriteDaily(table, name, req.Prefix, req.OutputDir)
	if err != nil {
		return DownloadResult{}, err
	}

	res := DownloadResult{Path: path, Rows: table.Len()}
	if manifests != nil {
		id, err := manifests.SaveManifest(domain.DownloadManifest{
			Collection: collection,
			StationIDs: req.Query.StationIDs,
			ClimateIDs: table.UniqueValues("CLIMATE_IDENTIFIER"),
			Properties: req.Query.Properties,
			Interval:   req.Query.Interval.QueryValue(),
			StartedAt:  started,
			FinishedAt: now(),
			Files:      []string{path},
			RowCount:   table.Len(),
		})
		if err != nil {
			return DownloadResult{}, err
		}
		res.ManifestID = id
	}
	return res, nil
}
