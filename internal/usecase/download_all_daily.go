package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/ports"
)

// streamingSort keeps every climate ID contiguous in the page stream, so a
// station is known to be complete as soon as the next ID shows up.
const streamingSort = "+CLIMATE_IDENTIFIER,+LOCAL_DATE"

// DownloadAllDaily pulls the full daily archive matching a query, flushing
// each station to its own CSV as soon as its rows are complete rather than
// holding the whole result in memory.
type DownloadAllDaily struct {
	climate   ports.ClimateSource
	writer    ports.DailyWriter
	manifests ports.ManifestStore
	now       func() time.Time
}

// NewDownloadAllDaily constructs the usecase. The manifest store may be nil.
func NewDownloadAllDaily(cs ports.ClimateSource, w ports.DailyWriter, ms ports.ManifestStore) *DownloadAllDaily {
	return &DownloadAllDaily{climate: cs, writer: w, manifests: ms, now: time.Now}
}

// AllDailyResult reports what a full-archive download wrote.
type AllDailyResult struct {
	ManifestID string
	Files      []string
	Rows       int
}

func (uc *DownloadAllDaily) Execute(ctx context.Context, q domain.ClimateQuery, outDir, prefix string) (AllDailyResult, error) {
	for _, required := range []string{"CLIMATE_IDENTIFIER", "STATION_NAME", "LOCAL_DATE"} {
		if !contains(q.Properties, required) {
			return AllDailyResult{}, &domain.OpError{
				Op:   "usecase.download_all_daily",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("property %s is needed to name the CSV files", required),
			}
		}
	}
	q.SortBy = streamingSort

	started := uc.now()

	var (
		pending = &domain.Table{}
		res     AllDailyResult
	)
	err := uc.climate.DailyPages(ctx, q, func(page *domain.Table) error {
		pending.Concat(page)
		res.Rows += page.Len()
		return uc.flushCompleted(pending, outDir, prefix, &res.Files)
	})
	if err != nil {
		return AllDailyResult{}, err
	}

	// Whatever is left belongs to the final stations of the stream.
	if err := uc.flushAll(pending, outDir, prefix, &res.Files); err != nil {
		return AllDailyResult{}, err
	}

	if uc.manifests != nil && len(res.Files) > 0 {
		id, err := uc.manifests.SaveManifest(domain.DownloadManifest{
			Collection: collectionDaily,
			StationIDs: q.StationIDs,
			Properties: q.Properties,
			Interval:   q.Interval.QueryValue(),
			StartedAt:  started,
			FinishedAt: uc.now(),
			Files:      res.Files,
			RowCount:   res.Rows,
		})
		if err != nil {
			return AllDailyResult{}, err
		}
		res.ManifestID = id
	}
	return res, nil
}

// flushCompleted writes out every climate ID except the last one seen,
// which may still be receiving rows from later pages.
func (uc *DownloadAllDaily) flushCompleted(pending *domain.Table, outDir, prefix string, files *[]string) error {
	ids := pending.UniqueValues("CLIMATE_IDENTIFIER")
	if len(ids) < 2 {
		return nil
	}
	return uc.flush(pending, ids[:len(ids)-1], outDir, prefix, files)
}

func (uc *DownloadAllDaily) flushAll(pending *domain.Table, outDir, prefix string, files *[]string) error {
	return uc.flush(pending, pending.UniqueValues("CLIMATE_IDENTIFIER"), outDir, prefix, files)
}

func (uc *DownloadAllDaily) flush(pending *domain.Table, ids []string, outDir, prefix string, files *[]string) error {
	ci := pending.ColumnIndex("CLIMATE_IDENTIFIER")
	if ci < 0 {
		return nil
	}
	for _, id := range ids {
		sub := pending.Filter(func(row []string) bool { return row[ci] == id })
		if sub.IsEmpty() {
			continue
		}
		path, err := uc.writer.WriteDaily(sub, sub.Value(0, "STATION_NAME"), prefix, outDir)
		if err != nil {
			return err
		}
		*files = append(*files, path)
		*pending = *pending.Filter(func(row []string) bool { return row[ci] != id })
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
