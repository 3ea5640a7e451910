package usecase

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/ports"
)

// FetchStations looks stations up in the upstream catalogue and caches the
// parsed records in the station store.
type FetchStations struct {
	source ports.StationSource
	store  ports.StationStore
}

// NewFetchStations constructs the usecase. The store may be nil, in which
// case results are not cached.
func NewFetchStations(src ports.StationSource, store ports.StationStore) *FetchStations {
	return &FetchStations{source: src, store: store}
}

func (uc *FetchStations) Execute(ctx context.Context, q domain.StationQuery) (*domain.Table, []domain.Station, error) {
	table, stations, err := uc.source.Stations(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	if uc.store != nil && len(stations) > 0 {
		if err := uc.store.SaveStations(ctx, stations); err != nil {
			return nil, nil, err
		}
	}
	return table, stations, nil
}
