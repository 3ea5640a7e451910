package ports

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
)

// StationStore caches station metadata so repeated lookups avoid the
// upstream catalogue.
type StationStore interface {
	SaveStations(ctx context.Context, stations []domain.Station) error
	ListStations(ctx context.Context) ([]domain.Station, error)
	StationByClimateID(ctx context.Context, climateID string) (domain.Station, error)
	StationsByProvince(ctx context.Context, prov domain.ProvinceCode) ([]domain.Station, error)
}
