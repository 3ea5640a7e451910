package ports

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
)

// StationSource looks up climate stations from an upstream catalogue.
type StationSource interface {
	Stations(ctx context.Context, q domain.StationQuery) (*domain.Table, []domain.Station, error)
	Queryables(ctx context.Context, collection string) ([]string, error)
}
