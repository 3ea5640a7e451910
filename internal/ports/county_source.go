package ports

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
)

// CountySource looks up municipal boundary polygons.
type CountySource interface {
	AllCounties(ctx context.Context) ([]domain.County, error)
	County(ctx context.Context, name string) (domain.County, error)
}
