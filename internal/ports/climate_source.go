package ports

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
)

// ClimateSource fetches daily and hourly climate records.
type ClimateSource interface {
	Daily(ctx context.Context, q domain.ClimateQuery) (*domain.Table, error)
	Hourly(ctx context.Context, q domain.ClimateQuery) (*domain.Table, error)

	// DailyPages streams daily records page by page so large pulls can be
	// flushed to disk before the whole result is in memory.
	DailyPages(ctx context.Context, q domain.ClimateQuery, onPage func(*domain.Table) error) error
}
