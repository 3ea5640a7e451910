package ports

import "github.com/CChelak/dan-lab/internal/domain"

// DailyWriter persists a daily-data table, returning the path written.
type DailyWriter interface {
	WriteDaily(t *domain.Table, stationName, prefix, dir string) (string, error)
}
