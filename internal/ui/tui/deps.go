package tui

import (
	"log/slog"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/ports"
)

type Deps struct {
	Stations ports.StationSource
	Province domain.ProvinceCode

	Logger *slog.Logger
	Debug  bool
}
