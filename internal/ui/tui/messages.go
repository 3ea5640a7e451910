package tui

import "github.com/CChelak/dan-lab/internal/domain"

type stationsLoadedMsg struct {
	stations []domain.Station
	err      error
}
