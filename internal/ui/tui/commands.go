package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CChelak/dan-lab/internal/domain"
)

const loadTimeout = 2 * time.Minute

func cmdLoadStations(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Stations == nil {
			return stationsLoadedMsg{err: errors.New("station source is nil")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		q := domain.StationQuery{
			Province: deps.Province,
			Properties: []string{
				"STATION_NAME", "CLIMATE_IDENTIFIER", "STN_ID",
				"FIRST_DATE", "LAST_DATE", "PROV_STATE_TERR_CODE",
				"STATION_TYPE", "HAS_HOURLY_DATA", "ELEVATION", "TIMEZONE",
			},
		}

		_, stations, err := deps.Stations.Stations(ctx, q)
		if err != nil {
			return stationsLoadedMsg{err: err}
		}
		return stationsLoadedMsg{stations: stations}
	}
}
