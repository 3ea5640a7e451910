package usecase

import (
	"context"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/ports"
)

// censusProperties are the station fields the census pulls. They cover the
// record span, hourly capability, and operator details.
var censusProperties = []string{
	"LATITUDE", "LONGITUDE", "ELEVATION",
	"FIRST_DATE", "LAST_DATE",
	"STATION_NAME", "STN_ID", "CLIMATE_IDENTIFIER",
	"ENG_PROV_NAME", "PROV_STATE_TERR_CODE",
	"ENG_STN_OPERATOR_ACRONYM", "ENG_STN_OPERATOR_NAME",
	"HAS_HOURLY_DATA", "HAS_NORMALS_DATA",
	"STATION_TYPE", "TIMEZONE",
}

// Summary answers the recurring questions about a province's station
// catalogue: how many stations there are, how many report hourly data, and
// which records reach back past a cutoff date.
type Summary struct {
	source ports.StationSource
}

func NewSummary(src ports.StationSource) *Summary {
	return &Summary{source: src}
}

// SummaryRequest scopes the census. A zero Cutoff skips the early-station
// breakdown.
type SummaryRequest struct {
	Province domain.ProvinceCode
	Cutoff   time.Time
}

// SummaryResult is the station census of one province.
type SummaryResult struct {
	Province domain.ProvinceCode
	Cutoff   time.Time

	Total               int
	WithHourly          int
	EarlyTotal          int
	EarlyHourly         int
	EarlyHourlyStations []domain.Station
}

func (uc *Summary) Execute(ctx context.Context, req SummaryRequest) (SummaryResult, error) {
	_, stations, err := uc.source.Stations(ctx, domain.StationQuery{
		Province:   req.Province,
		Properties: censusProperties,
	})
	if err != nil {
		return SummaryResult{}, err
	}

	res := SummaryResult{
		Province: req.Province,
		Cutoff:   req.Cutoff,
		Total:    len(stations),
	}
	for _, st := range stations {
		if st.HasHourlyData {
			res.WithHourly++
		}
		if req.Cutoff.IsZero() || st.FirstDate.IsZero() || !st.FirstDate.Before(req.Cutoff) {
			continue
		}
		res.EarlyTotal++
		if st.HasHourlyData {
			res.EarlyHourly++
			res.EarlyHourlyStations = append(res.EarlyHourlyStations, st)
		}
	}
	return res, nil
}
