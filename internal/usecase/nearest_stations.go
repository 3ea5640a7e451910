package usecase

import (
	"context"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/geo"
	"github.com/CChelak/dan-lab/internal/ports"
)

// NearestStations ranks catalogue stations by distance from a reference
// point.
type NearestStations struct {
	source ports.StationSource
}

func NewNearestStations(src ports.StationSource) *NearestStations {
	return &NearestStations{source: src}
}

// StationDistance pairs a station with its distance from the reference.
type StationDistance struct {
	Station domain.Station
	Meters  float64
}

// Execute fetches the stations matching q and returns them ordered nearest
// first. A positive maxMeters drops stations beyond that distance; limit
// caps the result when positive.
func (uc *NearestStations) Execute(ctx context.Context, q domain.StationQuery, ref domain.Coordinate, maxMeters float64, limit int) ([]StationDistance, error) {
	_, stations, err := uc.source.Stations(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, nil
	}

	points := make([]domain.Coordinate, len(stations))
	for i, st := range stations {
		points[i] = st.Coord
	}

	var out []StationDistance
	for _, r := range geo.RankByDistance(ref, points) {
		if maxMeters > 0 && r.Distance > maxMeters {
			break
		}
		out = append(out, StationDistance{Station: stations[r.Index], Meters: r.Distance})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
