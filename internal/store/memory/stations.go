// Package memory provides an in-process station cache used when no
// database backend is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/CChelak/dan-lab/internal/domain"
)

// StationStore keeps station metadata in memory, keyed by climate ID.
type StationStore struct {
	mu       sync.RWMutex
	stations map[string]domain.Station
}

// NewStationStore creates an empty in-memory station cache.
func NewStationStore() *StationStore {
	return &StationStore{
		stations: make(map[string]domain.Station),
	}
}

func (s *StationStore) SaveStations(ctx context.Context, stations []domain.Station) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stations {
		if st.ClimateID == "" {
			return &domain.OpError{
				Op:   "memory.save_stations",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("station %q has no climate identifier", st.Name),
			}
		}
		s.stations[st.ClimateID] = st
	}
	return nil
}

func (s *StationStore) ListStations(ctx context.Context) ([]domain.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Station, 0, len(s.stations))
	for _, st := range s.stations {
		list = append(list, st)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ClimateID < list[j].ClimateID })
	return list, nil
}

func (s *StationStore) StationByClimateID(ctx context.Context, climateID string) (domain.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stations[climateID]
	if !ok {
		return domain.Station{}, &domain.OpError{
			Op:   "memory.station_by_climate_id",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no station with climate id %q: %w", climateID, domain.ErrNotFound),
		}
	}
	return st, nil
}

func (s *StationStore) StationsByProvince(ctx context.Context, prov domain.ProvinceCode) ([]domain.Station, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []domain.Station
	for _, st := range s.stations {
		if st.Province == prov {
			list = append(list, st)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ClimateID < list[j].ClimateID })
	return list, nil
}
