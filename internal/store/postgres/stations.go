// Package postgres caches station metadata in Postgres via database/sql
// and the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/CChelak/dan-lab/internal/domain"
)

// StationStore persists stations in Postgres.
type StationStore struct {
	db *sql.DB
}

// Open connects with the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, &domain.OpError{
			Op:   "postgres.open",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("store DSN is required for the postgres backend"),
		}
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &domain.OpError{Op: "postgres.open", Kind: domain.KindExecution, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &domain.OpError{Op: "postgres.ping", Kind: domain.KindExecution, Err: err}
	}
	return db, nil
}

// NewStationStore constructs the store over an open connection pool.
func NewStationStore(db *sql.DB) *StationStore {
	return &StationStore{db: db}
}

// EnsureSchema creates the stations table if it does not exist.
func (s *StationStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS climate_stations (
            climate_id       TEXT PRIMARY KEY,
            station_id       INTEGER NOT NULL,
            name             TEXT NOT NULL,
            province         TEXT NOT NULL,
            longitude        DOUBLE PRECISION NOT NULL,
            latitude         DOUBLE PRECISION NOT NULL,
            elevation        DOUBLE PRECISION NOT NULL,
            first_date       TIMESTAMPTZ,
            last_date        TIMESTAMPTZ,
            has_hourly_data  BOOLEAN NOT NULL,
            has_normals_data BOOLEAN NOT NULL,
            station_type     TEXT,
            operator_name    TEXT,
            operator_acronym TEXT,
            timezone         TEXT
        )
    `
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return &domain.OpError{Op: "postgres.ensure_schema", Kind: domain.KindExecution, Err: err}
	}
	return nil
}

func (s *StationStore) SaveStations(ctx context.Context, stations []domain.Station) error {
	const upsert = `
        INSERT INTO climate_stations (
            climate_id, station_id, name, province, longitude, latitude,
            elevation, first_date, last_date, has_hourly_data, has_normals_data,
            station_type, operator_name, operator_acronym, timezone
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        ON CONFLICT (climate_id) DO UPDATE SET
            station_id       = EXCLUDED.station_id,
            name             = EXCLUDED.name,
            province         = EXCLUDED.province,
            longitude        = EXCLUDED.longitude,
            latitude         = EXCLUDED.latitude,
            elevation        = EXCLUDED.elevation,
            first_date       = EXCLUDED.first_date,
            last_date        = EXCLUDED.last_date,
            has_hourly_data  = EXCLUDED.has_hourly_data,
            has_normals_data = EXCLUDED.has_normals_data,
            station_type     = EXCLUDED.station_type,
            operator_name    = EXCLUDED.operator_name,
            operator_acronym = EXCLUDED.operator_acronym,
            timezone         = EXCLUDED.timezone
    `

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.OpError{Op: "postgres.save_stations", Kind: domain.KindExecution, Err: err}
	}
	defer tx.Rollback()

	for _, st := range stations {
		if st.ClimateID == "" {
			return &domain.OpError{
				Op:   "postgres.save_stations",
				Kind: domain.KindInvalidInput,
				Err:  fmt.Errorf("station %q has no climate identifier", st.Name),
			}
		}
		if _, err := tx.ExecContext(ctx, upsert,
			st.ClimateID,
			st.StationID,
			st.Name,
			string(st.Province),
			st.Coord.Lon,
			st.Coord.Lat,
			st.Elevation,
			nullTime(st.FirstDate),
			nullTime(st.LastDate),
			st.HasHourlyData,
			st.HasNormalsData,
			st.StationType,
			st.OperatorName,
			st.OperatorAcronym,
			st.Timezone,
		); err != nil {
			return &domain.OpError{Op: "postgres.save_stations", Kind: domain.KindExecution, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.OpError{Op: "postgres.save_stations", Kind: domain.KindExecution, Err: err}
	}
	return nil
}

const selectColumns = `
        SELECT climate_id, station_id, name, province, longitude, latitude,
               elevation, first_date, last_date, has_hourly_data,
               has_normals_data, station_type, operator_name,
               operator_acronym, timezone
          FROM climate_stations
`

func (s *StationStore) ListStations(ctx context.Context) ([]domain.Station, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY climate_id")
	if err != nil {
		return nil, &domain.OpError{Op: "postgres.list_stations", Kind: domain.KindExecution, Err: err}
	}
	defer rows.Close()
	return scanStations(rows)
}

func (s *StationStore) StationByClimateID(ctx context.Context, climateID string) (domain.Station, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE climate_id = $1", climateID)
	if err != nil {
		return domain.Station{}, &domain.OpError{Op: "postgres.station_by_climate_id", Kind: domain.KindExecution, Err: err}
	}
	defer rows.Close()

	found, err := scanStations(rows)
	if err != nil {
		return domain.Station{}, err
	}
	if len(found) == 0 {
		return domain.Station{}, &domain.OpError{
			Op:   "postgres.station_by_climate_id",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no station with climate id %q: %w", climateID, domain.ErrNotFound),
		}
	}
	return found[0], nil
}

func (s *StationStore) StationsByProvince(ctx context.Context, prov domain.ProvinceCode) ([]domain.Station, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE province = $1 ORDER BY climate_id", string(prov))
	if err != nil {
		return nil, &domain.OpError{Op: "postgres.stations_by_province", Kind: domain.KindExecution, Err: err}
	}
	defer rows.Close()
	return scanStations(rows)
}

func scanStations(rows *sql.Rows) ([]domain.Station, error) {
	var out []domain.Station
	for rows.Next() {
		var (
			st        domain.Station
			province  string
			first     sql.NullTime
			last      sql.NullTime
			stType    sql.NullString
			opName    sql.NullString
			opAcronym sql.NullString
			tz        sql.NullString
		)
		if err := rows.Scan(
			&st.ClimateID,
			&st.StationID,
			&st.Name,
			&province,
			&st.Coord.Lon,
			&st.Coord.Lat,
			&st.Elevation,
			&first,
			&last,
			&st.HasHourlyData,
			&st.HasNormalsData,
			&stType,
			&opName,
			&opAcronym,
			&tz,
		); err != nil {
			return nil, &domain.OpError{Op: "postgres.scan_station", Kind: domain.KindExecution, Err: err}
		}
		st.Province = domain.ProvinceCode(province)
		if first.Valid {
			st.FirstDate = first.Time
		}
		if last.Valid {
			st.LastDate = last.Time
		}
		st.StationType = stType.String
		st.OperatorName = opName.String
		st.OperatorAcronym = opAcronym.String
		st.Timezone = tz.String
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.OpError{Op: "postgres.scan_station", Kind: domain.KindExecution, Err: err}
	}
	return out, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
