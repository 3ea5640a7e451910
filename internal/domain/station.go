package domain

import "time"

// Station is one row of the climate-stations collection. Only the properties
// the tooling reaches for by name are typed here; everything else rides along
// in the Table a fetch returns.
type Station struct {
	StationID       int    // STN_ID, the numeric key daily/hourly queries filter on
	ClimateID       string // CLIMATE_IDENTIFIER, 7-character unique identifier
	Name            string // STATION_NAME
	Province        ProvinceCode
	Coord           Coordinate
	Elevation       float64
	FirstDate       time.Time
	LastDate        time.Time
	HasHourlyData   bool
	HasNormalsData  bool
	StationType     string
	OperatorName    string
	OperatorAcronym string
	Timezone        string
}

// HasRecordsSince reports whether the station's record begins on or before
// the given cutoff. Stations with no first date report false.
func (s Station) HasRecordsSince(cutoff time.Time) bool {
	if s.FirstDate.IsZero() {
		return false
	}
	return !s.FirstDate.After(cutoff)
}

// StationQuery narrows a climate-stations fetch.
type StationQuery struct {
	// Properties is the subset of station properties to request. Nil means
	// everything the collection offers.
	Properties []string

	// Province filters by PROV_STATE_TERR_CODE when non-empty.
	Province ProvinceCode

	// BBox bounds the stations geographically when non-nil.
	BBox *BBox

	// Extra holds additional query parameters passed through to the API
	// untouched.
	Extra map[string]string
}

// ClimateQuery narrows a climate-daily or climate-hourly fetch.
type ClimateQuery struct {
	StationIDs []int
	Properties []string
	Interval   *DateInterval
	SortBy     string
	Extra      map[string]string
}
