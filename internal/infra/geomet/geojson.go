package geomet

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
)

// featureCollection is the slice of a GeoJSON FeatureCollection the client
// cares about.
type featureCollection struct {
	Features      []feature `json:"features"`
	NumberMatched int       `json:"numberMatched"`
}

type feature struct {
	ID         any            `json:"id"`
	Geometry   *featureGeom   `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type featureGeom struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// point decodes a Point geometry into a coordinate; ok is false for other
// geometry types or malformed coordinates.
func (g *featureGeom) point() (domain.Coordinate, bool) {
	if g == nil || g.Type != "Point" {
		return domain.Coordinate{}, false
	}
	var coords []float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil || len(coords) < 2 {
		return domain.Coordinate{}, false
	}
	return domain.Coordinate{Lon: coords[0], Lat: coords[1]}, true
}

// decodeFeatureCollection parses a GeoJSON items page.
func decodeFeatureCollection(body []byte) (featureCollection, error) {
	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return featureCollection{}, &domain.OpError{
			Op:   "geomet.decode_features",
			Kind: domain.KindRequest,
			Err:  err,
		}
	}
	return fc, nil
}

// tableFromFeatures flattens features into a table. The id and point
// geometry become "id", "LONGITUDE_DD" and "LATITUDE_DD" columns; property
// columns are the union of property keys, sorted for determinism. Callers
// reorder to the requested property order afterward.
func tableFromFeatures(features []feature) *domain.Table {
	keySet := map[string]struct{}{}
	for _, f := range features {
		for k := range f.Properties {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := append([]string{"id", "LONGITUDE_DD", "LATITUDE_DD"}, keys...)
	t := domain.NewTable(cols...)

	for _, f := range features {
		row := make([]string, len(cols))
		row[0] = stringifyValue(f.ID)
		if pt, ok := f.Geometry.point(); ok {
			row[1] = strconv.FormatFloat(pt.Lon, 'g', -1, 64)
			row[2] = strconv.FormatFloat(pt.Lat, 'g', -1, 64)
		}
		for i, k := range keys {
			row[3+i] = stringifyValue(f.Properties[k])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// stationFromFeature maps a climate-stations feature onto the typed Station.
// Properties absent from the request leave zero values behind.
func stationFromFeature(f feature) domain.Station {
	p := f.Properties

	s := domain.Station{
		StationID:       intProp(p, "STN_ID"),
		ClimateID:       strProp(p, "CLIMATE_IDENTIFIER"),
		Name:            strProp(p, "STATION_NAME"),
		Province:        domain.ProvinceCode(strProp(p, "PROV_STATE_TERR_CODE")),
		Elevation:       floatProp(p, "ELEVATION"),
		FirstDate:       timeProp(p, "FIRST_DATE"),
		LastDate:        timeProp(p, "LAST_DATE"),
		HasHourlyData:   flagProp(p, "HAS_HOURLY_DATA"),
		HasNormalsData:  flagProp(p, "HAS_NORMALS_DATA"),
		StationType:     strProp(p, "STATION_TYPE"),
		OperatorName:    strProp(p, "ENG_STN_OPERATOR_NAME"),
		OperatorAcronym: strProp(p, "ENG_STN_OPERATOR_ACRONYM"),
		Timezone:        strProp(p, "TIMEZONE"),
	}

	if pt, ok := f.Geometry.point(); ok {
		s.Coord = pt
	} else {
		s.Coord = domain.Coordinate{
			Lon: floatProp(p, "LONGITUDE_DECIMAL_DEGREES"),
			Lat: floatProp(p, "LATITUDE_DECIMAL_DEGREES"),
		}
	}

	return s
}

func strProp(p map[string]any, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func intProp(p map[string]any, key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func floatProp(p map[string]any, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// flagProp reads the API's "Y"/"N" style booleans.
func flagProp(p map[string]any, key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		return v == "Y" || v == "y" || v == "true"
	}
	return false
}

// stationDateLayouts covers the timestamp shapes seen in station properties.
var stationDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339,
}

func timeProp(p map[string]any, key string) time.Time {
	s, ok := p[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range stationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
