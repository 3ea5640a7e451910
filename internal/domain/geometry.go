package domain

// Coordinate is a longitude/latitude pair in decimal degrees (WGS 84).
type Coordinate struct {
	Lon float64
	Lat float64
}

// Ring is a closed loop of coordinates. The first and last point need not be
// repeated; consumers treat the ring as implicitly closed.
type Ring []Coordinate

// Polygon is an exterior ring followed by zero or more interior rings (holes).
type Polygon []Ring

// MultiPolygon groups disjoint polygons belonging to one feature.
type MultiPolygon []Polygon

// Exterior returns the outer ring, or nil for a degenerate polygon.
func (p Polygon) Exterior() Ring {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// County is a municipal district or county boundary, as served by the Alberta
// geospatial boundary service.
type County struct {
	ObjectID int
	Name     string
	Geometry MultiPolygon
}
