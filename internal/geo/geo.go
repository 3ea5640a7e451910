// Package geo holds the geospatial selection helpers: great-circle
// distances, point-in-polygon tests, and the proximity selections the
// station-finding workflows are built on.
//
// Inputs are expected in longitude and latitude (WGS 84). Distances are in
// meters.
package geo

import (
	"math"
	"sort"

	"github.com/CChelak/dan-lab/internal/domain"
)

// earthRadiusMeters is the mean Earth radius used for great-circle math.
const earthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance between two coordinates in
// meters.
func Haversine(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(s))
}

// Centroid computes the area-weighted centroid of the polygon's exterior
// ring. Degenerate rings fall back to the vertex average.
func Centroid(p domain.Polygon) domain.Coordinate {
	ring := p.Exterior()
	if len(ring) == 0 {
		return domain.Coordinate{}
	}
	if len(ring) < 3 {
		return vertexAverage(ring)
	}

	var area, cx, cy float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := ring[i].Lon*ring[j].Lat - ring[j].Lon*ring[i].Lat
		area += cross
		cx += (ring[i].Lon + ring[j].Lon) * cross
		cy += (ring[i].Lat + ring[j].Lat) * cross
	}
	area /= 2
	if area == 0 {
		return vertexAverage(ring)
	}
	return domain.Coordinate{Lon: cx / (6 * area), Lat: cy / (6 * area)}
}

func vertexAverage(ring domain.Ring) domain.Coordinate {
	var lon, lat float64
	for _, c := range ring {
		lon += c.Lon
		lat += c.Lat
	}
	n := float64(len(ring))
	return domain.Coordinate{Lon: lon / n, Lat: lat / n}
}

// PointInPolygon reports whether the coordinate lies inside the polygon,
// holes respected, using a ray cast along increasing longitude.
func PointInPolygon(c domain.Coordinate, p domain.Polygon) bool {
	if len(p) == 0 {
		return false
	}
	if !pointInRing(c, p[0]) {
		return false
	}
	for _, hole := range p[1:] {
		if pointInRing(c, hole) {
			return false
		}
	}
	return true
}

// PointInMultiPolygon reports whether the coordinate lies inside any member
// polygon.
func PointInMultiPolygon(c domain.Coordinate, mp domain.MultiPolygon) bool {
	for _, p := range mp {
		if PointInPolygon(c, p) {
			return true
		}
	}
	return false
}

func pointInRing(c domain.Coordinate, ring domain.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, yj := ring[i].Lat, ring[j].Lat
		xi, xj := ring[i].Lon, ring[j].Lon
		if (yi > c.Lat) != (yj > c.Lat) &&
			c.Lon < (xj-xi)*(c.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// distanceToSegment approximates the distance in meters from a point to a
// great-circle segment by projecting locally onto a plane. Adequate for the
// few-kilometer buffers these selections use.
func distanceToSegment(c, a, b domain.Coordinate) float64 {
	refLat := (a.Lat + b.Lat + c.Lat) / 3 * math.Pi / 180
	mPerLon := earthRadiusMeters * math.Pi / 180 * math.Cos(refLat)
	mPerLat := earthRadiusMeters * math.Pi / 180

	ax, ay := a.Lon*mPerLon, a.Lat*mPerLat
	bx, by := b.Lon*mPerLon, b.Lat*mPerLat
	cx, cy := c.Lon*mPerLon, c.Lat*mPerLat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(cx-ax, cy-ay)
	}

	t := ((cx-ax)*dx + (cy-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	px, py := ax+t*dx, ay+t*dy
	return math.Hypot(cx-px, cy-py)
}

// distanceToPolygon returns 0 when the point is inside, otherwise the
// distance to the nearest boundary segment.
func distanceToPolygon(c domain.Coordinate, p domain.Polygon) float64 {
	if PointInPolygon(c, p) {
		return 0
	}
	best := math.Inf(1)
	for _, ring := range p {
		n := len(ring)
		for i := 0; i < n; i++ {
			d := distanceToSegment(c, ring[i], ring[(i+1)%n])
			if d < best {
				best = d
			}
		}
	}
	return best
}

// WithinDistanceOfPoint returns the indices of points within the given
// distance of the reference coordinate.
func WithinDistanceOfPoint(ref domain.Coordinate, points []domain.Coordinate, meters float64) []int {
	var out []int
	for i, p := range points {
		if Haversine(ref, p) <= meters {
			out = append(out, i)
		}
	}
	return out
}

// WithinDistanceOfCentroid selects points within the given distance of the
// polygon's centroid.
func WithinDistanceOfCentroid(region domain.Polygon, points []domain.Coordinate, meters float64) []int {
	return WithinDistanceOfPoint(Centroid(region), points, meters)
}

// WithinDistanceOfRegion returns the indices of points inside the region or
// within the given distance of its boundary.
func WithinDistanceOfRegion(region domain.MultiPolygon, points []domain.Coordinate, meters float64) []int {
	var out []int
	for i, p := range points {
		for _, poly := range region {
			if distanceToPolygon(p, poly) <= meters {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// Ranked pairs a point index with its distance from a reference.
type Ranked struct {
	Index    int
	Distance float64
}

// RankByDistance orders all points by their distance from the reference,
// closest first.
func RankByDistance(ref domain.Coordinate, points []domain.Coordinate) []Ranked {
	out := make([]Ranked, len(points))
	for i, p := range points {
		out[i] = Ranked{Index: i, Distance: Haversine(ref, p)}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
