package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BBox is a geographic bounding box in longitude/latitude.
//
// The API expects the minimum corner first: "minLon,minLat,maxLon,maxLat".
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// BBoxFromPoints builds the bounding box covering all given coordinates.
// At least two points are required, mirroring the two-opposite-corners use.
func BBoxFromPoints(points []Coordinate) (BBox, error) {
	if len(points) < 2 {
		return BBox{}, &OpError{
			Op:   "bbox.from_points",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("two points needed to create bounding box, got %d", len(points)),
		}
	}

	b := BBox{
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
	}
	for _, p := range points[1:] {
		b.MinLon = min(b.MinLon, p.Lon)
		b.MaxLon = max(b.MaxLon, p.Lon)
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLat = max(b.MaxLat, p.Lat)
	}
	return b, nil
}

// Expand grows the box by the given amount of degrees on every side.
func (b BBox) Expand(degrees float64) BBox {
	return BBox{
		MinLon: b.MinLon - degrees,
		MinLat: b.MinLat - degrees,
		MaxLon: b.MaxLon + degrees,
		MaxLat: b.MaxLat + degrees,
	}
}

// Contains reports whether the coordinate lies within the box (inclusive).
func (b BBox) Contains(c Coordinate) bool {
	return c.Lon >= b.MinLon && c.Lon <= b.MaxLon &&
		c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// String renders the box in the form the API understands.
func (b BBox) String() string {
	parts := []string{
		strconv.FormatFloat(b.MinLon, 'g', -1, 64),
		strconv.FormatFloat(b.MinLat, 'g', -1, 64),
		strconv.FormatFloat(b.MaxLon, 'g', -1, 64),
		strconv.FormatFloat(b.MaxLat, 'g', -1, 64),
	}
	return strings.Join(parts, ",")
}

// NormalizeBBoxString reorders a user-supplied comma-separated lon/lat list so
// the minimum values come first, as the API requires. The numeric text of
// each component is preserved exactly as it came in, only the order changes.
//
// Coordinates are assumed to alternate longitude, latitude. Elevation-bearing
// boxes are not handled.
func NormalizeBBoxString(in string) (string, error) {
	coords := strings.Split(in, ",")
	if len(coords) < 4 {
		return "", &OpError{
			Op:   "bbox.normalize",
			Kind: KindInvalidInput,
			Err:  fmt.Errorf("could not find 4 values for lon/lat bbox: %q", in),
		}
	}

	var lonVals, latVals []float64
	for i, c := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return "", &OpError{
				Op:   "bbox.normalize",
				Kind: KindInvalidInput,
				Err:  fmt.Errorf("value %q does not appear to be a number for latitude or longitude", c),
			}
		}
		if i%2 == 0 {
			lonVals = append(lonVals, v)
		} else {
			latVals = append(latVals, v)
		}
	}

	minLon, maxLon := argMinMax(lonVals)
	minLat, maxLat := argMinMax(latVals)

	return coords[minLon*2] + "," + coords[minLat*2+1] + "," +
		coords[maxLon*2] + "," + coords[maxLat*2+1], nil
}

func argMinMax(vals []float64) (argMin, argMax int) {
	for i, v := range vals {
		if v < vals[argMin] {
			argMin = i
		}
		if v > vals[argMax] {
			argMax = i
		}
	}
	return argMin, argMax
}
