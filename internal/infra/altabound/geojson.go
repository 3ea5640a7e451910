package altabound

import (
	"encoding/json"

	"github.com/CChelak/dan-lab/internal/domain"
)

type countyCollection struct {
	Features []countyFeature `json:"features"`
}

type countyFeature struct {
	Properties map[string]any `json:"properties"`
	Geometry   struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

func decodeCounties(body []byte) ([]domain.County, error) {
	var fc countyCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, &domain.OpError{
			Op:   "altabound.decode_counties",
			Kind: domain.KindRequest,
			Err:  err,
		}
	}

	out := make([]domain.County, 0, len(fc.Features))
	for _, f := range fc.Features {
		c := domain.County{}

		if v, ok := f.Properties[NameField].(string); ok {
			c.Name = v
		}
		if v, ok := f.Properties["OBJECTID"].(float64); ok {
			c.ObjectID = int(v)
		}

		switch f.Geometry.Type {
		case "Polygon":
			var rings [][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err == nil {
				c.Geometry = domain.MultiPolygon{toPolygon(rings)}
			}
		case "MultiPolygon":
			var polys [][][][]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err == nil {
				for _, rings := range polys {
					c.Geometry = append(c.Geometry, toPolygon(rings))
				}
			}
		}

		out = append(out, c)
	}
	return out, nil
}

func toPolygon(rings [][][]float64) domain.Polygon {
	p := make(domain.Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(domain.Ring, 0, len(ring))
		for _, pos := range ring {
			if len(pos) >= 2 {
				r = append(r, domain.Coordinate{Lon: pos[0], Lat: pos[1]})
			}
		}
		p = append(p, r)
	}
	return p
}
