package dataset

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// ParseBoundaries：解析 GeoJSON FeatureCollection，保留 id 以 prefix 开头的面要素
// 约束：非 Polygon/MultiPolygon 或无几何的要素被忽略；名称取 properties.NAME
func ParseBoundaries(b []byte, prefix string) ([]Boundary, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBoundaryParse, err)
	}
	out := make([]Boundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if !strings.HasPrefix(f.ID, prefix) {
			continue
		}
		switch f.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			continue
		}
		out = append(out, Boundary{ID: f.ID, Name: propString(f.Properties, "NAME"), Geometry: f.Geometry})
	}
	return out, nil
}

func propString(p map[string]interface{}, k string) string {
	if v, ok := p[k].(string); ok {
		return v
	}
	return ""
}
