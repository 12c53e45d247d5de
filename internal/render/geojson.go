package render

import (
	"encoding/json"

	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSON：可见区划的 FeatureCollection，属性含 name/median_age/fill/tooltip
func (v View) GeoJSON() ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(v.Features))}
	for _, f := range v.Features {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       f.ID,
			Geometry: f.Geometry,
			Properties: map[string]interface{}{
				"name":       f.Name,
				"median_age": f.Value,
				"fill":       f.Fill,
				"tooltip":    f.Tooltip,
			},
		})
	}
	return json.Marshal(fc)
}
