// 包 testutil：测试夹具，三个相邻方形县与对应统计 CSV
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geo-legend/internal/dataset"

	"github.com/twpayne/go-geom"
)

// County：夹具中的一个县，方形边界 [Lon, Lon+1] x [Lat, Lat+1]
type County struct {
	ID    string
	Name  string
	Age   float64
	Lon   float64
	Lat   float64
	Label string
}

// Counties：A/B/C 三县，年龄 30.0 / 45.5 / 60.2
var Counties = []County{
	{ID: "12001", Name: "Alachua County", Age: 30.0, Lon: -83, Lat: 29, Label: "A"},
	{ID: "12003", Name: "Baker County", Age: 45.5, Lon: -82, Lat: 29, Label: "B"},
	{ID: "12005", Name: "Bay County", Age: 60.2, Lon: -81, Lat: 29, Label: "C"},
}

// Square：左下角为 (lon, lat) 的单位方形
func Square(lon, lat float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{lon, lat}, {lon + 1, lat}, {lon + 1, lat + 1}, {lon, lat + 1}, {lon, lat},
	}})
}

// Dataset：直接构造的夹具数据集
func Dataset() *dataset.Dataset {
	rs := make([]dataset.Region, 0, len(Counties))
	for _, c := range Counties {
		rs = append(rs, dataset.Region{ID: c.ID, Name: c.Name, Value: c.Age, Geometry: Square(c.Lon, c.Lat)})
	}
	return dataset.NewDataset(rs)
}

// CSV：与 Counties 对应的统计文件内容，附带一行无法匹配边界的记录
func CSV() string {
	var b strings.Builder
	b.WriteString("Entity DCID,Entity properties name,Variable observation value\n")
	for _, c := range Counties {
		fmt.Fprintf(&b, "geoId/%s,%s,%.1f\n", c.ID, c.Name, c.Age)
	}
	b.WriteString("geoId/12999,Nowhere County,50.0\n")
	return b.String()
}

// GeoJSON：与 Counties 对应的边界，附带一个非目标州的县
func GeoJSON() string {
	var feats []string
	for _, c := range Counties {
		feats = append(feats, feature(c.ID, strings.TrimSuffix(c.Name, " County"), c.Lon, c.Lat))
	}
	feats = append(feats, feature("01001", "Autauga", -87, 32))
	return `{"type":"FeatureCollection","features":[` + strings.Join(feats, ",") + `]}`
}

func feature(id, name string, lon, lat float64) string {
	return fmt.Sprintf(`{"type":"Feature","id":%q,"properties":{"NAME":%q,"LSAD":"County"},`+
		`"geometry":{"type":"Polygon","coordinates":[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]}}`,
		id, name, lon, lat, lon+1, lat, lon+1, lat+1, lon, lat+1, lon, lat)
}

// WriteCSV：写入临时目录并返回路径
func WriteCSV(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "median_age.csv")
	if err := os.WriteFile(p, []byte(CSV()), 0o644); err != nil {
		t.Fatalf("write csv fixture: %v", err)
	}
	return p
}
