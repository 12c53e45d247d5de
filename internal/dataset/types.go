// 包 dataset：加载县级统计 CSV 与边界 GeoJSON，并按区划代码内连接为只读数据集
package dataset

import (
	"sort"
	"time"

	"github.com/twpayne/go-geom"
)

// Observation：CSV 中的一行统计观测
type Observation struct {
	Key   string
	Name  string
	Value float64
}

// Boundary：边界数据中的一个区划
// 约束：Geometry 仅为 *geom.Polygon 或 *geom.MultiPolygon
type Boundary struct {
	ID       string
	Name     string
	Geometry geom.T
}

// Region：连接后的区划记录，加载后不可变
type Region struct {
	ID       string
	Name     string
	Value    float64
	Geometry geom.T
}

// Dataset：按 ID 排序的区划集合与全局取值范围
type Dataset struct {
	Regions  []Region
	Min      float64
	Max      float64
	LoadedAt time.Time
}

// NewDataset：排序并计算全局最小/最大值；空集合时 Min=Max=0
func NewDataset(regions []Region) *Dataset {
	rs := append([]Region(nil), regions...)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	ds := &Dataset{Regions: rs, LoadedAt: time.Now()}
	for i, r := range rs {
		if i == 0 || r.Value < ds.Min {
			ds.Min = r.Value
		}
		if i == 0 || r.Value > ds.Max {
			ds.Max = r.Value
		}
	}
	return ds
}

func (d *Dataset) Len() int { return len(d.Regions) }
