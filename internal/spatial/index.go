// 包 spatial：区划命中查询（R-Tree 包围盒候选 → 精确点入多边形）
package spatial

import (
	"math"

	"geo-legend/internal/cache"
	"geo-legend/internal/dataset"
	"geo-legend/internal/metrics"

	"github.com/dhconnelly/rtreego"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

const (
	minChildren   = 4
	maxChildren   = 16
	dimensions    = 2
	minSide       = 1e-9
	// 12 位 geohash 单元约 4cm，跨边界误差可忽略
	hashPrecision = 12
)

// item：以区划包围盒参与 R-Tree 索引，坐标顺序为 (lon, lat)
type item struct {
	idx  int
	rect *rtreego.Rect
}

func (it *item) Bounds() *rtreego.Rect { return it.rect }

// Index：只读区划索引；Locate 结果按 geohash 缓存
type Index struct {
	regions []dataset.Region
	tree    *rtreego.Rtree
	hits    *cache.LRU[string, int]
}

// NewIndex：为每个区划建立包围盒；无几何的区划被跳过
func NewIndex(regions []dataset.Region) *Index {
	ix := &Index{
		regions: regions,
		tree:    rtreego.NewTree(dimensions, minChildren, maxChildren),
		hits:    cache.NewLRU[string, int](4096, 0),
	}
	for i, r := range regions {
		if r.Geometry == nil {
			continue
		}
		b := r.Geometry.Bounds()
		if b == nil || b.Min(0) > b.Max(0) || b.Min(1) > b.Max(1) {
			continue
		}
		rect, err := rtreego.NewRect(
			rtreego.Point{b.Min(0), b.Min(1)},
			[]float64{math.Max(b.Max(0)-b.Min(0), minSide), math.Max(b.Max(1)-b.Min(1), minSide)},
		)
		if err != nil {
			continue
		}
		ix.tree.Insert(&item{idx: i, rect: rect})
	}
	return ix
}

func (ix *Index) Size() int { return ix.tree.Size() }

// Locate：返回包含 (lat, lon) 的区划；点在洞内不算命中
func (ix *Index) Locate(lat, lon float64) (dataset.Region, bool) {
	key := encodeGeohash(lat, lon, hashPrecision)
	if i, ok := ix.hits.Get(key); ok {
		if i < 0 {
			metrics.LocateTotal.WithLabelValues("miss").Inc()
			return dataset.Region{}, false
		}
		metrics.LocateTotal.WithLabelValues("hit").Inc()
		return ix.regions[i], true
	}
	found := -1
	probe, err := rtreego.NewRect(rtreego.Point{lon, lat}, []float64{minSide, minSide})
	if err == nil {
		pt := geom.Coord{lon, lat}
		for _, s := range ix.tree.SearchIntersect(probe) {
			it := s.(*item)
			if containsPoint(ix.regions[it.idx].Geometry, pt) {
				if found < 0 || it.idx < found {
					found = it.idx
				}
			}
		}
	}
	ix.hits.Set(key, found)
	if found >= 0 {
		metrics.LocateTotal.WithLabelValues("hit").Inc()
		return ix.regions[found], true
	}
	metrics.LocateTotal.WithLabelValues("miss").Inc()
	return dataset.Region{}, false
}

func containsPoint(g geom.T, pt geom.Coord) bool {
	switch p := g.(type) {
	case *geom.Polygon:
		return polygonContains(p, pt)
	case *geom.MultiPolygon:
		for i := 0; i < p.NumPolygons(); i++ {
			if polygonContains(p.Polygon(i), pt) {
				return true
			}
		}
	}
	return false
}

// 外环命中且不在任何洞内
func polygonContains(p *geom.Polygon, pt geom.Coord) bool {
	n := p.NumLinearRings()
	if n == 0 {
		return false
	}
	layout := p.Layout()
	if !xy.IsPointInRing(layout, pt, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < n; i++ {
		if xy.IsPointInRing(layout, pt, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}
