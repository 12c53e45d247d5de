// 包 render：按当前筛选范围生成地图视图（图例、要素、GeoJSON、图片、页面）
package render

import (
	"fmt"
	"math"
	"time"

	"geo-legend/internal/colorscale"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/metrics"

	"github.com/twpayne/go-geom"
)

// Options：与数据无关的展示参数
type Options struct {
	Title string
	Step  float64
}

// Feature：一个可见区划及其填充色与提示文本
type Feature struct {
	ID       string
	Name     string
	Value    float64
	Fill     string
	Tooltip  string
	Geometry geom.T
}

// View：一次渲染的完整结果；Features 不参与 JSON 序列化，几何通过 GeoJSON 输出
type View struct {
	Title     string       `json:"title"`
	Range     filter.Range `json:"range"`
	Bounds    filter.Range `json:"bounds"`
	RangeText string       `json:"range_text"`
	Ticks     []string     `json:"ticks"`
	Gradient  string       `json:"gradient"`
	Step      float64      `json:"step"`
	Count     int          `json:"count"`
	Total     int          `json:"total"`
	Extent    [4]float64   `json:"extent"`
	Features  []Feature    `json:"-"`
}

// Render：筛选闭区间内的区划并按全局色阶着色；图例刻度同样取全局范围
func Render(ds *dataset.Dataset, r filter.Range, scale colorscale.Scale, o Options) View {
	t0 := time.Now()
	visible := filter.Apply(ds.Regions, r)
	v := View{
		Title:     o.Title,
		Range:     r,
		Bounds:    filter.Full(ds),
		RangeText: fmt.Sprintf("%.2f    %.2f", r.Low, r.High),
		Gradient:  scale.CSSGradient(),
		Step:      o.Step,
		Count:     len(visible),
		Total:     ds.Len(),
		Extent:    extent(ds.Regions),
		Features:  make([]Feature, 0, len(visible)),
	}
	for _, t := range scale.Ticks() {
		v.Ticks = append(v.Ticks, fmt.Sprintf("%.0f", t))
	}
	for _, rg := range visible {
		v.Features = append(v.Features, Feature{
			ID:       rg.ID,
			Name:     rg.Name,
			Value:    rg.Value,
			Fill:     scale.Hex(rg.Value),
			Tooltip:  fmt.Sprintf("%s: %.2f", rg.Name, rg.Value),
			Geometry: rg.Geometry,
		})
	}
	metrics.VisibleRegions.Observe(float64(v.Count))
	metrics.RenderDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	return v
}

// extent：全部区划（非仅可见区划）的包围盒 minLon, minLat, maxLon, maxLat，保证缩放范围不随筛选变化
func extent(regions []dataset.Region) [4]float64 {
	b := [4]float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, r := range regions {
		if r.Geometry == nil {
			continue
		}
		gb := r.Geometry.Bounds()
		if gb.Min(0) > gb.Max(0) {
			continue
		}
		b[0] = math.Min(b[0], gb.Min(0))
		b[1] = math.Min(b[1], gb.Min(1))
		b[2] = math.Max(b[2], gb.Max(0))
		b[3] = math.Max(b[3], gb.Max(1))
	}
	if math.IsInf(b[0], 1) {
		return [4]float64{}
	}
	return b
}
