package render

import (
	"fmt"
	"io"
	"math"

	"geo-legend/internal/colorscale"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const outOfRangeColor = "#cccccc"

// Bucket：一岁宽的取值分桶 [Lo, Lo+1)
type Bucket struct {
	Lo      float64
	Count   int
	InRange bool
}

// Buckets：按整数岁分桶；与筛选范围有交集的桶标记为 InRange
func Buckets(ds *dataset.Dataset, r filter.Range) []Bucket {
	if ds.Len() == 0 {
		return nil
	}
	lo := math.Floor(ds.Min)
	n := int(math.Floor(ds.Max)-lo) + 1
	out := make([]Bucket, n)
	for i := range out {
		b := lo + float64(i)
		out[i] = Bucket{Lo: b, InRange: r.Low < b+1 && r.High >= b}
	}
	for _, rg := range ds.Regions {
		out[int(math.Floor(rg.Value)-lo)].Count++
	}
	return out
}

// WriteDistribution：以 go-echarts 输出取值分布柱状图页面
func WriteDistribution(w io.Writer, ds *dataset.Dataset, r filter.Range, scale colorscale.Scale, title string) error {
	bs := Buckets(ds, r)
	labels := make([]string, 0, len(bs))
	data := make([]opts.BarData, 0, len(bs))
	for _, b := range bs {
		labels = append(labels, fmt.Sprintf("%.0f", b.Lo))
		c := outOfRangeColor
		if b.InRange {
			c = scale.Hex(b.Lo + 0.5)
		}
		data = append(data, opts.BarData{Value: b.Count, ItemStyle: &opts.ItemStyle{Color: c}})
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("range %.2f - %.2f, %d regions", r.Low, r.High, ds.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "median age", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "regions"}),
	)
	bar.SetXAxis(labels).AddSeries("regions", data)
	return bar.Render(w)
}
