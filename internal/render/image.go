package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/twpayne/go-geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ImageFormats：WriteImage 支持的输出格式
var ImageFormats = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
}

// WriteImage：以 gonum/plot 绘制静态分级设色图；坐标轴隐藏，范围固定为全部区划的包围盒
func WriteImage(w io.Writer, v View, format string, width, height vg.Length) error {
	if _, ok := ImageFormats[format]; !ok {
		return fmt.Errorf("unsupported image format %q", format)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%.2f - %.2f)", v.Title, v.Range.Low, v.Range.High)
	p.HideAxes()
	if v.Extent != ([4]float64{}) {
		p.X.Min, p.Y.Min, p.X.Max, p.Y.Max = v.Extent[0], v.Extent[1], v.Extent[2], v.Extent[3]
	}
	for _, f := range v.Features {
		fill, err := colorful.Hex(f.Fill)
		if err != nil {
			return fmt.Errorf("feature %s fill: %w", f.ID, err)
		}
		for _, rings := range polygonRings(f.Geometry) {
			poly, err := plotter.NewPolygon(rings...)
			if err != nil {
				return fmt.Errorf("feature %s polygon: %w", f.ID, err)
			}
			poly.Color = fill
			poly.LineStyle.Color = color.White
			poly.LineStyle.Width = vg.Points(0.4)
			p.Add(poly)
		}
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// polygonRings：把 Polygon/MultiPolygon 拆成 gonum 多边形（外环 + 洞）
func polygonRings(g geom.T) [][]plotter.XYer {
	var polys []*geom.Polygon
	switch t := g.(type) {
	case *geom.Polygon:
		polys = append(polys, t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
	}
	out := make([][]plotter.XYer, 0, len(polys))
	for _, p := range polys {
		var rings []plotter.XYer
		for i := 0; i < p.NumLinearRings(); i++ {
			coords := p.LinearRing(i).Coords()
			xys := make(plotter.XYs, len(coords))
			for j, c := range coords {
				xys[j].X, xys[j].Y = c.X(), c.Y()
			}
			rings = append(rings, xys)
		}
		if len(rings) > 0 {
			out = append(out, rings)
		}
	}
	return out
}
