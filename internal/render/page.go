package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Notice：数据不可用时展示的提示
type Notice struct {
	Kind    string
	Message string
}

// PageData：页面模板参数；Notice 非空时不渲染地图与图例
type PageData struct {
	Title    string
	APIBase  string
	Tiles    string
	Bounds   [2]float64
	Range    [2]float64
	Step     float64
	Gradient template.CSS
	Ticks    []string
	Notice   *Notice
}

// PageFromView：由视图构造页面参数
func PageFromView(v View, apiBase, tiles string) PageData {
	return PageData{
		Title:    v.Title,
		APIBase:  apiBase,
		Tiles:    tiles,
		Bounds:   [2]float64{v.Bounds.Low, v.Bounds.High},
		Range:    [2]float64{v.Range.Low, v.Range.High},
		Step:     v.Step,
		Gradient: template.CSS(v.Gradient),
		Ticks:    v.Ticks,
	}
}

func WritePage(w io.Writer, d PageData) error { return pageTmpl.Execute(w, d) }
