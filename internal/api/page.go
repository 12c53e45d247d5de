package api

import (
	"bytes"
	"fmt"
	"net/http"

	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/logger"
	"geo-legend/internal/render"
)

// PageHandler：根路径返回地图页面；数据不可用时返回带分类提示的页面（503），不返回空白页
func (s *Server) PageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		var (
			buf  bytes.Buffer
			code = http.StatusOK
			data render.PageData
		)
		ds, scale, err := s.load(r.Context())
		if err != nil {
			kind := dataset.KindOf(err)
			code = http.StatusServiceUnavailable
			data = render.PageData{Title: s.cfg.Title, Notice: &render.Notice{Kind: string(kind), Message: dataset.Message(kind)}}
		} else {
			rng := s.session(w, r).Initialize(filter.Full(ds))
			v := render.Render(ds, rng, scale, s.renderOptions())
			data = render.PageFromView(v, s.cfg.APIBase, s.cfg.Tiles)
			s.record(r, "page")
		}
		if err := render.WritePage(&buf, data); err != nil {
			logger.L().Error("page_render_error", "err", err)
			http.Error(w, "page render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		w.WriteHeader(code)
		_, _ = w.Write(buf.Bytes())
	})
}

// ConfigJS：向前端暴露 API 基础路径，避免硬编码
func (s *Server) ConfigJS() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = fmt.Fprintf(w, "window.__API_BASE__=%q\n", s.cfg.APIBase)
		_, _ = fmt.Fprintf(w, "window.__MAP_TITLE__=%q\n", s.cfg.Title)
	})
}
