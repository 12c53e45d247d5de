package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"geo-legend/internal/colorscale"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/logger"
	"geo-legend/internal/metrics"
	"geo-legend/internal/render"

	"gonum.org/v1/plot/vg"
)

const (
	defaultImageWidth  = 8 * vg.Inch
	defaultImageHeight = 6 * vg.Inch
	maxImageSide       = 4096
)

// BuildRoutes：构建 API 路由；独立 ServeMux 便于在主入口挂载到 API_BASE 前缀
func BuildRoutes(s *Server) *http.ServeMux {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /view", s.handleView)
	apiMux.HandleFunc("GET /regions", s.handleRegions)
	apiMux.HandleFunc("POST /range", s.handleRange)
	apiMux.HandleFunc("POST /reset", s.handleReset)
	apiMux.HandleFunc("GET /map.png", s.handleImage("png"))
	apiMux.HandleFunc("GET /map.svg", s.handleImage("svg"))
	apiMux.HandleFunc("GET /distribution", s.handleDistribution)
	apiMux.HandleFunc("GET /locate", s.handleLocate)
	apiMux.HandleFunc("GET /stats", s.handleStats)
	apiMux.HandleFunc("POST /reload", s.handleReload)
	return apiMux
}

// current：当前会话的数据集、色阶与范围；首次访问时范围初始化为全局范围
func (s *Server) current(w http.ResponseWriter, r *http.Request) (render.View, *dataset.Dataset, colorscale.Scale, bool) {
	ds, scale, err := s.load(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return render.View{}, nil, scale, false
	}
	rng := s.session(w, r).Initialize(filter.Full(ds))
	return render.Render(ds, rng, scale, s.renderOptions()), ds, scale, true
}

func (s *Server) record(r *http.Request, output string) {
	metrics.RendersTotal.WithLabelValues(output).Inc()
	_ = s.st.IncrStats(r.Context(), output)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, _, _, ok := s.current(w, r)
	if !ok {
		return
	}
	s.record(r, "view")
	writeJSON(w, http.StatusOK, v)
}

// handleRegions：low/high 查询参数只覆盖本次输出，不修改会话范围
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	ds, scale, err := s.load(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	rng := s.session(w, r).Initialize(filter.Full(ds))
	q := r.URL.Query()
	if q.Has("low") || q.Has("high") {
		o, err := parseBounds(q.Get("low"), q.Get("high"))
		if err == nil {
			err = o.Validate()
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
			return
		}
		rng = o
	}
	b, err := render.Render(ds, rng, scale, s.renderOptions()).GeoJSON()
	if err != nil {
		logger.L().Error("geojson_encode_error", "err", err)
		writeError(w, http.StatusInternalServerError, "encode", err.Error())
		return
	}
	s.record(r, "regions")
	w.Header().Set("content-type", "application/geo+json")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(b)
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	ds, scale, err := s.load(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	st := s.session(w, r)
	st.Initialize(filter.Full(ds))
	rng, err := parseRangeBody(r)
	if err == nil {
		err = st.Update(rng)
	}
	if err != nil {
		metrics.RangeRejectedTotal.Inc()
		logger.L().Debug("range_rejected", "err", err)
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		return
	}
	metrics.RangeUpdatesTotal.WithLabelValues("update").Inc()
	_ = s.st.IncrStats(r.Context(), "range")
	writeJSON(w, http.StatusOK, render.Render(ds, rng, scale, s.renderOptions()))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ds, scale, err := s.load(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	rng := s.session(w, r).Reset(filter.Full(ds))
	metrics.RangeUpdatesTotal.WithLabelValues("reset").Inc()
	_ = s.st.IncrStats(r.Context(), "reset")
	writeJSON(w, http.StatusOK, render.Render(ds, rng, scale, s.renderOptions()))
}

// handleImage：先写入缓冲区，绘图失败时仍可返回 500
func (s *Server) handleImage(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, _, _, ok := s.current(w, r)
		if !ok {
			return
		}
		width, height := imageSize(r)
		var buf bytes.Buffer
		if err := render.WriteImage(&buf, v, format, width, height); err != nil {
			logger.L().Error("image_render_error", "format", format, "err", err)
			writeError(w, http.StatusInternalServerError, "render", err.Error())
			return
		}
		s.record(r, format)
		w.Header().Set("content-type", render.ImageFormats[format])
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}

// imageSize：width/height 以点（1/72 英寸）为单位，非法值回退默认尺寸
func imageSize(r *http.Request) (vg.Length, vg.Length) {
	side := func(key string, def vg.Length) vg.Length {
		n, err := strconv.Atoi(r.URL.Query().Get(key))
		if err != nil || n <= 0 || n > maxImageSide {
			return def
		}
		return vg.Points(float64(n))
	}
	return side("width", defaultImageWidth), side("height", defaultImageHeight)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	v, ds, scale, ok := s.current(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.WriteDistribution(&buf, ds, v.Range, scale, s.cfg.Title+" - distribution"); err != nil {
		logger.L().Error("distribution_render_error", "err", err)
		writeError(w, http.StatusInternalServerError, "render", err.Error())
		return
	}
	s.record(r, "distribution")
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseLatLon(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_point", err.Error())
		return
	}
	ds, _, err := s.load(r.Context())
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	rng := s.session(w, r).Initialize(filter.Full(ds))
	rg, found := s.spatialIndex(ds).Locate(lat, lon)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "no region contains this point")
		return
	}
	writeJSON(w, http.StatusOK, locateResult{ID: rg.ID, Name: rg.Name, MedianAge: rg.Value, InRange: rng.Contains(rg.Value)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	t, err := s.st.GetTotals(r.Context())
	if err != nil {
		logger.L().Error("stats_read_error", "err", err)
	}
	writeJSON(w, http.StatusOK, t)
}

// handleReload：x-admin-token 校验通过后重新加载数据集；未配置令牌时拒绝
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	t := r.Header.Get("x-admin-token")
	if t == "" || t != s.cfg.AdminToken {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	ds, err := s.cache.Reload(context.WithoutCancel(r.Context()))
	if err != nil {
		writeUnavailable(w, err)
		return
	}
	logger.L().Info("dataset_reloaded", "regions", ds.Len())
	writeJSON(w, http.StatusOK, map[string]any{"regions": ds.Len(), "min": ds.Min, "max": ds.Max})
}
