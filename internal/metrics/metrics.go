package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geolegend_renders_total",
		Help: "Total number of map renders by output kind",
	}, []string{"output"})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geolegend_render_duration_ms",
		Help:    "Render duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	VisibleRegions = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geolegend_visible_regions",
		Help:    "Number of regions left after filtering",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})
	RangeUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geolegend_range_updates_total",
		Help: "Filter range mutations by action",
	}, []string{"action"})
	RangeRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geolegend_range_rejected_total",
		Help: "Filter range updates rejected as invalid",
	})
	LoadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geolegend_load_failures_total",
		Help: "Dataset load failures by kind",
	}, []string{"kind"})
	LoadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geolegend_loads_total",
		Help: "Dataset load attempts",
	})
	BoundaryFetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geolegend_boundary_fetch_duration_ms",
		Help:    "Remote boundary fetch duration in milliseconds",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	BoundaryCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geolegend_boundary_cache_hits_total",
		Help: "Boundary document served from redis",
	})
	BoundaryCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geolegend_boundary_cache_misses_total",
		Help: "Boundary document not found in redis",
	})
	LocateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geolegend_locate_total",
		Help: "Point lookups by result",
	}, []string{"result"})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geolegend_active_sessions",
		Help: "Filter sessions currently held in memory",
	})
)

func init() {
	prometheus.MustRegister(RendersTotal)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(VisibleRegions)
	prometheus.MustRegister(RangeUpdatesTotal)
	prometheus.MustRegister(RangeRejectedTotal)
	prometheus.MustRegister(LoadFailuresTotal)
	prometheus.MustRegister(LoadsTotal)
	prometheus.MustRegister(BoundaryFetchDurationMs)
	prometheus.MustRegister(BoundaryCacheHitsTotal)
	prometheus.MustRegister(BoundaryCacheMissesTotal)
	prometheus.MustRegister(LocateTotal)
	prometheus.MustRegister(ActiveSessions)
}

// 文档注释：返回 Prometheus 指标处理器，在 API_BASE/metrics 挂载
func Handler() http.Handler { return promhttp.Handler() }
