// 包 api：集中注册 HTTP 路由，把筛选控件绑定到渲染函数；主入口只负责挂载
package api

import (
	"context"
	"net/http"
	"sync"

	"geo-legend/internal/colorscale"
	"geo-legend/internal/config"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/metrics"
	"geo-legend/internal/render"
	"geo-legend/internal/spatial"
	"geo-legend/internal/store"
)

const sessionCookie = "geolegend_session"

// Server：请求处理所需的共享依赖；数据集经 Cache 只加载一次
type Server struct {
	cfg      config.Config
	cache    *dataset.Cache
	sessions *filter.Sessions
	st       *store.Store

	mu      sync.Mutex
	indexed *dataset.Dataset
	index   *spatial.Index
}

// New：st 可为 nil（统计关闭）
func New(cfg config.Config, cache *dataset.Cache, sessions *filter.Sessions, st *store.Store) *Server {
	return &Server{cfg: cfg, cache: cache, sessions: sessions, st: st}
}

func (s *Server) renderOptions() render.Options {
	return render.Options{Title: s.cfg.Title, Step: s.cfg.Step}
}

// load：取数据集与对应色阶；失败时由调用方按分类返回
// 约束：加载结果会被缓存，不随单个请求取消而失败
func (s *Server) load(ctx context.Context) (*dataset.Dataset, colorscale.Scale, error) {
	ds, err := s.cache.Get(context.WithoutCancel(ctx))
	if err != nil {
		return nil, colorscale.Scale{}, err
	}
	scale, err := colorscale.New(ds.Min, ds.Max, s.cfg.ColorLow, s.cfg.ColorHigh)
	if err != nil {
		return nil, colorscale.Scale{}, err
	}
	return ds, scale, nil
}

// session：按 cookie 取会话状态，缺失或非法时签发新会话
func (s *Server) session(w http.ResponseWriter, r *http.Request) *filter.State {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil && filter.ValidID(c.Value) {
		id = c.Value
	}
	if id == "" {
		id = filter.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		})
	}
	return s.sessions.Get(id)
}

// spatialIndex：数据集重新加载后重建索引
func (s *Server) spatialIndex(ds *dataset.Dataset) *spatial.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil || s.indexed != ds {
		s.index = spatial.NewIndex(ds.Regions)
		s.indexed = ds
	}
	return s.index
}

// Mount：把 API、指标、config.js 与页面挂载到 mux
func (s *Server) Mount(mux *http.ServeMux) {
	base := s.cfg.APIBase
	mux.Handle(base+"/", http.StripPrefix(base, BuildRoutes(s)))
	mux.Handle(base+"/metrics", metrics.Handler())
	mux.Handle("/config.js", s.ConfigJS())
	mux.Handle("/", s.PageHandler())
}
