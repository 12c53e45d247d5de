// 程序入口：仅负责读取配置、初始化依赖并启动服务；路由注册在 internal/api
package main

import (
	"context"
	"net/http"
	"os"

	"geo-legend/internal/api"
	"geo-legend/internal/config"
	"geo-legend/internal/dataset"
	"geo-legend/internal/filter"
	"geo-legend/internal/logger"
	"geo-legend/internal/middleware"
	"geo-legend/internal/migrate"
	"geo-legend/internal/store"
	"geo-legend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	// 日志初始化
	l := logger.Setup()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_api_base", "base", cfg.APIBase)
	l.Debug("config_sources", "csv", cfg.CSVPath, "boundary", cfg.BoundaryURL, "prefix", cfg.RegionPrefix)

	var st *store.Store
	if cfg.PGEnable {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
			if err := migrate.EnsureSchema(db); err != nil {
				l.Error("schema_error", "err", err)
				os.Exit(1)
			}
			st = store.AttachDB(db)
		}
	} else {
		l.Info("db_disabled")
	}

	var fetcher dataset.Fetcher = dataset.NewHTTPFetcher(cfg.BoundaryURL, cfg.FetchTimeout, cfg.InsecureTLS)
	if cfg.InsecureTLS {
		l.Warn("boundary_tls_verify_disabled", "url", cfg.BoundaryURL)
	}
	if cfg.RedisEnable {
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		fetcher = &dataset.RedisFetcher{Next: fetcher, Client: rc, Key: dataset.BoundaryCacheKey(cfg.BoundaryURL), TTL: cfg.BoundaryCacheTTL}
	} else {
		l.Info("redis_disabled")
	}

	loader := &dataset.Loader{
		CSVPath: cfg.CSVPath,
		Columns: dataset.Columns{Key: cfg.KeyColumn, Value: cfg.ValueColumn, Name: cfg.NameColumn},
		Prefix:  cfg.RegionPrefix,
		Fetcher: fetcher,
	}
	cache := dataset.NewCache(loader)
	// 启动时预加载；失败结果同样缓存，可经 /reload 重试
	go func() { _, _ = cache.Get(context.Background()) }()
	srv := api.New(cfg, cache, filter.NewSessions(cfg.SessionCapacity, cfg.SessionTTL), st)

	mux := http.NewServeMux()
	srv.Mount(mux)

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler, cfg.RateLimitEnabled, cfg.RateLimitQPS)
	s := &http.Server{Addr: cfg.Addr, Handler: handler}
	if cfg.TLSEnable {
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "geo-legend.local"); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil && err != http.ErrServerClosed {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.Error("server_error", "err", err)
		os.Exit(1)
	}
}
