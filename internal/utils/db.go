// 包 utils：数据库、Redis 与证书等外部资源的打开工具，统一环境变量读取
package utils

import (
	"database/sql"
	"os"
	"strconv"

	_ "github.com/lib/pq"
)

// BuildPostgresDSN：由 PG_* 变量拼接 DSN，缺省指向本机 geolegend 库
func BuildPostgresDSN(getenv func(string) string) string {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	dsn := "postgres://" + get("PG_USER", "postgres")
	if pass := getenv("PG_PASSWORD"); pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + get("PG_HOST", "localhost") + ":" + get("PG_PORT", "5432") + "/" + get("PG_DB", "geolegend")
	dsn += "?sslmode=" + get("PG_SSLMODE", "disable")
	return dsn
}

func BuildPostgresDSNFromEnv() string { return BuildPostgresDSN(os.Getenv) }

// OpenPostgresFromEnv：打开连接池，PG_MAX_OPEN_CONNS / PG_MAX_IDLE_CONNS 可覆盖默认值
func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open("postgres", BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	maxOpen, maxIdle := 10, 5
	if v := os.Getenv("PG_MAX_OPEN_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxOpen = n
		}
	}
	if v := os.Getenv("PG_MAX_IDLE_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxIdle = n
		}
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	return db, nil
}
