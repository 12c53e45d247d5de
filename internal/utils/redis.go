package utils

import (
	"os"
	"strconv"

	"geo-legend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisOptions：由 REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB 组装连接参数
// 约束：REDIS_DB 解析失败时回退到 0
func RedisOptions(getenv func(string) string) *redis.Options {
	host := getenv("REDIS_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db := 0
	if n, err := strconv.Atoi(getenv("REDIS_DB")); err == nil && n >= 0 {
		db = n
	}
	return &redis.Options{Addr: host + ":" + port, Password: getenv("REDIS_PASS"), DB: db}
}

// OpenRedisFromEnv：从环境变量打开 Redis 客户端（用于边界文档缓存）
func OpenRedisFromEnv() *redis.Client {
	o := RedisOptions(os.Getenv)
	logger.L().Debug("redis_env", "addr", o.Addr, "db", o.DB)
	return redis.NewClient(o)
}
