// 包 config：集中读取运行配置；优先级 默认值 < YAML 文件(CONFIG_FILE) < 环境变量
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBoundaryURL = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"
	DefaultCSVPath     = "data/median_age_2023.csv"
)

// Config：服务与 CLI 共用的配置
type Config struct {
	Addr    string `yaml:"addr"`
	APIBase string `yaml:"api_base"`

	CSVPath      string `yaml:"csv_path"`
	KeyColumn    string `yaml:"key_column"`
	ValueColumn  string `yaml:"value_column"`
	NameColumn   string `yaml:"name_column"`
	BoundaryURL  string `yaml:"boundary_url"`
	RegionPrefix string `yaml:"region_prefix"`

	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	InsecureTLS      bool          `yaml:"insecure_tls"`
	BoundaryCacheTTL time.Duration `yaml:"boundary_cache_ttl"`

	Title     string  `yaml:"title"`
	ColorLow  string  `yaml:"color_low"`
	ColorHigh string  `yaml:"color_high"`
	Step      float64 `yaml:"step"`
	Tiles     string  `yaml:"tiles"`

	SessionCapacity int           `yaml:"session_capacity"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	AdminToken      string        `yaml:"-"`

	RedisEnable bool   `yaml:"redis_enable"`
	PGEnable    bool   `yaml:"pg_enable"`
	TLSEnable   bool   `yaml:"tls_enable"`
	TLSCertPath string `yaml:"tls_cert_path"`
	TLSKeyPath  string `yaml:"tls_key_path"`

	RateLimitEnabled bool `yaml:"rate_limit_enabled"`
	RateLimitQPS     int  `yaml:"rate_limit_qps"`
}

// Default：内置默认值，对应佛罗里达州县级中位年龄
func Default() Config {
	return Config{
		Addr:             ":8080",
		APIBase:          "/api",
		CSVPath:          DefaultCSVPath,
		KeyColumn:        "Entity DCID",
		ValueColumn:      "Variable observation value",
		NameColumn:       "Entity properties name",
		BoundaryURL:      DefaultBoundaryURL,
		RegionPrefix:     "12",
		FetchTimeout:     30 * time.Second,
		BoundaryCacheTTL: 24 * time.Hour,
		Title:            "Median age in Florida",
		ColorLow:         "#9b87db",
		ColorHigh:        "#fec84d",
		Step:             0.01,
		Tiles:            "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		SessionCapacity:  1024,
		SessionTTL:       12 * time.Hour,
		TLSCertPath:      filepath.Join("data", "certs", "server.crt"),
		TLSKeyPath:       filepath.Join("data", "certs", "server.key"),
		RateLimitQPS:     200,
	}
}

// Load：加载 .env 与 data/env/.env 后解析配置
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return FromEnv(os.Getenv)
}

// FromEnv：以给定的取值函数解析配置，便于测试注入
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()
	if p := getenv("CONFIG_FILE"); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return c, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config file %s: %w", p, err)
		}
	}
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("API_BASE", &c.APIBase)
	str("CSV_PATH", &c.CSVPath)
	str("CSV_KEY_COLUMN", &c.KeyColumn)
	str("CSV_VALUE_COLUMN", &c.ValueColumn)
	str("CSV_NAME_COLUMN", &c.NameColumn)
	str("BOUNDARY_URL", &c.BoundaryURL)
	str("REGION_PREFIX", &c.RegionPrefix)
	str("MAP_TITLE", &c.Title)
	str("COLOR_LOW", &c.ColorLow)
	str("COLOR_HIGH", &c.ColorHigh)
	str("MAP_TILES", &c.Tiles)
	str("ADMIN_TOKEN", &c.AdminToken)
	str("TLS_CERT_PATH", &c.TLSCertPath)
	str("TLS_KEY_PATH", &c.TLSKeyPath)

	var err error
	if c.FetchTimeout, err = durationEnv(getenv, "BOUNDARY_FETCH_TIMEOUT", c.FetchTimeout); err != nil {
		return c, err
	}
	if c.BoundaryCacheTTL, err = durationEnv(getenv, "BOUNDARY_CACHE_TTL", c.BoundaryCacheTTL); err != nil {
		return c, err
	}
	if c.SessionTTL, err = durationEnv(getenv, "SESSION_TTL", c.SessionTTL); err != nil {
		return c, err
	}
	if s := getenv("SLIDER_STEP"); s != "" {
		f, e := strconv.ParseFloat(s, 64)
		if e != nil || f <= 0 {
			return c, fmt.Errorf("invalid SLIDER_STEP %q", s)
		}
		c.Step = f
	}
	if s := getenv("SESSION_CAPACITY"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			c.SessionCapacity = n
		}
	}
	if s := getenv("RATE_LIMIT_QPS"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			c.RateLimitQPS = n
		}
	}
	boolEnv(getenv, "BOUNDARY_INSECURE_TLS", &c.InsecureTLS)
	boolEnv(getenv, "REDIS_ENABLE", &c.RedisEnable)
	boolEnv(getenv, "PG_ENABLE", &c.PGEnable)
	boolEnv(getenv, "TLS_ENABLE", &c.TLSEnable)
	boolEnv(getenv, "RATE_LIMIT_ENABLED", &c.RateLimitEnabled)

	if !strings.HasPrefix(c.APIBase, "/") {
		c.APIBase = "/" + c.APIBase
	}
	c.APIBase = strings.TrimSuffix(c.APIBase, "/")
	if c.APIBase == "" {
		c.APIBase = "/api"
	}
	return c, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

// 仅 "true"/"false" 生效，其余值保持原值
func boolEnv(getenv func(string) string, key string, dst *bool) {
	switch strings.ToLower(getenv(key)) {
	case "true":
		*dst = true
	case "false":
		*dst = false
	}
}
